package production

import (
	"context"
	"log/slog"
	"time"

	"confeccao/internal/storage"

	"github.com/google/uuid"
)

type OrderStore interface {
	ListOrders(ctx context.Context) ([]storage.ProductionOrder, error)
	GetOrder(ctx context.Context, id string) (storage.ProductionOrder, error)
	CountOrdersByReference(ctx context.Context, referenceID string) (int, error)
	InsertOrder(ctx context.Context, o storage.ProductionOrder) error
	UpdateOrder(ctx context.Context, o storage.ProductionOrder) error
	DeleteOrder(ctx context.Context, id string) error
}

type FabricStore interface {
	ListFabrics(ctx context.Context) ([]storage.Fabric, error)
	GetFabric(ctx context.Context, id string) (storage.Fabric, error)
	InsertFabric(ctx context.Context, f storage.Fabric) error
	UpdateFabric(ctx context.Context, f storage.Fabric) error
	UpdateFabricStock(ctx context.Context, id string, rolls float64, updatedAt time.Time) error
}

type CatalogStore interface {
	ListProducts(ctx context.Context, omit map[string]bool) ([]storage.ProductReference, error)
	InsertProduct(ctx context.Context, p storage.ProductReference, omit map[string]bool) error
	UpdateProduct(ctx context.Context, p storage.ProductReference, omit map[string]bool) error
	DeleteProduct(ctx context.Context, id string) error
	ListSeamstresses(ctx context.Context, omit map[string]bool) ([]storage.Seamstress, error)
	InsertSeamstress(ctx context.Context, w storage.Seamstress, omit map[string]bool) error
	UpdateSeamstress(ctx context.Context, w storage.Seamstress, omit map[string]bool) error
}

type Store interface {
	OrderStore
	FabricStore
	CatalogStore
}

// Service owns every state change of orders, fabric stock and the catalog.
// Handlers only read through it or submit events to it.
type Service struct {
	log   *slog.Logger
	store Store
	now   func() time.Time
	newID func() string
}

func NewService(log *slog.Logger, store Store) *Service {
	return &Service{
		log:   log,
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.NewString() },
	}
}
