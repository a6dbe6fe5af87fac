package report

import (
	"context"
	"fmt"

	"confeccao/internal/service/production"
	"confeccao/internal/storage"

	"golang.org/x/sync/errgroup"
)

type Source interface {
	ListOrders(ctx context.Context) ([]storage.ProductionOrder, error)
	ListSeamstresses(ctx context.Context) ([]storage.Seamstress, error)
	ListFabrics(ctx context.Context, filter production.FabricFilter) ([]storage.Fabric, error)
	ListProducts(ctx context.Context) ([]storage.ProductReference, error)
}

// Snapshot is everything the read-only views are computed from.
type Snapshot struct {
	Orders       []storage.ProductionOrder
	Seamstresses []storage.Seamstress
	Fabrics      []storage.Fabric
	Products     []storage.ProductReference
}

type Loader struct {
	src Source
}

func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

// Load reads all collections in parallel. The first failure cancels the rest.
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	const op = "service.report.Load"

	var snap Snapshot

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snap.Orders, err = l.src.ListOrders(gCtx)
		if err != nil {
			return fmt.Errorf("orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap.Seamstresses, err = l.src.ListSeamstresses(gCtx)
		if err != nil {
			return fmt.Errorf("seamstresses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap.Fabrics, err = l.src.ListFabrics(gCtx, production.FabricFilter{})
		if err != nil {
			return fmt.Errorf("fabrics: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap.Products, err = l.src.ListProducts(gCtx)
		if err != nil {
			return fmt.Errorf("products: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("%s: %w", op, err)
	}

	return snap, nil
}
