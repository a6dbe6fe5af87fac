package production

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"confeccao/internal/storage"

	"golang.org/x/sync/errgroup"
)

func (s *Service) ListOrders(ctx context.Context) ([]storage.ProductionOrder, error) {
	const op = "service.production.ListOrders"

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return orders, nil
}

func (s *Service) GetOrder(ctx context.Context, id string) (storage.ProductionOrder, error) {
	const op = "service.production.GetOrder"

	o, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return o, fmt.Errorf("%s: %w", op, err)
	}

	return o, nil
}

func (s *Service) NextOrderID(ctx context.Context) (string, error) {
	const op = "service.production.NextOrderID"

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return NextOrderID(orders), nil
}

func (s *Service) product(ctx context.Context, id string) (storage.ProductReference, error) {
	products, _, err := s.listProducts(ctx)
	if err != nil {
		return storage.ProductReference{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return storage.ProductReference{}, fmt.Errorf("product id=%s: %w", id, storage.ErrNotFound)
}

func (s *Service) CreateOrder(ctx context.Context, in OrderInput) (storage.ProductionOrder, error) {
	const op = "service.production.CreateOrder"

	if err := in.validate(); err != nil {
		return storage.ProductionOrder{}, fmt.Errorf("%s: %w", op, err)
	}

	product, err := s.product(ctx, in.ReferenceID)
	if err != nil {
		return storage.ProductionOrder{}, fmt.Errorf("%s: %w", op, err)
	}

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return storage.ProductionOrder{}, fmt.Errorf("%s: %w", op, err)
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = NextOrderID(orders)
	}
	for _, o := range orders {
		if o.ID == id {
			return storage.ProductionOrder{}, fmt.Errorf("%s: %w: %s", op, ErrOrderExists, id)
		}
	}

	order, err := NewOrder(id, in, product, s.now())
	if err != nil {
		return storage.ProductionOrder{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.InsertOrder(ctx, order); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return storage.ProductionOrder{}, fmt.Errorf("%s: %w: %s", op, ErrOrderExists, id)
		}
		return storage.ProductionOrder{}, fmt.Errorf("%s: %w", op, err)
	}

	return order, nil
}

func (s *Service) EditOrder(ctx context.Context, id string, in OrderInput) (storage.ProductionOrder, error) {
	const op = "service.production.EditOrder"

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return order, fmt.Errorf("%s: %w", op, err)
	}

	if !Allowed(order.Status, EventEdit) {
		return order, fmt.Errorf("%s: %w: edit while %s", op, ErrIllegalTransition, order.Status)
	}
	if order.CutConfirmed() {
		return order, fmt.Errorf("%s: %w: edit after the cut was confirmed", op, ErrIllegalTransition)
	}

	product, err := s.product(ctx, in.ReferenceID)
	if err != nil {
		return order, fmt.Errorf("%s: %w", op, err)
	}

	return s.apply(ctx, op, order, Edit{Input: in, Product: product})
}

func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	const op = "service.production.DeleteOrder"

	if err := s.store.DeleteOrder(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// CuttingResult reports the stock moved when an order entered the cutting room.
type CuttingResult struct {
	Order      storage.ProductionOrder `json:"order"`
	Deductions []Deduction             `json:"deductions"`
	Unmatched  []string                `json:"unmatched"`
}

// MoveToCutting deducts the rolls of every item from fabric stock and moves
// the order to CUTTING. A failed fabric write stops before the order is saved.
func (s *Service) MoveToCutting(ctx context.Context, id string) (CuttingResult, error) {
	const op = "service.production.MoveToCutting"

	log := s.log.With(slog.String("op", op), slog.String("order_id", id))

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return CuttingResult{}, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	next, err := Transition(order, StartCutting{}, now)
	if err != nil {
		return CuttingResult{}, fmt.Errorf("%s: %w", op, err)
	}

	fabrics, err := s.store.ListFabrics(ctx)
	if err != nil {
		return CuttingResult{}, fmt.Errorf("%s: %w", op, err)
	}

	deductions, unmatched := DeductForCut(fabrics, order)
	for _, color := range unmatched {
		log.Debug("no fabric in stock for color", slog.String("fabric", order.Fabric), slog.String("color", color))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, d := range deductions {
		g.Go(func() error {
			return s.store.UpdateFabricStock(gctx, d.FabricID, d.After, now)
		})
	}
	if err := g.Wait(); err != nil {
		return CuttingResult{}, fmt.Errorf("%s: deduct fabric: %w", op, err)
	}

	if err := s.store.UpdateOrder(ctx, next); err != nil {
		return CuttingResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if deductions == nil {
		deductions = []Deduction{}
	}
	if unmatched == nil {
		unmatched = []string{}
	}

	return CuttingResult{Order: next, Deductions: deductions, Unmatched: unmatched}, nil
}

func (s *Service) CutDraft(ctx context.Context, id string) ([]storage.OrderItem, error) {
	const op = "service.production.CutDraft"

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if order.Status != storage.StatusCutting {
		return nil, fmt.Errorf("%s: %w: cut draft while %s", op, ErrIllegalTransition, order.Status)
	}

	return CutDraft(order), nil
}

func (s *Service) ConfirmCut(ctx context.Context, id string, sizes map[string]storage.SizeDistribution) (storage.ProductionOrder, error) {
	const op = "service.production.ConfirmCut"

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return order, fmt.Errorf("%s: %w", op, err)
	}

	return s.apply(ctx, op, order, ConfirmCut{Sizes: sizes})
}

func (s *Service) Distribute(ctx context.Context, id string, req DistributeRequest) (storage.ProductionOrder, error) {
	const op = "service.production.Distribute"

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return order, fmt.Errorf("%s: %w", op, err)
	}

	worker, err := s.findSeamstress(ctx, req.SeamstressID)
	if err != nil {
		return order, fmt.Errorf("%s: %w", op, err)
	}
	if !worker.Active {
		return order, fmt.Errorf("%s: %w: %s", op, ErrSeamstressInactive, worker.Name)
	}

	return s.apply(ctx, op, order, Distribute{
		SplitID:    s.newID(),
		Seamstress: worker,
		Request:    req,
	})
}

func (s *Service) FinishSplit(ctx context.Context, id, splitID string) (storage.ProductionOrder, error) {
	const op = "service.production.FinishSplit"

	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		return order, fmt.Errorf("%s: %w", op, err)
	}

	return s.apply(ctx, op, order, FinishSplit{SplitID: splitID})
}

func (s *Service) apply(ctx context.Context, op string, order storage.ProductionOrder, cmd Command) (storage.ProductionOrder, error) {
	next, err := Transition(order, cmd, s.now())
	if err != nil {
		return order, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.UpdateOrder(ctx, next); err != nil {
		return order, fmt.Errorf("%s: %w", op, err)
	}

	return next, nil
}
