package production

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"confeccao/internal/storage"
)

const (
	tableProducts     = "products"
	tableSeamstresses = "seamstresses"
)

// withSchemaFallback runs fn and, each time the store reports an unknown
// optional column of table, runs it again without that column. It returns
// the columns it had to drop.
func withSchemaFallback(table string, fn func(omit map[string]bool) error) ([]string, error) {
	omit := map[string]bool{}
	dropped := []string{}

	for {
		err := fn(omit)
		if err == nil {
			return dropped, nil
		}

		var colErr *storage.UnknownColumnError
		if !errors.As(err, &colErr) || !storage.IsOptionalColumn(table, colErr.Column) || omit[colErr.Column] {
			return dropped, err
		}

		omit[colErr.Column] = true
		dropped = append(dropped, colErr.Column)
	}
}

func (s *Service) warnDropped(op, table string, dropped []string) {
	if len(dropped) == 0 {
		return
	}
	s.log.Warn("schema is missing optional columns",
		slog.String("op", op),
		slog.String("table", table),
		slog.Any("columns", dropped),
	)
}

func (s *Service) listProducts(ctx context.Context) ([]storage.ProductReference, []string, error) {
	var products []storage.ProductReference

	dropped, err := withSchemaFallback(tableProducts, func(omit map[string]bool) error {
		var err error
		products, err = s.store.ListProducts(ctx, omit)
		return err
	})

	return products, dropped, err
}

func (s *Service) listSeamstresses(ctx context.Context) ([]storage.Seamstress, []string, error) {
	var workers []storage.Seamstress

	dropped, err := withSchemaFallback(tableSeamstresses, func(omit map[string]bool) error {
		var err error
		workers, err = s.store.ListSeamstresses(ctx, omit)
		return err
	})

	return workers, dropped, err
}

func (s *Service) findSeamstress(ctx context.Context, id string) (storage.Seamstress, error) {
	workers, _, err := s.listSeamstresses(ctx)
	if err != nil {
		return storage.Seamstress{}, err
	}

	for _, w := range workers {
		if w.ID == id {
			return w, nil
		}
	}

	return storage.Seamstress{}, fmt.Errorf("seamstress id=%s: %w", id, storage.ErrNotFound)
}

func (s *Service) ListProducts(ctx context.Context) ([]storage.ProductReference, error) {
	const op = "service.production.ListProducts"

	products, dropped, err := s.listProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.warnDropped(op, tableProducts, dropped)

	return products, nil
}

func (s *Service) ListSeamstresses(ctx context.Context) ([]storage.Seamstress, error) {
	const op = "service.production.ListSeamstresses"

	workers, dropped, err := s.listSeamstresses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.warnDropped(op, tableSeamstresses, dropped)

	return workers, nil
}

// ProductResult is a saved product plus the optional columns the store
// could not persist.
type ProductResult struct {
	Product storage.ProductReference `json:"product"`
	Dropped []string                 `json:"dropped"`
}

type SeamstressResult struct {
	Seamstress storage.Seamstress `json:"seamstress"`
	Dropped    []string           `json:"dropped"`
}

func normalizeProduct(p storage.ProductReference) (storage.ProductReference, error) {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.Description = strings.TrimSpace(p.Description)
	p.DefaultFabric = strings.TrimSpace(p.DefaultFabric)

	if p.Code == "" {
		return p, fmt.Errorf("%w: product code is required", ErrInvalidInput)
	}
	if p.Description == "" {
		return p, fmt.Errorf("%w: product description is required", ErrInvalidInput)
	}
	if p.DefaultGrid == "" {
		p.DefaultGrid = storage.GridStandard
	}
	if !p.DefaultGrid.Valid() {
		return p, fmt.Errorf("%w: unknown grid %q", ErrInvalidInput, p.DefaultGrid)
	}
	if p.EstimatedPiecesPerRoll != nil && *p.EstimatedPiecesPerRoll <= 0 {
		p.EstimatedPiecesPerRoll = nil
	}
	if p.DefaultColors == nil {
		p.DefaultColors = []storage.ProductColor{}
	}
	for i, c := range p.DefaultColors {
		p.DefaultColors[i].Name = strings.TrimSpace(c.Name)
		if p.DefaultColors[i].Name == "" {
			return p, fmt.Errorf("%w: color name is required", ErrInvalidInput)
		}
		if c.Hex == "" {
			p.DefaultColors[i].Hex = defaultColorHex
		}
	}

	return p, nil
}

// SaveProduct creates the product when its id is empty, otherwise updates it.
// The code of a product already used by an order is frozen.
func (s *Service) SaveProduct(ctx context.Context, p storage.ProductReference) (ProductResult, error) {
	const op = "service.production.SaveProduct"

	p, err := normalizeProduct(p)
	if err != nil {
		return ProductResult{}, fmt.Errorf("%s: %w", op, err)
	}

	write := s.store.InsertProduct
	if p.ID == "" {
		p.ID = s.newID()
	} else {
		current, err := s.product(ctx, p.ID)
		if err != nil {
			return ProductResult{}, fmt.Errorf("%s: %w", op, err)
		}
		if current.Code != p.Code {
			if err := s.ensureUnused(ctx, p.ID); err != nil {
				return ProductResult{}, fmt.Errorf("%s: code change: %w", op, err)
			}
		}
		write = s.store.UpdateProduct
	}

	dropped, err := withSchemaFallback(tableProducts, func(omit map[string]bool) error {
		return write(ctx, p, omit)
	})
	if err != nil {
		return ProductResult{}, fmt.Errorf("%s: %w", op, err)
	}
	s.warnDropped(op, tableProducts, dropped)

	for _, col := range dropped {
		if col == "estimated_pieces_per_roll" {
			p.EstimatedPiecesPerRoll = nil
		}
	}

	return ProductResult{Product: p, Dropped: dropped}, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	const op = "service.production.DeleteProduct"

	if err := s.ensureUnused(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Service) ensureUnused(ctx context.Context, productID string) error {
	n, err := s.store.CountOrdersByReference(ctx, productID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: %d orders", ErrProductInUse, n)
	}
	return nil
}

type SeamstressInput struct {
	Name      string  `json:"name"`
	Phone     string  `json:"phone"`
	Specialty string  `json:"specialty"`
	Active    *bool   `json:"active"`
	Address   *string `json:"address"`
	City      *string `json:"city"`
}

// SaveSeamstress creates a seamstress when id is empty, otherwise updates it.
// New seamstresses start active unless told otherwise. An update without
// active keeps the stored value.
func (s *Service) SaveSeamstress(ctx context.Context, id string, in SeamstressInput) (SeamstressResult, error) {
	const op = "service.production.SaveSeamstress"

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return SeamstressResult{}, fmt.Errorf("%s: %w: name is required", op, ErrInvalidInput)
	}

	w := storage.Seamstress{
		ID:        id,
		Name:      name,
		Phone:     strings.TrimSpace(in.Phone),
		Specialty: strings.TrimSpace(in.Specialty),
		Active:    true,
		Address:   in.Address,
		City:      in.City,
	}

	switch {
	case in.Active != nil:
		w.Active = *in.Active
	case id != "":
		current, err := s.findSeamstress(ctx, id)
		if err != nil {
			return SeamstressResult{}, fmt.Errorf("%s: %w", op, err)
		}
		w.Active = current.Active
	}

	write := s.store.UpdateSeamstress
	if id == "" {
		w.ID = s.newID()
		write = s.store.InsertSeamstress
	}

	dropped, err := withSchemaFallback(tableSeamstresses, func(omit map[string]bool) error {
		return write(ctx, w, omit)
	})
	if err != nil {
		return SeamstressResult{}, fmt.Errorf("%s: %w", op, err)
	}
	s.warnDropped(op, tableSeamstresses, dropped)

	for _, col := range dropped {
		switch col {
		case "address":
			w.Address = nil
		case "city":
			w.City = nil
		}
	}

	return SeamstressResult{Seamstress: w, Dropped: dropped}, nil
}
