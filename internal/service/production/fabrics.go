package production

import (
	"context"
	"fmt"
	"strings"

	"confeccao/internal/storage"
)

func (s *Service) ListFabrics(ctx context.Context, filter FabricFilter) ([]storage.Fabric, error) {
	const op = "service.production.ListFabrics"

	fabrics, err := s.store.ListFabrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return FilterFabrics(fabrics, filter), nil
}

type FabricInput struct {
	Name       string     `json:"name"`
	Color      string     `json:"color"`
	ColorHex   string     `json:"colorHex"`
	StockRolls RollAmount `json:"stockRolls"`
	Notes      string     `json:"notes"`
}

func (in FabricInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: fabric name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.Color) == "" {
		return fmt.Errorf("%w: fabric color is required", ErrInvalidInput)
	}
	if in.StockRolls < 0 {
		return fmt.Errorf("%w: stock cannot be negative", ErrInvalidInput)
	}
	return nil
}

// SaveFabric creates the fabric when id is empty, otherwise overwrites it
// keeping its creation date.
func (s *Service) SaveFabric(ctx context.Context, id string, in FabricInput) (storage.Fabric, error) {
	const op = "service.production.SaveFabric"

	if err := in.validate(); err != nil {
		return storage.Fabric{}, fmt.Errorf("%s: %w", op, err)
	}

	hex := in.ColorHex
	if hex == "" {
		hex = defaultColorHex
	}

	now := s.now()
	f := storage.Fabric{
		ID:         id,
		Name:       strings.TrimSpace(in.Name),
		Color:      strings.TrimSpace(in.Color),
		ColorHex:   hex,
		StockRolls: RoundRolls(float64(in.StockRolls)),
		Notes:      in.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if id == "" {
		f.ID = s.newID()
		if err := s.store.InsertFabric(ctx, f); err != nil {
			return storage.Fabric{}, fmt.Errorf("%s: %w", op, err)
		}
		return f, nil
	}

	current, err := s.store.GetFabric(ctx, id)
	if err != nil {
		return storage.Fabric{}, fmt.Errorf("%s: %w", op, err)
	}
	f.CreatedAt = current.CreatedAt

	if err := s.store.UpdateFabric(ctx, f); err != nil {
		return storage.Fabric{}, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}

// AddStock records incoming rolls for a fabric.
func (s *Service) AddStock(ctx context.Context, id string, amount float64) (storage.Fabric, error) {
	const op = "service.production.AddStock"

	if amount <= 0 {
		return storage.Fabric{}, fmt.Errorf("%s: %w", op, ErrInvalidAmount)
	}

	f, err := s.store.GetFabric(ctx, id)
	if err != nil {
		return f, fmt.Errorf("%s: %w", op, err)
	}

	f.StockRolls = AddRolls(f.StockRolls, amount)
	f.UpdatedAt = s.now()

	if err := s.store.UpdateFabricStock(ctx, f.ID, f.StockRolls, f.UpdatedAt); err != nil {
		return f, fmt.Errorf("%s: %w", op, err)
	}

	return f, nil
}
