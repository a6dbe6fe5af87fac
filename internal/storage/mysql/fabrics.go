package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"confeccao/internal/storage"
)

const tableFabrics = "fabrics"

const fabricSelect = `SELECT id, name, color, color_hex, stock_rolls, notes, created_at, updated_at FROM fabrics`

type scanner interface {
	Scan(dest ...any) error
}

func scanFabric(row scanner) (storage.Fabric, error) {
	var (
		f     storage.Fabric
		notes sql.NullString
	)

	err := row.Scan(&f.ID, &f.Name, &f.Color, &f.ColorHex, &f.StockRolls, &notes, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return f, err
	}
	f.Notes = notes.String

	return f, nil
}

func (s *Storage) ListFabrics(ctx context.Context) ([]storage.Fabric, error) {
	const op = "storage.mysql.ListFabrics"

	rows, err := s.db.QueryContext(ctx, fabricSelect+` ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(tableFabrics, err))
	}
	defer rows.Close()

	fabrics := []storage.Fabric{}
	for rows.Next() {
		f, err := scanFabric(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		fabrics = append(fabrics, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return fabrics, nil
}

func (s *Storage) GetFabric(ctx context.Context, id string) (storage.Fabric, error) {
	const op = "storage.mysql.GetFabric"

	f, err := scanFabric(s.db.QueryRowContext(ctx, fabricSelect+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return f, fmt.Errorf("%s: fabric id=%s: %w", op, id, storage.ErrNotFound)
		}
		return f, fmt.Errorf("%s: fabric id=%s: %w", op, id, mapError(tableFabrics, err))
	}

	return f, nil
}

func (s *Storage) InsertFabric(ctx context.Context, f storage.Fabric) error {
	const op = "storage.mysql.InsertFabric"

	stmt := `INSERT INTO fabrics (id, name, color, color_hex, stock_rolls, notes, created_at, updated_at)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := s.db.ExecContext(ctx, stmt, f.ID, f.Name, f.Color, f.ColorHex, f.StockRolls, f.Notes, f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("%s: fabric %s/%s: %w", op, f.Name, f.Color, mapError(tableFabrics, err))
	}

	return nil
}

func (s *Storage) UpdateFabric(ctx context.Context, f storage.Fabric) error {
	const op = "storage.mysql.UpdateFabric"

	stmt := `UPDATE fabrics SET name = ?, color = ?, color_hex = ?, stock_rolls = ?, notes = ?, updated_at = ? WHERE id = ?`

	if err := execOne(ctx, s.db, tableFabrics, stmt, f.Name, f.Color, f.ColorHex, f.StockRolls, f.Notes, f.UpdatedAt, f.ID); err != nil {
		return fmt.Errorf("%s: fabric id=%s: %w", op, f.ID, err)
	}

	return nil
}

func (s *Storage) UpdateFabricStock(ctx context.Context, id string, rolls float64, updatedAt time.Time) error {
	const op = "storage.mysql.UpdateFabricStock"

	stmt := `UPDATE fabrics SET stock_rolls = ?, updated_at = ? WHERE id = ?`

	if err := execOne(ctx, s.db, tableFabrics, stmt, rolls, updatedAt, id); err != nil {
		return fmt.Errorf("%s: fabric id=%s: %w", op, id, err)
	}

	return nil
}
