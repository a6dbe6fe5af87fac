package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"confeccao/internal/storage"
)

const tableProducts = "products"

func productColumns(p *storage.ProductReference, colorsJSON *[]byte, grid *string, yield *sql.NullInt64) []column {
	return []column{
		{"id", &p.ID},
		{"code", &p.Code},
		{"description", &p.Description},
		{"default_fabric", &p.DefaultFabric},
		{"default_colors", colorsJSON},
		{"default_grid", grid},
		{"estimated_pieces_per_roll", yield},
	}
}

func productRow(p storage.ProductReference) ([]column, error) {
	colors := p.DefaultColors
	if colors == nil {
		colors = []storage.ProductColor{}
	}

	colorsJSON, err := json.Marshal(colors)
	if err != nil {
		return nil, err
	}

	var yield any
	if p.EstimatedPiecesPerRoll != nil {
		yield = *p.EstimatedPiecesPerRoll
	}

	return []column{
		{"id", p.ID},
		{"code", p.Code},
		{"description", p.Description},
		{"default_fabric", p.DefaultFabric},
		{"default_colors", string(colorsJSON)},
		{"default_grid", string(p.DefaultGrid)},
		{"estimated_pieces_per_roll", yield},
	}, nil
}

func (s *Storage) ListProducts(ctx context.Context, omit map[string]bool) ([]storage.ProductReference, error) {
	const op = "storage.mysql.ListProducts"

	var probe storage.ProductReference
	cols := keep(productColumns(&probe, new([]byte), new(string), new(sql.NullInt64)), omit)

	rows, err := s.db.QueryContext(ctx, selectQuery(tableProducts, cols, "ORDER BY code ASC"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(tableProducts, err))
	}
	defer rows.Close()

	products := []storage.ProductReference{}
	for rows.Next() {
		var (
			p          storage.ProductReference
			colorsJSON []byte
			grid       string
			yield      sql.NullInt64
		)

		dest := keep(productColumns(&p, &colorsJSON, &grid, &yield), omit)
		if err := rows.Scan(values(dest)...); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		if len(colorsJSON) > 0 {
			if err := json.Unmarshal(colorsJSON, &p.DefaultColors); err != nil {
				return nil, fmt.Errorf("%s: decode colors of product %s: %w", op, p.ID, err)
			}
		}
		p.DefaultGrid = storage.GridType(grid)
		if yield.Valid {
			v := int(yield.Int64)
			p.EstimatedPiecesPerRoll = &v
		}

		products = append(products, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return products, nil
}

func (s *Storage) InsertProduct(ctx context.Context, p storage.ProductReference, omit map[string]bool) error {
	const op = "storage.mysql.InsertProduct"

	cols, err := productRow(p)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	q, args := insertQuery(tableProducts, keep(cols, omit))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("%s: product %s: %w", op, p.Code, mapError(tableProducts, err))
	}

	return nil
}

func (s *Storage) UpdateProduct(ctx context.Context, p storage.ProductReference, omit map[string]bool) error {
	const op = "storage.mysql.UpdateProduct"

	cols, err := productRow(p)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	q, args := updateQuery(tableProducts, keep(cols, omit))
	if err := execOne(ctx, s.db, tableProducts, q, args...); err != nil {
		return fmt.Errorf("%s: product id=%s: %w", op, p.ID, err)
	}

	return nil
}

func (s *Storage) DeleteProduct(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteProduct"

	if err := execOne(ctx, s.db, tableProducts, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%s: product id=%s: %w", op, id, err)
	}

	return nil
}
