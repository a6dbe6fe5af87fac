package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"confeccao/internal/storage"
)

const tableOrders = "orders"

const orderSelect = `
	SELECT id, reference_id, reference_code, description, fabric, grid_type, status,
	       items, active_cutting_items, splits, notes, created_at, updated_at, finished_at
	FROM orders`

func scanOrder(row scanner) (storage.ProductionOrder, error) {
	var (
		o                               storage.ProductionOrder
		grid, status                    string
		itemsJSON, activeJSON, splitsJS []byte
		notes                           sql.NullString
		finishedAt                      sql.NullTime
	)

	err := row.Scan(
		&o.ID,
		&o.ReferenceID,
		&o.ReferenceCode,
		&o.Description,
		&o.Fabric,
		&grid,
		&status,
		&itemsJSON,
		&activeJSON,
		&splitsJS,
		&notes,
		&o.CreatedAt,
		&o.UpdatedAt,
		&finishedAt,
	)
	if err != nil {
		return o, err
	}

	o.GridType = storage.GridType(grid)
	o.Status = storage.OrderStatus(status)
	o.Notes = notes.String
	if finishedAt.Valid {
		t := finishedAt.Time
		o.FinishedAt = &t
	}

	if err := decodeJSON(itemsJSON, &o.Items); err != nil {
		return o, fmt.Errorf("items of order %s: %w", o.ID, err)
	}
	if err := decodeJSON(activeJSON, &o.ActiveCuttingItems); err != nil {
		return o, fmt.Errorf("cutting items of order %s: %w", o.ID, err)
	}
	if err := decodeJSON(splitsJS, &o.Splits); err != nil {
		return o, fmt.Errorf("splits of order %s: %w", o.ID, err)
	}

	return o, nil
}

func decodeJSON[T any](raw []byte, dst *[]T) error {
	*dst = []T{}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, dst)
}

func encodeJSON[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	b, err := json.Marshal(v)
	return string(b), err
}

func orderArgs(o storage.ProductionOrder) ([]any, error) {
	items, err := encodeJSON(o.Items)
	if err != nil {
		return nil, err
	}
	active, err := encodeJSON(o.ActiveCuttingItems)
	if err != nil {
		return nil, err
	}
	splits, err := encodeJSON(o.Splits)
	if err != nil {
		return nil, err
	}

	var finishedAt any
	if o.FinishedAt != nil {
		finishedAt = *o.FinishedAt
	}

	return []any{
		o.ReferenceID, o.ReferenceCode, o.Description, o.Fabric, string(o.GridType), string(o.Status),
		items, active, splits, o.Notes, o.CreatedAt, o.UpdatedAt, finishedAt,
	}, nil
}

func (s *Storage) ListOrders(ctx context.Context) ([]storage.ProductionOrder, error) {
	const op = "storage.mysql.ListOrders"

	rows, err := s.db.QueryContext(ctx, orderSelect+` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(tableOrders, err))
	}
	defer rows.Close()

	orders := []storage.ProductionOrder{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		orders = append(orders, o)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return orders, nil
}

func (s *Storage) GetOrder(ctx context.Context, id string) (storage.ProductionOrder, error) {
	const op = "storage.mysql.GetOrder"

	o, err := scanOrder(s.db.QueryRowContext(ctx, orderSelect+` WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return o, fmt.Errorf("%s: order id=%s: %w", op, id, storage.ErrNotFound)
		}
		return o, fmt.Errorf("%s: order id=%s: %w", op, id, mapError(tableOrders, err))
	}

	return o, nil
}

func (s *Storage) CountOrdersByReference(ctx context.Context, referenceID string) (int, error) {
	const op = "storage.mysql.CountOrdersByReference"

	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE reference_id = ?`, referenceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapError(tableOrders, err))
	}

	return n, nil
}

func (s *Storage) InsertOrder(ctx context.Context, o storage.ProductionOrder) error {
	const op = "storage.mysql.InsertOrder"

	args, err := orderArgs(o)
	if err != nil {
		return fmt.Errorf("%s: encode order %s: %w", op, o.ID, err)
	}

	stmt := `INSERT INTO orders (reference_id, reference_code, description, fabric, grid_type, status,
                items, active_cutting_items, splits, notes, created_at, updated_at, finished_at, id)
             VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	if _, err := s.db.ExecContext(ctx, stmt, append(args, o.ID)...); err != nil {
		return fmt.Errorf("%s: order id=%s: %w", op, o.ID, mapError(tableOrders, err))
	}

	return nil
}

// UpdateOrder overwrites the whole row; the last writer wins.
func (s *Storage) UpdateOrder(ctx context.Context, o storage.ProductionOrder) error {
	const op = "storage.mysql.UpdateOrder"

	args, err := orderArgs(o)
	if err != nil {
		return fmt.Errorf("%s: encode order %s: %w", op, o.ID, err)
	}

	stmt := `UPDATE orders SET reference_id = ?, reference_code = ?, description = ?, fabric = ?, grid_type = ?,
                status = ?, items = ?, active_cutting_items = ?, splits = ?, notes = ?, created_at = ?,
                updated_at = ?, finished_at = ?
             WHERE id = ?`

	if err := execOne(ctx, s.db, tableOrders, stmt, append(args, o.ID)...); err != nil {
		return fmt.Errorf("%s: order id=%s: %w", op, o.ID, err)
	}

	return nil
}

func (s *Storage) DeleteOrder(ctx context.Context, id string) error {
	const op = "storage.mysql.DeleteOrder"

	if err := execOne(ctx, s.db, tableOrders, `DELETE FROM orders WHERE id = ?`, id); err != nil {
		return fmt.Errorf("%s: order id=%s: %w", op, id, err)
	}

	return nil
}
