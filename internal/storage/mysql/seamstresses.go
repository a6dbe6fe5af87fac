package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"confeccao/internal/storage"
)

const tableSeamstresses = "seamstresses"

func seamstressColumns(w *storage.Seamstress, address, city *sql.NullString) []column {
	return []column{
		{"id", &w.ID},
		{"name", &w.Name},
		{"phone", &w.Phone},
		{"specialty", &w.Specialty},
		{"active", &w.Active},
		{"address", address},
		{"city", city},
	}
}

func nullable(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func seamstressRow(w storage.Seamstress) []column {
	return []column{
		{"id", w.ID},
		{"name", w.Name},
		{"phone", w.Phone},
		{"specialty", w.Specialty},
		{"active", w.Active},
		{"address", nullable(w.Address)},
		{"city", nullable(w.City)},
	}
}

func (s *Storage) ListSeamstresses(ctx context.Context, omit map[string]bool) ([]storage.Seamstress, error) {
	const op = "storage.mysql.ListSeamstresses"

	var probe storage.Seamstress
	cols := keep(seamstressColumns(&probe, new(sql.NullString), new(sql.NullString)), omit)

	rows, err := s.db.QueryContext(ctx, selectQuery(tableSeamstresses, cols, "ORDER BY name ASC"))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(tableSeamstresses, err))
	}
	defer rows.Close()

	workers := []storage.Seamstress{}
	for rows.Next() {
		var (
			w             storage.Seamstress
			address, city sql.NullString
		)

		dest := keep(seamstressColumns(&w, &address, &city), omit)
		if err := rows.Scan(values(dest)...); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}

		if address.Valid {
			w.Address = &address.String
		}
		if city.Valid {
			w.City = &city.String
		}

		workers = append(workers, w)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows: %w", op, err)
	}

	return workers, nil
}

func (s *Storage) InsertSeamstress(ctx context.Context, w storage.Seamstress, omit map[string]bool) error {
	const op = "storage.mysql.InsertSeamstress"

	q, args := insertQuery(tableSeamstresses, keep(seamstressRow(w), omit))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("%s: seamstress %s: %w", op, w.Name, mapError(tableSeamstresses, err))
	}

	return nil
}

func (s *Storage) UpdateSeamstress(ctx context.Context, w storage.Seamstress, omit map[string]bool) error {
	const op = "storage.mysql.UpdateSeamstress"

	q, args := updateQuery(tableSeamstresses, keep(seamstressRow(w), omit))
	if err := execOne(ctx, s.db, tableSeamstresses, q, args...); err != nil {
		return fmt.Errorf("%s: seamstress id=%s: %w", op, w.ID, err)
	}

	return nil
}
