package storage

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("record already exists")
)

// UnknownColumnError is returned when the store schema lacks a column the
// statement referenced.
type UnknownColumnError struct {
	Table  string
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("unknown column %q in table %q", e.Column, e.Table)
}

// Optional columns per table. Writes and reads may be retried without them
// when the deployed schema predates their addition.
var OptionalColumns = map[string][]string{
	"products":     {"estimated_pieces_per_roll"},
	"seamstresses": {"address", "city"},
}

func IsOptionalColumn(table, column string) bool {
	for _, c := range OptionalColumns[table] {
		if c == column {
			return true
		}
	}
	return false
}
