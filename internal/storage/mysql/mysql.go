package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	"confeccao/internal/config"
	"confeccao/internal/storage"

	"github.com/go-sql-driver/mysql"
)

const (
	errUnknownColumn = 1054
	errDuplicateKey  = 1062
)

type Storage struct {
	db *sql.DB
}

func New(cfg config.Config) (*Storage, error) {
	const op = "storage.mysql.New"

	dsn := mysql.NewConfig()
	dsn.User = cfg.DBUser
	dsn.Passwd = cfg.DBPassword
	dsn.Net = "tcp"
	dsn.Addr = net.JoinHostPort(cfg.DBHost, strconv.Itoa(cfg.DBPort))
	dsn.DBName = cfg.DBName
	dsn.ParseTime = cfg.ParseTime
	dsn.Loc = time.UTC
	// affected rows must count matched rows, otherwise an update that
	// writes identical values looks like a missing record
	dsn.ClientFoundRows = true

	db, err := sql.Open("mysql", dsn.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// column is one field of a row being written or read.
type column struct {
	name  string
	value any
}

func keep(cols []column, omit map[string]bool) []column {
	out := make([]column, 0, len(cols))
	for _, c := range cols {
		if omit[c.name] {
			continue
		}
		out = append(out, c)
	}
	return out
}

func names(cols []column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.name
	}
	return out
}

func values(cols []column) []any {
	out := make([]any, len(cols))
	for i, c := range cols {
		out[i] = c.value
	}
	return out
}

func insertQuery(table string, cols []column) (string, []any) {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(names(cols), ", "), placeholders)
	return q, values(cols)
}

// updateQuery writes every column but the first, which is the key.
func updateQuery(table string, cols []column) (string, []any) {
	key := cols[0]
	set := make([]string, 0, len(cols)-1)
	args := make([]any, 0, len(cols))
	for _, c := range cols[1:] {
		set = append(set, c.name+" = ?")
		args = append(args, c.value)
	}
	args = append(args, key.value)
	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", table, strings.Join(set, ", "), key.name)
	return q, args
}

func selectQuery(table string, cols []column, tail string) string {
	q := fmt.Sprintf("SELECT %s FROM %s", strings.Join(names(cols), ", "), table)
	if tail != "" {
		q += " " + tail
	}
	return q
}

var unknownColumnRe = regexp.MustCompile(`Unknown column '([^']+)'`)

// mapError turns driver errors into the storage package's vocabulary.
func mapError(table string, err error) error {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return err
	}

	switch myErr.Number {
	case errUnknownColumn:
		col := ""
		if m := unknownColumnRe.FindStringSubmatch(myErr.Message); len(m) == 2 {
			col = m[1]
			if i := strings.LastIndex(col, "."); i >= 0 {
				col = col[i+1:]
			}
		}
		return &storage.UnknownColumnError{Table: table, Column: col}
	case errDuplicateKey:
		return fmt.Errorf("%w: %s", storage.ErrDuplicate, myErr.Message)
	}

	return err
}

func execOne(ctx context.Context, db *sql.DB, table, query string, args ...any) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return mapError(table, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}

	return nil
}
