// Package pgstore implements store.Client directly against Postgres.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ivy-monitoring/supplier-api/internal/store"
)

// Querier is the subset of pgxpool.Pool used by the store.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Store runs table operations as plain SQL statements.
type Store struct {
	db Querier
}

// New returns a Store backed by db.
func New(db Querier) *Store {
	return &Store{db: db}
}

func (s *Store) Select(ctx context.Context, table string, filter *store.Filter) ([]store.Row, error) {
	sql, args := buildSelect(table, filter)
	return s.query(ctx, store.OpSelect, table, sql, args)
}

func (s *Store) Insert(ctx context.Context, table string, values store.Row) ([]store.Row, error) {
	sql, args := buildInsert(table, values)
	return s.query(ctx, store.OpInsert, table, sql, args)
}

// Update with no values returns the matching rows unchanged.
func (s *Store) Update(ctx context.Context, table string, values store.Row, filter store.Filter) ([]store.Row, error) {
	if len(values) == 0 {
		return s.Select(ctx, table, &filter)
	}
	sql, args := buildUpdate(table, values, filter)
	return s.query(ctx, store.OpUpdate, table, sql, args)
}

func (s *Store) Delete(ctx context.Context, table string, filter store.Filter) ([]store.Row, error) {
	sql, args := buildDelete(table, filter)
	return s.query(ctx, store.OpDelete, table, sql, args)
}

func (s *Store) query(ctx context.Context, op store.Op, table, sql string, args []any) ([]store.Row, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, wrapError(op, table, err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []store.Row{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, wrapError(op, table, err)
		}
		row := make(store.Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = normalize(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError(op, table, err)
	}
	return out, nil
}

func wrapError(op store.Op, table string, err error) error {
	e := &store.Error{Op: op, Table: table, Err: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		e.Code = pgErr.Code
		e.Message = pgErr.Message
	}
	return e
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func sortedColumns(values store.Row) []string {
	cols := make([]string, 0, len(values))
	for k := range values {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

func placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func buildSelect(table string, filter *store.Filter) (string, []any) {
	sql := "SELECT * FROM " + ident(table)
	if filter == nil {
		return sql, nil
	}
	return sql + " WHERE " + ident(filter.Column) + " = $1", []any{arg(filter.Value)}
}

func buildInsert(table string, values store.Row) (string, []any) {
	if len(values) == 0 {
		return "INSERT INTO " + ident(table) + " DEFAULT VALUES RETURNING *", nil
	}
	cols := sortedColumns(values)
	names := make([]string, len(cols))
	marks := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, c := range cols {
		names[i] = ident(c)
		marks[i] = placeholder(i + 1)
		args[i] = arg(values[c])
	}
	sql := "INSERT INTO " + ident(table) + " (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(marks, ", ") + ") RETURNING *"
	return sql, args
}

func buildUpdate(table string, values store.Row, filter store.Filter) (string, []any) {
	cols := sortedColumns(values)
	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, c := range cols {
		sets[i] = ident(c) + " = " + placeholder(i+1)
		args = append(args, arg(values[c]))
	}
	args = append(args, arg(filter.Value))
	sql := "UPDATE " + ident(table) + " SET " + strings.Join(sets, ", ") +
		" WHERE " + ident(filter.Column) + " = " + placeholder(len(args)) + " RETURNING *"
	return sql, args
}

func buildDelete(table string, filter store.Filter) (string, []any) {
	return "DELETE FROM " + ident(table) + " WHERE " + ident(filter.Column) + " = $1 RETURNING *", []any{arg(filter.Value)}
}

// arg converts decoded request values into something pgx can encode.
func arg(v any) any {
	if n, ok := v.(json.Number); ok {
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return f
		}
		return n.String()
	}
	return v
}

// normalize renders driver values in a JSON friendly form.
func normalize(v any) any {
	switch val := v.(type) {
	case [16]byte:
		return uuid.UUID(val).String()
	case []any:
		for i := range val {
			val[i] = normalize(val[i])
		}
		return val
	default:
		return v
	}
}
