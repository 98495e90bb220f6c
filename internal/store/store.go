// Package store defines the table-style client used to reach the managed data store.
package store

import (
	"context"
	"errors"
	"fmt"
)

// Row is one loosely typed record as returned by the store.
type Row map[string]any

// Filter selects rows whose Column equals Value.
type Filter struct {
	Column string
	Value  any
}

// Eq builds an equality filter.
func Eq(column string, value any) Filter {
	return Filter{Column: column, Value: value}
}

// Client is the set of table operations the service relies on. Every call returns
// the affected rows, zero or more.
type Client interface {
	Select(ctx context.Context, table string, filter *Filter) ([]Row, error)
	Insert(ctx context.Context, table string, values Row) ([]Row, error)
	Update(ctx context.Context, table string, values Row, filter Filter) ([]Row, error)
	Delete(ctx context.Context, table string, filter Filter) ([]Row, error)
}

// Op names a store operation for errors and metrics.
type Op string

const (
	OpSelect Op = "select"
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ErrNotConfigured is returned by every call when store credentials are absent.
var ErrNotConfigured = errors.New("store: credentials not configured")

// Error describes a failed remote call.
type Error struct {
	Op      Op
	Table   string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Code != "" {
		return fmt.Sprintf("store: %s %s: %s (%s)", e.Op, e.Table, msg, e.Code)
	}
	return fmt.Sprintf("store: %s %s: %s", e.Op, e.Table, msg)
}

func (e *Error) Unwrap() error { return e.Err }

type unconfigured struct{}

// Unconfigured returns a Client that fails every call with ErrNotConfigured.
func Unconfigured() Client { return unconfigured{} }

func (unconfigured) Select(context.Context, string, *Filter) ([]Row, error) {
	return nil, ErrNotConfigured
}

func (unconfigured) Insert(context.Context, string, Row) ([]Row, error) {
	return nil, ErrNotConfigured
}

func (unconfigured) Update(context.Context, string, Row, Filter) ([]Row, error) {
	return nil, ErrNotConfigured
}

func (unconfigured) Delete(context.Context, string, Filter) ([]Row, error) {
	return nil, ErrNotConfigured
}
