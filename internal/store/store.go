package store

import (
	"context"
	"errors"
)

// Op is a filter operator understood by the record store.
type Op string

const (
	OpEq       Op = "eq"
	OpContains Op = "contains"
	OpGte      Op = "gte"
	OpLte      Op = "lte"
)

type Clause struct {
	Field string
	Op    Op
	Value interface{}
}

// Query is a compiled request against one table: filter clauses, a single
// order column and an inclusive zero-based row range. To < 0 means no range.
type Query struct {
	Table          string
	Clauses        []Clause
	OrderField     string
	OrderAscending bool
	From           int
	To             int
}

// RecordStore is the query-builder protocol the service layer talks to.
// Select fills dest with the requested page and returns the count over the
// whole filtered set, independent of the range.
type RecordStore interface {
	Select(ctx context.Context, q Query, dest interface{}) (count int64, err error)
	Get(ctx context.Context, table, id string, dest interface{}) error
	Insert(ctx context.Context, table string, record interface{}) error
	Update(ctx context.Context, table, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, table, id string) error
}

var ErrNotFound = errors.New("record not found")
