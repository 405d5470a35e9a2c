package database

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// QueryBuilder provides a fluent, type-safe API for building database queries
type QueryBuilder[T any] struct {
	db        *DB
	tableName string

	// Query clauses
	selectCols []string
	wheres     []*WhereClause
	orders     []*OrderClause
	limitVal   *int
	offsetVal  *int

	// Timeout
	timeout time.Duration
}

// WhereClause represents a WHERE condition
type WhereClause struct {
	Column   string
	Operator string
	Value    any
	IsRaw    bool
	RawSQL   string
	RawArgs  []any
	Negate   bool // For NOT conditions
}

// OrderClause represents an ORDER BY clause
type OrderClause struct {
	Column    string
	Direction string // "ASC" or "DESC"
}

// OrderDirection represents sort direction
type OrderDirection string

const (
	ASC  OrderDirection = "ASC"
	DESC OrderDirection = "DESC"
)

// Query creates a new QueryBuilder instance
func Query[T any](db *DB) *QueryBuilder[T] {
	return &QueryBuilder[T]{
		db:         db,
		selectCols: []string{},
		wheres:     []*WhereClause{},
		orders:     []*OrderClause{},
	}
}

// Table sets the table name explicitly
func (q *QueryBuilder[T]) Table(name string) *QueryBuilder[T] {
	q.tableName = name
	return q
}

// Select specifies the columns to select
func (q *QueryBuilder[T]) Select(columns ...string) *QueryBuilder[T] {
	q.selectCols = append(q.selectCols, columns...)
	return q
}

// Where adds a simple WHERE condition (column = value)
func (q *QueryBuilder[T]) Where(column string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "=",
		Value:    value,
	})
	return q
}

// WhereOp adds a WHERE condition with a custom operator
func (q *QueryBuilder[T]) WhereOp(column, operator string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: operator,
		Value:    value,
	})
	return q
}

// WhereNot adds a WHERE NOT condition
func (q *QueryBuilder[T]) WhereNot(column string, value any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "=",
		Value:    value,
		Negate:   true,
	})
	return q
}

// WhereIn adds a WHERE IN condition
func (q *QueryBuilder[T]) WhereIn(column string, values []any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "IN",
		Value:    values,
	})
	return q
}

// WhereLike adds a case-insensitive WHERE ILIKE condition
func (q *QueryBuilder[T]) WhereLike(column, pattern string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		Column:   column,
		Operator: "ILIKE",
		Value:    pattern,
	})
	return q
}

// WhereNull adds a WHERE column IS NULL condition
func (q *QueryBuilder[T]) WhereNull(column string) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		IsRaw:   true,
		RawSQL:  "? IS NULL",
		RawArgs: []any{bun.Ident(column)},
	})
	return q
}

// WhereRaw adds a raw WHERE condition
func (q *QueryBuilder[T]) WhereRaw(sql string, args ...any) *QueryBuilder[T] {
	q.wheres = append(q.wheres, &WhereClause{
		IsRaw:   true,
		RawSQL:  sql,
		RawArgs: args,
	})
	return q
}

// OrderBy adds an ORDER BY clause
func (q *QueryBuilder[T]) OrderBy(column string, direction OrderDirection) *QueryBuilder[T] {
	q.orders = append(q.orders, &OrderClause{
		Column:    column,
		Direction: string(direction),
	})
	return q
}

// Limit sets the LIMIT clause
func (q *QueryBuilder[T]) Limit(limit int) *QueryBuilder[T] {
	q.limitVal = &limit
	return q
}

// Offset sets the OFFSET clause
func (q *QueryBuilder[T]) Offset(offset int) *QueryBuilder[T] {
	q.offsetVal = &offset
	return q
}

// Timeout sets a timeout for the query
func (q *QueryBuilder[T]) Timeout(duration time.Duration) *QueryBuilder[T] {
	q.timeout = duration
	return q
}

// applyTimeout derives a query context honoring the configured timeout
func (q *QueryBuilder[T]) applyTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return ctx, func() {}
}
