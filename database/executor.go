package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// buildBunQuery translates the accumulated clauses into a bun SELECT query
func (q *QueryBuilder[T]) buildBunQuery(model any) *bun.SelectQuery {
	query := q.db.NewSelect().Model(model)

	if q.tableName != "" {
		query = query.ModelTableExpr("?", bun.Ident(q.tableName))
	}

	if len(q.selectCols) > 0 {
		query = query.Column(q.selectCols...)
	}

	query = applyWhereClauses(query, q.wheres)

	for _, order := range q.orders {
		query = query.OrderExpr("? ?", bun.Ident(order.Column), bun.Safe(order.Direction))
	}

	if q.limitVal != nil {
		query = query.Limit(*q.limitVal)
	}
	if q.offsetVal != nil {
		query = query.Offset(*q.offsetVal)
	}

	return query
}

// applyWhereClauses appends WHERE conditions to a SELECT query
func applyWhereClauses(query *bun.SelectQuery, wheres []*WhereClause) *bun.SelectQuery {
	for _, where := range wheres {
		switch {
		case where.IsRaw:
			query = query.Where(where.RawSQL, where.RawArgs...)
		case where.Operator == "IN":
			query = query.Where("? IN (?)", bun.Ident(where.Column), bun.In(where.Value))
		case where.Negate:
			query = query.Where(fmt.Sprintf("NOT (? %s ?)", where.Operator), bun.Ident(where.Column), where.Value)
		default:
			query = query.Where(fmt.Sprintf("? %s ?", where.Operator), bun.Ident(where.Column), where.Value)
		}
	}
	return query
}

// All executes the query and returns every matching row
func (q *QueryBuilder[T]) All(ctx context.Context) ([]T, error) {
	queryCtx, cancel := q.applyTimeout(ctx)
	defer cancel()

	var results []T
	err := WithRetry(queryCtx, func() error {
		results = nil
		return q.buildBunQuery(&results).Scan(queryCtx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	return results, nil
}

// First executes the query and returns the first matching row.
// Returns (nil, nil) when no row matches.
func (q *QueryBuilder[T]) First(ctx context.Context) (*T, error) {
	queryCtx, cancel := q.applyTimeout(ctx)
	defer cancel()

	var result T
	err := WithRetry(queryCtx, func() error {
		return q.buildBunQuery(&result).Limit(1).Scan(queryCtx)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	return &result, nil
}

// Count returns the number of rows matching the query
func (q *QueryBuilder[T]) Count(ctx context.Context) (int, error) {
	queryCtx, cancel := q.applyTimeout(ctx)
	defer cancel()

	var count int
	err := WithRetry(queryCtx, func() error {
		var model T
		var countErr error
		count, countErr = q.buildBunQuery(&model).Count(queryCtx)
		return countErr
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}

	return count, nil
}

// Exists reports whether any row matches the query
func (q *QueryBuilder[T]) Exists(ctx context.Context) (bool, error) {
	count, err := q.Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Insert inserts a single row and scans the stored row back into data
func (q *QueryBuilder[T]) Insert(ctx context.Context, data *T) error {
	queryCtx, cancel := q.applyTimeout(ctx)
	defer cancel()

	return WithRetry(queryCtx, func() error {
		_, err := q.db.NewInsert().Model(data).Returning("*").Exec(queryCtx)
		if err != nil {
			return fmt.Errorf("failed to insert row: %w", err)
		}
		return nil
	})
}

// InsertMany inserts multiple rows in a single statement
func (q *QueryBuilder[T]) InsertMany(ctx context.Context, data []T) error {
	if len(data) == 0 {
		return nil
	}

	queryCtx, cancel := q.applyTimeout(ctx)
	defer cancel()

	return WithRetry(queryCtx, func() error {
		_, err := q.db.NewInsert().Model(&data).Returning("*").Exec(queryCtx)
		if err != nil {
			return fmt.Errorf("failed to insert rows: %w", err)
		}
		return nil
	})
}

// Update applies the given column/value pairs to all rows matching the
// accumulated WHERE clauses and returns the number of rows affected.
func (q *QueryBuilder[T]) Update(ctx context.Context, values map[string]any) (int64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("no values to update")
	}

	queryCtx, cancel := q.applyTimeout(ctx)
	defer cancel()

	var affected int64
	err := WithRetry(queryCtx, func() error {
		var model T
		query := q.db.NewUpdate().Model(&model)

		for column, value := range values {
			query = query.Set("? = ?", bun.Ident(column), value)
		}
		query = applyUpdateWheres(query, q.wheres)

		res, err := query.Exec(queryCtx)
		if err != nil {
			return fmt.Errorf("failed to update rows: %w", err)
		}
		affected, err = res.RowsAffected()
		return err
	})

	return affected, err
}

// UpdateReturning applies the given column/value pairs and scans the first
// updated row back. Returns (nil, nil) when no row matched.
func (q *QueryBuilder[T]) UpdateReturning(ctx context.Context, values map[string]any) (*T, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("no values to update")
	}

	queryCtx, cancel := q.applyTimeout(ctx)
	defer cancel()

	var result T
	err := WithRetry(queryCtx, func() error {
		query := q.db.NewUpdate().Model(&result)

		for column, value := range values {
			query = query.Set("? = ?", bun.Ident(column), value)
		}
		query = applyUpdateWheres(query, q.wheres)

		_, err := query.Returning("*").Exec(queryCtx, &result)
		return err
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to update row: %w", err)
	}

	return &result, nil
}

// Delete removes all rows matching the accumulated WHERE clauses and
// returns the number of rows affected.
func (q *QueryBuilder[T]) Delete(ctx context.Context) (int64, error) {
	if len(q.wheres) == 0 {
		return 0, fmt.Errorf("refusing to delete without a WHERE clause")
	}

	queryCtx, cancel := q.applyTimeout(ctx)
	defer cancel()

	var affected int64
	err := WithRetry(queryCtx, func() error {
		var model T
		query := q.db.NewDelete().Model(&model)
		query = applyDeleteWheres(query, q.wheres)

		res, err := query.Exec(queryCtx)
		if err != nil {
			return fmt.Errorf("failed to delete rows: %w", err)
		}
		affected, err = res.RowsAffected()
		return err
	})

	return affected, err
}

// applyUpdateWheres appends WHERE conditions to an UPDATE query
func applyUpdateWheres(query *bun.UpdateQuery, wheres []*WhereClause) *bun.UpdateQuery {
	for _, where := range wheres {
		switch {
		case where.IsRaw:
			query = query.Where(where.RawSQL, where.RawArgs...)
		case where.Operator == "IN":
			query = query.Where("? IN (?)", bun.Ident(where.Column), bun.In(where.Value))
		default:
			query = query.Where(fmt.Sprintf("? %s ?", where.Operator), bun.Ident(where.Column), where.Value)
		}
	}
	return query
}

// applyDeleteWheres appends WHERE conditions to a DELETE query
func applyDeleteWheres(query *bun.DeleteQuery, wheres []*WhereClause) *bun.DeleteQuery {
	for _, where := range wheres {
		switch {
		case where.IsRaw:
			query = query.Where(where.RawSQL, where.RawArgs...)
		case where.Operator == "IN":
			query = query.Where("? IN (?)", bun.Ident(where.Column), bun.In(where.Value))
		default:
			query = query.Where(fmt.Sprintf("? %s ?", where.Operator), bun.Ident(where.Column), where.Value)
		}
	}
	return query
}
