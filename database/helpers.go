package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
)

// RunInTx executes fn inside a database transaction. The transaction is
// rolled back when fn returns an error or panics, committed otherwise.
func (db *DB) RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.Tx) error) error {
	return db.DB.RunInTx(ctx, &sql.TxOptions{}, fn)
}

// Pagination describes a page window and the totals that go with it
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// PaginatedResult wraps a page of rows with its pagination metadata
type PaginatedResult[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Paginate executes the query twice: once to count all matching rows and
// once to fetch the requested page. The count runs before LIMIT/OFFSET are
// applied, so callers must not set those on the builder themselves.
func Paginate[T any](q *QueryBuilder[T], ctx context.Context, page, pageSize int) (*PaginatedResult[T], error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 25
	}
	if pageSize > 100 {
		pageSize = 100
	}

	total, err := q.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count rows: %w", err)
	}

	data, err := q.Limit(pageSize).Offset((page - 1) * pageSize).All(ctx)
	if err != nil {
		return nil, err
	}

	totalPages := (total + pageSize - 1) / pageSize

	return &PaginatedResult[T]{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
		},
	}, nil
}

// CreateRecord inserts data and returns the stored row with its
// database-generated columns populated.
func CreateRecord[T any](ctx context.Context, db *DB, data *T) (*T, error) {
	if err := Query[T](db).Insert(ctx, data); err != nil {
		return nil, err
	}
	return data, nil
}

// FindByID fetches a single row by its id column.
// Returns (nil, nil) when the id does not exist.
func FindByID[T any](ctx context.Context, db *DB, id any) (*T, error) {
	return Query[T](db).Where("id", id).First(ctx)
}

// UpdateByID applies the given values to the row with the matching id and
// returns the updated row, or (nil, nil) when the id does not exist.
func UpdateByID[T any](ctx context.Context, db *DB, id any, values map[string]any) (*T, error) {
	return Query[T](db).Where("id", id).UpdateReturning(ctx, values)
}

// DeleteByID removes the row with the matching id.
// Reports whether a row was actually deleted.
func DeleteByID[T any](ctx context.Context, db *DB, id any) (bool, error) {
	affected, err := Query[T](db).Where("id", id).Delete(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete by id: %w", err)
	}
	return affected > 0, nil
}
