package lib

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Database errors
var (
	ErrConflict = errors.New("conflict")
	ErrNotFound = errors.New("not found")
)

// Auth errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("expired token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// MapPgError translates driver-level constraint violations into the
// package-level sentinel errors handlers know how to map to status codes.
func MapPgError(err error) error {
	switch sqlState(err) {
	case "23505": // unique_violation
		return ErrConflict
	case "23503": // foreign_key_violation
		return ErrConflict
	case "P0002": // no_data_found
		return ErrNotFound
	}
	return err
}

// IsNotFound reports whether err maps to a missing row
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConflict reports whether err maps to a constraint violation
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}

func sqlState(err error) string {
	var driverErr pgdriver.Error
	if errors.As(err, &driverErr) {
		return driverErr.Field('C')
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
