package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned by single-row lookups that match nothing.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a write violates a unique constraint.
	ErrConflict = errors.New("unique constraint violation")

	// ErrForeignKey is returned when a write references a missing row.
	ErrForeignKey = errors.New("foreign key violation")

	// ErrNotArchivable is returned when an archived scope is requested on a
	// resource without an archived_at column.
	ErrNotArchivable = errors.New("resource is not archivable")

	// ErrNoFilters is returned by Delete when called without filters.
	ErrNoFilters = errors.New("delete requires at least one filter")

	// ErrInvalidIdentifier is returned when a column or order clause is not a
	// plain SQL identifier.
	ErrInvalidIdentifier = errors.New("invalid SQL identifier")
)

// translate maps driver errors onto the store sentinels, keeping the original
// error in the chain.
func translate(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w: %s", op, ErrConflict, pgErr.ConstraintName)
		case "23503":
			return fmt.Errorf("%s: %w: %s", op, ErrForeignKey, pgErr.ConstraintName)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
