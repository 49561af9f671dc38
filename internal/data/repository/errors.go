package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned by writes that matched no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate record")
	// ErrOverlap is returned when the booking exclusion constraint rejects a write.
	ErrOverlap = errors.New("overlapping booking")
)

type rowScanner interface {
	Scan(dest ...any) error
}

// translatePgError maps constraint violations onto repository sentinels and
// leaves every other error untouched.
func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		return &ConstraintError{Sentinel: ErrDuplicate, Constraint: pgErr.ConstraintName, Err: err}
	case pgerrcode.ExclusionViolation:
		return &ConstraintError{Sentinel: ErrOverlap, Constraint: pgErr.ConstraintName, Err: err}
	}
	return err
}

// ConstraintError keeps the violated constraint name next to the sentinel.
type ConstraintError struct {
	Sentinel   error
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	return e.Sentinel.Error() + " (" + e.Constraint + ")"
}

func (e *ConstraintError) Is(target error) bool {
	return target == e.Sentinel
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// ConstraintName returns the violated constraint, or "" if err is not a ConstraintError.
func ConstraintName(err error) string {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Constraint
	}
	return ""
}
