package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// Error kinds surfaced by the persistence layer
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateName  = errors.New("duplicate name")
	ErrParentNotFound = errors.New("parent not found")
	ErrInvalidDates   = errors.New("end date before start date")
	ErrStorage        = errors.New("storage failure")
)

// Error records the operation and table behind a failure
type Error struct {
	Op    string // operation that failed, e.g. "add task"
	Table string
	Err   error
}

func (e *Error) Error() string {
	parts := []string{"db: " + e.Op}
	if e.Table != "" {
		parts = append(parts, "table="+e.Table)
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrap classifies err into one of the error kinds above and attaches
// the operation context. A nil err stays nil.
func wrap(op, table string, err error) error {
	if err == nil {
		return nil
	}

	var dbErr *Error
	if errors.As(err, &dbErr) {
		return err
	}

	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicateName), errors.Is(err, ErrParentNotFound),
		errors.Is(err, ErrInvalidDates):
		return &Error{Op: op, Table: table, Err: err}
	case errors.Is(err, sql.ErrNoRows):
		return &Error{Op: op, Table: table, Err: ErrNotFound}
	}

	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return &Error{Op: op, Table: table, Err: fmt.Errorf("%w: %v", ErrDuplicateName, err)}
		case sqlite3.ErrConstraintForeignKey:
			return &Error{Op: op, Table: table, Err: fmt.Errorf("%w: %v", ErrParentNotFound, err)}
		}
	}

	return &Error{Op: op, Table: table, Err: fmt.Errorf("%w: %w", ErrStorage, err)}
}
