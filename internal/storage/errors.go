package storage

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("note not found")
	// ErrConstraint is returned when a write violates a table constraint,
	// such as creating a note whose id already exists.
	ErrConstraint = errors.New("constraint violation")
)

// Error is the failure of one store operation. Kind is ErrNotFound,
// ErrConstraint or nil for plain I/O and driver failures.
type Error struct {
	Op   string
	ID   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	msg := e.Op
	if e.ID != "" {
		msg += " " + e.ID
	}
	switch {
	case e.Kind != nil && e.Err != nil:
		return fmt.Sprintf("%s: %v: %v", msg, e.Kind, e.Err)
	case e.Kind != nil:
		return fmt.Sprintf("%s: %v", msg, e.Kind)
	default:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
}

func (e *Error) Unwrap() []error {
	var errs []error
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// wrapErr classifies a driver error and attaches the operation that failed.
func wrapErr(op, id string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *Error
	if errors.As(err, &storeErr) {
		return err
	}

	e := &Error{Op: op, ID: id, Err: err}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		e.Kind = ErrConstraint
	}
	return e
}

func notFound(op, id string) error {
	return &Error{Op: op, ID: id, Kind: ErrNotFound}
}
