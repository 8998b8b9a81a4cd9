package database

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a referenced entity id does not exist.
// Callers should test with errors.Is.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a business-rule violation on a write request
// (empty title, out-of-range rating, unknown reading status).
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// StorageError wraps an underlying engine failure so callers never depend on
// gorm's error values directly.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error in %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Translate maps a gorm error to the catalog error taxonomy. A nil error
// passes through untouched.
func Translate(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	default:
		return &StorageError{Op: op, Err: err}
	}
}
