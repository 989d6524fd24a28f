package storage

import (
	"errors"
	"fmt"
)

// ErrInvalidValue is returned when a rating is outside 1..10
var ErrInvalidValue = errors.New("rating value must be between 1 and 10")

// Error is returned by every Gateway operation that fails.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// IsStorageError reports whether err came from the persistence layer
func IsStorageError(err error) bool {
	var se *Error
	return errors.As(err, &se)
}
