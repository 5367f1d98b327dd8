package user

import (
	"errors"
	"fmt"
)

var (
	ErrMissingID     = errors.New("missing id")
	ErrInvalidField  = errors.New("invalid field")
	ErrRemovedRecord = errors.New("removed record")
	ErrUserNotFound  = errors.New("user not found")
)

// RecordError ties a record problem to its position in the input.
type RecordError struct {
	Index int
	ID    string
	Err   error
}

func (e *RecordError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("record %d: %v", e.Index, e.Err)
	}
	return fmt.Sprintf("record %d (id %q): %v", e.Index, e.ID, e.Err)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
