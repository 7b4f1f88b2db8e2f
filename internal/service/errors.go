package service

import (
	"errors"
	"fmt"

	"github.com/geocoder89/sharedfeed/internal/domain/user"
)

var (
	ErrMissingField       = errors.New("missing required field")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicatePassword  = user.ErrDuplicatePassword
	ErrUserNotFound       = user.ErrNotFound
	ErrInvalidDateFormat  = errors.New("invalid date format")
	ErrInvalidPostType    = errors.New("invalid post type")
	ErrStoreUnavailable   = errors.New("store unavailable")
)

// StoreError wraps a collaborator failure. Its message is the underlying
// error text so it can be reported verbatim.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return e.Err.Error()
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}

func storeErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, field)
}
