package core

import "github.com/pkg/errors"

var (
	// ErrPermissionDenied is returned by every operation attempted by a role
	// lacking authorization for it.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidInput wraps per-field validation failures.
	ErrInvalidInput = errors.New("invalid input")
)

// FieldError is used to indicate an error with a specific struct field.
type FieldError struct {
	Field string
	Error string
}

type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}
