package core

import "github.com/pkg/errors"

// ErrStoreFailure matches any *StoreError with errors.Is.
var ErrStoreFailure = errors.New("store failure")

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

// StoreError reports that the storage was unreachable or rejected an operation.
type StoreError struct {
	Op  string
	Err error
}

func NewStoreError(op string, err error) error {
	return &StoreError{Op: op, Err: errors.WithStack(err)}
}

func (err *StoreError) Error() string {
	return err.Op + ": " + err.Err.Error()
}

func (err *StoreError) Unwrap() error { return err.Err }

func (err *StoreError) Is(target error) bool { return target == ErrStoreFailure }
