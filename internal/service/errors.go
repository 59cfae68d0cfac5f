package service

import "errors"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrAccountNotFound = errors.New("account not found")
	ErrWrongPassword   = errors.New("wrong password")
	ErrEmailTaken      = errors.New("email already registered")
	ErrInvalidToken    = errors.New("invalid or expired token")
)

// ValidationError is a rejected input with a message fit for the user.
// It matches ErrInvalidInput and, when set, Err.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidInput}
	}
	return []error{ErrInvalidInput, e.Err}
}

func invalid(msg string) error { return &ValidationError{Message: msg} }
