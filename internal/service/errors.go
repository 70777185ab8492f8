package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrTooManyAttempts    = errors.New("too many sign-in attempts")
)

// ValidationError carries the client-facing rejection message for a
// malformed input; the first failing rule wins.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationErr(message string) error {
	return &ValidationError{Message: message}
}
