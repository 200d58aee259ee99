package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrPasswordMismatch      = errors.New("passwords do not match")
	ErrOrphanToken           = errors.New("token is not linked to a customer")
	ErrInvalidCredentials    = errors.New("incorrect email or password")
	ErrInactiveAccount       = errors.New("user is inactive")
	ErrUnauthenticated       = errors.New("could not validate credentials")
	ErrForbidden             = errors.New("not enough permissions")
	ErrNotFound              = errors.New("not found")
	ErrValidation            = errors.New("validation failed")

	ErrWeakPassword             = errors.New("weak password")
	ErrPasswordTooShort         = fmt.Errorf("%w: must be at least %d characters", ErrWeakPassword, MinPasswordLength)
	ErrPasswordMissingUppercase = fmt.Errorf("%w: must contain at least one uppercase letter", ErrWeakPassword)
	ErrPasswordMissingLowercase = fmt.Errorf("%w: must contain at least one lowercase letter", ErrWeakPassword)
	ErrPasswordMissingDigit     = fmt.Errorf("%w: must contain at least one digit", ErrWeakPassword)
)

// ValidationError keeps the field level messages produced by request
// validation while still matching ErrValidation.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrValidation, e.Err}
}

func NewValidationError(err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Err: err}
}
