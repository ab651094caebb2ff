package service

import (
	"errors"
	"strings"
)

var (
	ErrInvalidSession      = errors.New("invalid session")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrEmailTaken          = errors.New("email already registered")
	ErrSubdomainTaken      = errors.New("subdomain already taken")
	ErrForbidden           = errors.New("forbidden")
	ErrConfirmationExpired = errors.New("confirmation expired")
)

// ValidationError carries every input problem found, in reporting order.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Errors, "; ")
}

func newValidationError(problems ...string) error {
	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Errors: problems}
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
