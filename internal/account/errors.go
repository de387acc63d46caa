package account

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by stores, services and the HTTP layer. Callers
// wrap them with oops for context; match with errors.Is.
var (
	ErrNotFound           = errors.New("account not found")
	ErrInvalidIDFormat    = errors.New("invalid ID format")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrAccountDisabled    = errors.New("account is not active")
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
)

// ValidationError reports missing or malformed input. Details holds one
// message per offending field.
type ValidationError struct {
	Message string
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return e.Message
	}
	return e.Message + ": " + strings.Join(e.Details, "; ")
}

// NewValidationError builds a ValidationError with optional details.
func NewValidationError(msg string, details ...string) *ValidationError {
	return &ValidationError{Message: msg, Details: details}
}

// DuplicateKeyError is a unique constraint violation on Field.
type DuplicateKeyError struct {
	Kind  Kind
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}
