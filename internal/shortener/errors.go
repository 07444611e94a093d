package shortener

import (
	"errors"
	"fmt"
)

// Sentinel errors for control flow. Storage implementations return
// ErrNotFound and ErrDuplicateKey; everything else is produced here.
var (
	// ErrNotFound reports a missing or unowned link.
	ErrNotFound = errors.New("short link not found")

	// ErrDuplicateKey reports a unique-constraint violation on the shared
	// code/alias namespace. The store is authoritative for this condition;
	// pre-checks in the registry are optimistic only.
	ErrDuplicateKey = errors.New("lookup key already exists")

	// ErrLinkDisabled reports a resolution attempt on a soft-disabled link.
	ErrLinkDisabled = errors.New("link has been disabled")

	// ErrCodeSpaceExhausted reports that the bounded code-generation retry
	// loop ran out of attempts. This is a capacity problem, not bad input,
	// and maps to a server error at the HTTP layer.
	ErrCodeSpaceExhausted = errors.New("unable to allocate a unique short code")
)

// ValidationError reports malformed input or an expired/limited link.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness conflict: a taken alias or a second
// link by the same user to the same destination.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

// NewConflictError builds a ConflictError with a formatted message.
func NewConflictError(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
