package service

import "errors"

var (
	// ErrNotFound covers missing records and, for public lookups,
	// unpublished surveys; the two are deliberately indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller does not own the resource
	// or lacks the required role.
	ErrForbidden = errors.New("forbidden")

	// ErrNotEditable is returned when editing a survey that left draft
	ErrNotEditable = errors.New("survey is not editable")

	// ErrInvalidTransition is returned for a lifecycle step that is not
	// the next forward one (the lifecycle never moves backwards).
	ErrInvalidTransition = errors.New("invalid status transition")

	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// ValidationError is a user-correctable input error, shown inline and
// never retried.
type ValidationError struct {
	msg string
}

// NewValidationError creates a validation error with the given message
func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

func (e *ValidationError) Error() string {
	return e.msg
}

// IsValidation reports whether err is a validation error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
