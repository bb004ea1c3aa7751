package calendar

import (
	"errors"
	"fmt"
)

// ErrNoAccounts is returned when a projection is requested without any account
var ErrNoAccounts = errors.New("at least one account is required to project balances")

// ValidationError rejects user input before any computation runs
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"error"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is, or wraps, a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
