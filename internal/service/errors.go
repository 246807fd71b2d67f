package service

import "fmt"

// ValidationError is a field-scoped rejection raised before any store call.
// It is recoverable: the caller fixes the field and resubmits.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
