// ABOUTME: Custom error types for the core business logic
// ABOUTME: Provides structured errors for better error handling and API responses

package errors

import (
	"errors"
	"fmt"
	"strings"
)

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ValidationError represents a validation error on a single field
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// ValidationErrors collects field-scoped validation errors, one per field,
// in the order the fields were checked.
type ValidationErrors []*ValidationError

// Error implements the error interface
func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message recorded for a field, or "" if the field is valid
func (v ValidationErrors) Field(name string) string {
	for _, e := range v {
		if e.Field == name {
			return e.Message
		}
	}
	return ""
}

// Fields returns the messages keyed by field name
func (v ValidationErrors) Fields() map[string]string {
	out := make(map[string]string, len(v))
	for _, e := range v {
		out[e.Field] = e.Message
	}
	return out
}

// ConflictError represents a write that collides with existing state
type ConflictError struct {
	Resource string
	Message  string
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s conflict: %s", e.Resource, e.Message)
}

// ExternalAPIError represents an error from an external API
type ExternalAPIError struct {
	StatusCode int
	Message    string
	API        string
}

// Error implements the error interface
func (e *ExternalAPIError) Error() string {
	return fmt.Sprintf("external API error from %s: %d - %s", e.API, e.StatusCode, e.Message)
}

// IsNotFound checks if an error is a NotFoundError
func IsNotFound(err error) bool {
	var notFoundErr *NotFoundError
	return errors.As(err, &notFoundErr)
}

// IsValidation checks if an error is a ValidationError or ValidationErrors
func IsValidation(err error) bool {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return true
	}
	var validationErrs ValidationErrors
	return errors.As(err, &validationErrs)
}

// AsValidationErrors flattens err into field-scoped errors. ok is false when
// err carries no validation error at all.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var validationErrs ValidationErrors
	if errors.As(err, &validationErrs) {
		return validationErrs, true
	}
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return ValidationErrors{validationErr}, true
	}
	return nil, false
}

// IsConflict checks if an error is a ConflictError
func IsConflict(err error) bool {
	var conflictErr *ConflictError
	return errors.As(err, &conflictErr)
}

// IsExternalAPI checks if an error is an ExternalAPIError
func IsExternalAPI(err error) bool {
	var apiErr *ExternalAPIError
	return errors.As(err, &apiErr)
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
