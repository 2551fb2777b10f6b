// ABOUTME: Error types returned by the Serverlist API client
// ABOUTME: Decodes RFC 7807 problem responses into typed errors with field details

package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeValidation indicates the server rejected the input
	ErrorTypeValidation ErrorType = "validation"

	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "not_found"

	// ErrorTypeConflict indicates the write collides with existing state
	ErrorTypeConflict ErrorType = "conflict"

	// ErrorTypeNetwork indicates the request never got a response
	ErrorTypeNetwork ErrorType = "network"

	// ErrorTypeServer indicates an unexpected server response
	ErrorTypeServer ErrorType = "server"

	// ErrorTypeConfiguration indicates a client misconfiguration
	ErrorTypeConfiguration ErrorType = "configuration"
)

// FieldError is one rejected field
type FieldError struct {
	Field   string
	Message string
}

// Error represents a structured error from the client
type Error struct {
	Type    ErrorType
	Status  int
	Message string
	Details []FieldError
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if len(e.Details) > 0 {
		parts := make([]string, 0, len(e.Details))
		for _, d := range e.Details {
			parts = append(parts, d.Field+": "+d.Message)
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.Cause
}

// Field returns the message for one field, or ""
func (e *Error) Field(name string) string {
	for _, d := range e.Details {
		if d.Field == name {
			return d.Message
		}
	}
	return ""
}

// NewError creates a new error with the given type and message
func NewError(errType ErrorType, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// ErrCancelled is returned by Submitter.Submit when the user declines
var ErrCancelled = errors.New("submission cancelled")

type problem struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
	Errors []struct {
		Message  string `json:"message"`
		Location string `json:"location"`
	} `json:"errors"`
}

// decodeError turns a non-2xx response body into an *Error
func decodeError(status int, body []byte) *Error {
	e := &Error{Type: typeForStatus(status), Status: status, Message: http.StatusText(status)}

	var p problem
	if err := json.Unmarshal(body, &p); err != nil {
		return e
	}

	switch {
	case p.Detail != "":
		e.Message = p.Detail
	case p.Title != "":
		e.Message = p.Title
	}
	for _, d := range p.Errors {
		field := d.Location
		if i := strings.LastIndex(field, "."); i >= 0 {
			field = field[i+1:]
		}
		e.Details = append(e.Details, FieldError{Field: field, Message: d.Message})
	}
	return e
}

func typeForStatus(status int) ErrorType {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrorTypeValidation
	case http.StatusNotFound:
		return ErrorTypeNotFound
	case http.StatusConflict:
		return ErrorTypeConflict
	default:
		return ErrorTypeServer
	}
}

func typeOf(err error) ErrorType {
	var e *Error
	if errors.As(err, &e) {
		return e.Type
	}
	return ""
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return typeOf(err) == ErrorTypeValidation
}

// IsNotFoundError checks if an error is a not found error
func IsNotFoundError(err error) bool {
	return typeOf(err) == ErrorTypeNotFound
}

// IsConflictError checks if an error is a conflict error
func IsConflictError(err error) bool {
	return typeOf(err) == ErrorTypeConflict
}

// IsNetworkError checks if an error is a network error
func IsNetworkError(err error) bool {
	return typeOf(err) == ErrorTypeNetwork
}
