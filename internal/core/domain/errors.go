package domain

import (
	"fmt"
	"net/http"
)

// Kind classifies a domain error for boundary translation.
type Kind int

const (
	KindValidation Kind = iota
	KindAuthentication
	KindNotFound
	KindConflict
	KindAccessDenied
	KindInternal
)

// Error is the domain error carried from services to the HTTP boundary.
// Code is machine-readable, Message is human-readable, Fields maps a field
// name to its validation message when the error is field-level.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to its HTTP status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	case KindAccessDenied:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// NewValidation creates a validation error (out-of-policy input).
func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message}
}

// NewValidationFields creates a validation error with per-field messages.
func NewValidationFields(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Code: "VALIDATION_ERROR", Message: message, Fields: fields}
}

// NewAuthentication creates an authentication error. The message must not
// reveal which credential was wrong.
func NewAuthentication(message string) *Error {
	return &Error{Kind: KindAuthentication, Code: "AUTHENTICATION_ERROR", Message: message}
}

// NewNotFound creates a not-found error for a named resource.
func NewNotFound(resource, key string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Code:    "RESOURCE_NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, key),
	}
}

// NewConflict creates a business-conflict error with a specific code.
func NewConflict(code, message string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: message}
}

// NewAccessDenied creates an authorization error.
func NewAccessDenied(message string) *Error {
	return &Error{Kind: KindAccessDenied, Code: "ACCESS_DENIED", Message: message}
}

// NewInternal wraps an unexpected error. Store-layer failures surface here.
func NewInternal(err error) *Error {
	return &Error{
		Kind:    KindInternal,
		Code:    "INTERNAL_SERVER_ERROR",
		Message: "An unexpected error occurred. Please try again later",
		Err:     err,
	}
}
