// Package apperr contains the error taxonomy shared by the store, service and
// handler layers. Handlers map these to HTTP status codes.
package apperr

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized indicates missing or invalid credentials or session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden indicates an attempt to act on another owner's resource.
	ErrForbidden = errors.New("forbidden")

	// ErrDuplicateEmail indicates the email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrEmptyCart indicates checkout was attempted with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidStatus indicates an unknown order status.
	ErrInvalidStatus = errors.New("invalid order status")
)

// FieldIssue describes a single invalid input field.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when input is missing or malformed.
type ValidationError struct {
	Issues []FieldIssue
}

// NewValidationError builds a ValidationError from issues.
func NewValidationError(issues ...FieldIssue) *ValidationError {
	return &ValidationError{Issues: issues}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		fields = append(fields, is.Field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// Add appends an issue.
func (e *ValidationError) Add(field, message string) {
	e.Issues = append(e.Issues, FieldIssue{Field: field, Message: message})
}

// Empty reports whether no issues were recorded.
func (e *ValidationError) Empty() bool {
	return len(e.Issues) == 0
}
