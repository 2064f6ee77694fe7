// Package shared contains domain types used by every entity package:
// error kinds, the DomainError wrapper, and struct validation.
package shared

import (
	"errors"
	"fmt"
	"strings"
)

// Base error kinds, checked with errors.Is().
var (
	ErrValidation    = errors.New("validation error")
	ErrInvalidInput  = errors.New("invalid input")
	ErrStorageWrite  = errors.New("storage write failed")
	ErrInvalidStatus = errors.New("invalid status")
)

// FieldError describes a problem with one field of an entity.
type FieldError struct {
	Field string
	Rule  string
}

// String renders the field error as "field: rule".
func (f FieldError) String() string {
	return f.Field + ": " + f.Rule
}

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "student", "payment"
	Op      string // operation that failed, e.g., "Add", "Update"
	Kind    error  // base error kind for errors.Is()
	Message string
	Err     error // underlying error (optional)
	Fields  []FieldError
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	msg := fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
	if len(e.Fields) > 0 {
		parts := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			parts[i] = f.String()
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching against both the kind and the cause.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// StorageWriteError reports that a collection could not be persisted.
func StorageWriteError(domain, op, key string) *DomainError {
	return NewDomainError(domain, op, ErrStorageWrite, "could not persist "+key)
}

// IsValidation checks if the error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsStorageWrite checks if the error is a persistence failure.
func IsStorageWrite(err error) bool {
	return errors.Is(err, ErrStorageWrite)
}
