package errors

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a resource is not found
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrUnauthorized is returned when authentication fails or a role check rejects the caller
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrConflict is returned when there's a conflict (e.g., email already registered, idempotency)
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "conflict"
}

// ErrValidation is returned when validation fails
type ErrValidation struct {
	Message string
	Fields  map[string]string
}

func (e *ErrValidation) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "validation failed"
}

// ErrInvalidStateTransition is returned when an invalid state transition is attempted
type ErrInvalidStateTransition struct {
	From string
	To   string
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// IsNotFound reports whether err wraps an *ErrNotFound
func IsNotFound(err error) bool {
	var target *ErrNotFound
	return errors.As(err, &target)
}

// IsUnauthorized reports whether err wraps an *ErrUnauthorized
func IsUnauthorized(err error) bool {
	var target *ErrUnauthorized
	return errors.As(err, &target)
}

// IsConflict reports whether err wraps an *ErrConflict
func IsConflict(err error) bool {
	var target *ErrConflict
	return errors.As(err, &target)
}

// AsValidation returns the wrapped *ErrValidation, if any
func AsValidation(err error) (*ErrValidation, bool) {
	var target *ErrValidation
	ok := errors.As(err, &target)
	return target, ok
}

// IsInvalidStateTransition reports whether err wraps an *ErrInvalidStateTransition
func IsInvalidStateTransition(err error) bool {
	var target *ErrInvalidStateTransition
	return errors.As(err, &target)
}
