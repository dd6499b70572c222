package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Validation error codes.
const (
	CodePastDate         = "PAST_DATE"
	CodeInvalidRange     = "INVALID_RANGE"
	CodeCapacityExceeded = "CAPACITY_EXCEEDED"
)

// Conflict error codes.
const (
	CodeDateConflict      = "DATE_CONFLICT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeDuplicateGrant    = "DUPLICATE_GRANT"
)

// ValidationError marks input the client can fix and retry.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func Validation(code, msg string) error { return &ValidationError{Code: code, Message: msg} }

// ConflictError marks a clash with current state; the client must choose
// different input (e.g. other dates) rather than retry the same request.
type ConflictError struct {
	Code    string
	Message string
}

func (e *ConflictError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func Conflict(code, msg string) error { return &ConflictError{Code: code, Message: msg} }
