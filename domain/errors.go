package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across presentation layers.
type ErrorCode string

const (
	ErrCodeNotFound    ErrorCode = "NOT_FOUND"
	ErrCodeInvalid     ErrorCode = "INVALID"
	ErrCodeConflict    ErrorCode = "CONFLICT"
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"
	ErrCodeInternal    ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain errors.
var (
	ErrTaskNotFound     = NewError(ErrCodeNotFound, "task not found")
	ErrDuplicateTaskID  = NewError(ErrCodeConflict, "task id already exists")
	ErrStoreUnavailable = NewError(ErrCodeUnavailable, "task store unavailable")
)

// Field validation errors. Each carries ErrCodeInvalid so callers can
// branch on the code or match the sentinel.
var (
	ErrEmptyTitle         = NewError(ErrCodeInvalid, "title must not be empty")
	ErrTitleTooLong       = NewError(ErrCodeInvalid, fmt.Sprintf("title must be at most %d characters", MaxTitleLen))
	ErrDescriptionTooLong = NewError(ErrCodeInvalid, fmt.Sprintf("description must be at most %d characters", MaxDescriptionLen))
	ErrInvalidDueDate     = NewError(ErrCodeInvalid, "due date is not a recognized date")
	ErrInvalidPriority    = NewError(ErrCodeInvalid, "priority must be low, medium, or high")
	ErrInvalidStatus      = NewError(ErrCodeInvalid, "status must be pending, in_progress, or completed")
	ErrInvalidTaskID      = NewError(ErrCodeInvalid, fmt.Sprintf("task id must be %d alphanumeric characters", IDLength))
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// IsValidation reports whether err is a field validation failure.
func IsValidation(err error) bool {
	return IsDomainError(err, ErrCodeInvalid)
}

// IsNotFound reports whether err signals a missing task.
func IsNotFound(err error) bool {
	return IsDomainError(err, ErrCodeNotFound)
}
