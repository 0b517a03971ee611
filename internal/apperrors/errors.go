package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrParse indicates that a batch payload is structurally unreadable.
var ErrParse = errors.New("malformed payload")

// ErrPartialBatch indicates that some, but not all, entries of a batch failed.
var ErrPartialBatch = errors.New("partial batch failure")

// AppError wraps an infrastructure failure with an HTTP-ish status code.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// ValidationError describes why a single batch entry was rejected.
// EntryIndex is zero-based; messages use the one-based entry number.
type ValidationError struct {
	EntryIndex int
	Field      string
	Reason     string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("entry %d: %s", e.EntryIndex+1, e.Reason)
	}
	return fmt.Sprintf("entry %d: %s %s", e.EntryIndex+1, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// ParseError is returned when the batch envelope itself cannot be read.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return "malformed payload: " + e.Reason
	}
	return fmt.Sprintf("malformed payload: %s: %v", e.Reason, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// PartialBatchFailure reports a batch where at least one entry succeeded and at least one failed.
type PartialBatchFailure struct {
	Processed int
	Failed    int
}

func (e *PartialBatchFailure) Error() string {
	return fmt.Sprintf("%d of %d entries failed", e.Failed, e.Processed+e.Failed)
}

func (e *PartialBatchFailure) Is(target error) bool { return target == ErrPartialBatch }
