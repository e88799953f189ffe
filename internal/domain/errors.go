package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies catalog failures. Codes are plain strings so they
// travel unchanged through JSON responses and notifications.
type ErrorCode string

const (
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeNoPendingEdit ErrorCode = "NO_PENDING_EDIT"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeRemote        ErrorCode = "REMOTE_ERROR"
	CodeStorageQuota  ErrorCode = "STORAGE_QUOTA_EXCEEDED"
	CodeStorage       ErrorCode = "STORAGE_ERROR"
	CodeDecode        ErrorCode = "DECODE_ERROR"
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
)

// Error is the error type returned by every catalog component
type Error struct {
	Code    ErrorCode
	Message string
	Status  int // upstream HTTP status for REMOTE_ERROR, 0 otherwise
	Err     error
}

func NewError(code ErrorCode, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first *Error in err's chain, or
// CodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// MessageOf returns the user-facing message of err.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsValidation covers both draft validation failures and a missing edit target.
func IsValidation(err error) bool {
	c := CodeOf(err)
	return err != nil && (c == CodeValidation || c == CodeNoPendingEdit)
}
