package apperrors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies application errors so the HTTP layer can map each kind
// to a status without string matching.
type ErrorCode int

// System errors (1000-1999)
const (
	ErrInternal ErrorCode = 1000 + iota
	ErrDependency
)

// Auth errors (2000-2999)
const (
	ErrUnauthorized ErrorCode = 2000 + iota
	ErrInvalidCredentials
)

// Request errors (3000-3999)
const (
	ErrValidation ErrorCode = 3000 + iota
	ErrNotFound
	ErrDuplicate
)

// Follow-graph errors (4000-4999)
const (
	ErrUserNotFound ErrorCode = 4000 + iota
	ErrSelfFollow
	ErrAlreadyFollowing
	ErrNotFollowing
)

// AppError carries a code, a caller-facing message and an optional cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new application error
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Wrap wraps an existing error with a code and message
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// CodeOf extracts the code of an application error anywhere in err's chain.
// The second return is false for foreign errors.
func CodeOf(err error) (ErrorCode, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code, true
	}
	return 0, false
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	c, ok := CodeOf(err)
	return ok && c == code
}
