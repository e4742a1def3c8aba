package errors

import "fmt"

// ErrorCode classifies every failure the services can report.
type ErrorCode int

const (
	ErrInternal ErrorCode = 1000 + iota
	ErrDatabase
)

const (
	ErrUnauthorized ErrorCode = 2000 + iota
	ErrForbidden
	ErrInvalidCredentials
)

const (
	ErrBadRequest ErrorCode = 3000 + iota
	ErrValidation
	ErrNotFound
	ErrConflict
)

// AppError carries a code plus a user-facing message; Err, when set, is the
// underlying cause and only ever shown for validation failures.
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

func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
