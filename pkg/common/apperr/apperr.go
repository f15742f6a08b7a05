package apperr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// Application error codes.
const (
	CodeInvalidRequest = 40001
	CodeValidation     = 40002
	CodeNotFound       = 40401
	CodeBackend        = 50001
	CodeInternal       = 50000
)

// AppError carries a stable code and HTTP status alongside the underlying cause.
type AppError struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Cause      error  `json:"-"`
}

// New creates an AppError.
func New(code int, msg string, httpStatus int, cause error) *AppError {
	return &AppError{Code: code, Message: msg, HTTPStatus: httpStatus, Cause: cause}
}

// Wrap attaches code, message and status to err, recording a stack trace.
func Wrap(err error, code int, msg string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return New(code, msg, httpStatus, errors.WithStack(err))
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// From converts any error to an AppError, defaulting to an internal error.
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeInternal, "internal error", http.StatusInternalServerError)
}
