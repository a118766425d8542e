package apperr

import (
	"fmt"
	"net/http"
	"runtime"
	"strings"
)

// AppError is an operational error: its status and message are meant for the client.
type AppError struct {
	Status  int
	Message string
	Errors  []string

	stack []uintptr
}

func (e *AppError) Error() string {
	return e.Message
}

// Stack renders the call stack captured when the error was created.
func (e *AppError) Stack() string {
	if len(e.stack) == 0 {
		return ""
	}
	var b strings.Builder
	frames := runtime.CallersFrames(e.stack)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return b.String()
}

// New creates an AppError with the given status.
func New(status int, message string) *AppError {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	return &AppError{Status: status, Message: message, stack: pcs[:n]}
}

func BadRequest(format string, args ...any) *AppError {
	return New(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

func Unauthorized(message string) *AppError {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}

func NotFound(format string, args ...any) *AppError {
	return New(http.StatusNotFound, fmt.Sprintf(format, args...))
}

func Internal(message string) *AppError {
	return New(http.StatusInternalServerError, message)
}

// Validation aggregates every failing rule into one 422 error.
func Validation(messages ...string) *AppError {
	e := New(http.StatusUnprocessableEntity, strings.Join(messages, ", "))
	e.Errors = messages
	return e
}
