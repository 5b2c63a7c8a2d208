package apperr

import (
	"errors"
	"net/http"
)

// Error is a status-coded error carried from stores and middleware up to
// the HTTP layer, where Status selects the response code.
type Error struct {
	Status  int
	Message string
	Errors  []string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// InvalidInput builds a 400 with an optional list of human-readable
// validation messages.
func InvalidInput(message string, details ...string) *Error {
	return &Error{Status: http.StatusBadRequest, Message: message, Errors: details}
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

func PayloadTooLarge(message string) *Error {
	return New(http.StatusRequestEntityTooLarge, message)
}

func TooManyRequests(message string) *Error {
	return New(http.StatusTooManyRequests, message)
}

func Internal(message string) *Error {
	return New(http.StatusInternalServerError, message)
}

// StatusOf returns the HTTP status carried by err, or 500 for errors
// outside the taxonomy.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// IsClientError reports whether err carries a 4xx status. The retry
// wrapper uses this to skip retries that can never succeed.
func IsClientError(err error) bool {
	s := StatusOf(err)
	return s >= 400 && s < 500
}
