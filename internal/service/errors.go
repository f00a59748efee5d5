package service

import (
	"errors"
	"net/http"
)

// invalidRequestError reports caller input that fails validation (400).
type invalidRequestError struct{ msg string }

func (e invalidRequestError) Error() string { return e.msg }

// StatusCode lets the HTTP layer map the error without importing this package's internals.
func (e invalidRequestError) StatusCode() int { return http.StatusBadRequest }

func errInvalid(msg string) error { return invalidRequestError{msg: msg} }

// IsInvalidRequest reports whether err is a validation failure.
func IsInvalidRequest(err error) bool {
	var ie invalidRequestError
	return errors.As(err, &ie)
}
