package backend

import (
	"errors"
	"fmt"
	"net/http"
)

// UnreachableError signals that the backend could not be reached: connection
// failure, DNS failure, or the request deadline expiring.
type UnreachableError struct {
	Op  string
	Err error
}

func (e *UnreachableError) Error() string {
	return fmt.Sprintf("backend unreachable (%s): %v", e.Op, e.Err)
}

func (e *UnreachableError) Unwrap() error { return e.Err }

// RejectedError signals that the backend answered with a non-success status or
// a reply that could not be decoded.
type RejectedError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("backend rejected %s: status %d: %s", e.Op, e.StatusCode, msg)
}

// IsUnreachable reports whether err indicates the backend could not be reached.
func IsUnreachable(err error) bool {
	var ue *UnreachableError
	return errors.As(err, &ue)
}

// IsRejected reports whether err indicates the backend refused the request.
func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}
