package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"domainllm/internal/backend"
	"domainllm/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// statusFor maps service and backend errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case backend.IsUnreachable(err):
		incBackendFailure("unreachable")
		return http.StatusServiceUnavailable
	case backend.IsRejected(err):
		incBackendFailure("rejected")
		return http.StatusBadGateway
	}
	var he HTTPError
	if errors.As(err, &he) {
		return he.StatusCode()
	}
	return http.StatusInternalServerError
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, types.ErrorResponse{Error: msg, Code: status})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
