// Package handlers provides the request decoding and JSON response helpers
// shared by domain handlers.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

// ErrInvalidBody marks a request body that could not be decoded.
var ErrInvalidBody = errors.New("invalid request body")

// RespondJSON writes data as a JSON body with the given status code.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondError logs err and writes {"error": "<message>"} with the given status.
// Server errors are logged at error level, client errors at warn.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	if status >= http.StatusInternalServerError {
		logger.Error("handler error", "status", status, "error", err)
	} else {
		logger.Warn("request rejected", "status", status, "error", err)
	}
	RespondJSON(w, status, map[string]string{"error": err.Error()})
}

// Respond writes data with status when err is nil, and otherwise the error
// under the status statusOf assigns it.
func Respond(w http.ResponseWriter, logger *slog.Logger, statusOf func(error) int, status int, data any, err error) {
	if err != nil {
		RespondError(w, logger, statusOf(err), err)
		return
	}
	RespondJSON(w, status, data)
}

// DecodeJSON reads the request body into a T. A body that does not decode
// is answered with 400 and ok is false.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger) (v T, ok bool) {
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		RespondError(w, logger, http.StatusBadRequest, fmt.Errorf("%w: %w", ErrInvalidBody, err))
		return v, false
	}
	return v, true
}

// PathUUID parses the named path value. A malformed value is answered with
// 400 carrying invalid and ok is false.
func PathUUID(w http.ResponseWriter, r *http.Request, logger *slog.Logger, name string, invalid error) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		RespondError(w, logger, http.StatusBadRequest, invalid)
		return uuid.Nil, false
	}
	return id, true
}
