// Package respond writes JSON responses and maps service errors to HTTP
// statuses.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hsm-gustavo/userauth-api/internal/common"
	"github.com/hsm-gustavo/userauth-api/internal/logging"
)

// Fixed denial bodies. They never vary with the cause.
const (
	InvalidCredentialsMessage = "Invalid credentials"
	UnauthorizedMessage       = "Unauthorized"
)

type ErrorResponse struct {
	Error   string   `json:"error" example:"validation failed"`
	Message string   `json:"message,omitempty" example:"Request body is invalid"`
	Details []string `json:"details,omitempty" example:"email must be an email"`
}

type MessageResponse struct {
	Message string `json:"message" example:"User deleted successfully"`
}

func JSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	// Headers are already sent; an encode failure means the client went away.
	_ = json.NewEncoder(w).Encode(v)
}

// Decode reads a JSON request body into v. Unknown fields are rejected. On
// failure it writes the 400 response and returns false.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		InvalidBody(w)
		return false
	}
	return true
}

func Error(w http.ResponseWriter, statusCode int, error string, message string) {
	JSON(w, statusCode, ErrorResponse{Error: error, Message: message})
}

func ValidationFailed(w http.ResponseWriter, details []string) {
	JSON(w, http.StatusBadRequest, ErrorResponse{
		Error:   "validation failed",
		Message: "Request body is invalid",
		Details: details,
	})
}

func InvalidBody(w http.ResponseWriter) {
	Error(w, http.StatusBadRequest, "invalid body", "Invalid JSON format")
}

func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "unauthorized", UnauthorizedMessage)
}

// ServiceError writes the response for an error returned by a service.
// Unknown errors are logged and reported as a generic 500.
func ServiceError(w http.ResponseWriter, logger *slog.Logger, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, common.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, "unauthorized", InvalidCredentialsMessage)
	case errors.Is(err, common.ErrUnauthenticated):
		Unauthorized(w)
	case errors.Is(err, common.ErrDuplicateEmail):
		Error(w, http.StatusConflict, "conflict", "Email already exists")
	case errors.Is(err, common.ErrNotFound):
		Error(w, http.StatusNotFound, "not found", notFoundMessage)
	default:
		logging.LogError(logger, "request failed", err)
		Error(w, http.StatusInternalServerError, "server error", "Internal server error")
	}
}
