package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"love-manager-backend/internal/errs"

	"github.com/rs/zerolog/log"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse carries a human-readable confirmation
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}

// respondJSON sends body as JSON with statusCode
func respondJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// decodeJSON reads the request body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return false
	}
	return true
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with its mapped status. Server-side
// failures are logged and their details hidden from the caller.
func respondServiceError(w http.ResponseWriter, err error, fallback string) {
	status := statusFor(err)
	message := err.Error()
	switch status {
	case http.StatusNotFound:
		message = "Partner not found"
	case http.StatusUnauthorized:
		message = "Unauthorized"
	case http.StatusInternalServerError:
		log.Error().Err(err).Msg(fallback)
		message = fallback
	}

	var verr *errs.ValidationError
	if errors.As(err, &verr) {
		message = verr.Error()
	}
	respondError(w, message, status)
}
