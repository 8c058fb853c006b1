package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/avelis/estate-be/internal/auth"
	"github.com/avelis/estate-be/internal/database"
	"github.com/avelis/estate-be/internal/services"
)

// Envelope is the uniform body for errors and for endpoints that carry no
// resource payload.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// errorStatusMap is the single place where service-layer errors become
// HTTP status codes.
var errorStatusMap = map[error]int{
	services.ErrInvalidInput:       http.StatusBadRequest,
	services.ErrInvalidCredentials: http.StatusUnauthorized,
	auth.ErrInvalidToken:           http.StatusUnauthorized,
	services.ErrForbidden:          http.StatusForbidden,
	services.ErrUserNotFound:       http.StatusNotFound,
	services.ErrListingNotFound:    http.StatusNotFound,
	services.ErrEmailTaken:         http.StatusConflict,
	database.ErrNotConnected:       http.StatusServiceUnavailable,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// respondJSON writes v as the JSON response body.
func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response body")
	}
}

// respondMessage writes a success envelope.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, Envelope{Success: true, Message: message})
}

// respondError maps err to a status code and writes the uniform error
// envelope. Uncategorized errors are logged and reported generically.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Unhandled error")
		message = "internal server error"
	}
	respondJSON(w, status, Envelope{Success: false, Message: message})
}
