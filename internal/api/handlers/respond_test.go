package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avelis/estate-be/internal/auth"
	"github.com/avelis/estate-be/internal/database"
	"github.com/avelis/estate-be/internal/services"
)

func TestStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", services.ErrInvalidInput, http.StatusBadRequest},
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"user not found", services.ErrUserNotFound, http.StatusNotFound},
		{"listing not found", services.ErrListingNotFound, http.StatusNotFound},
		{"email taken", services.ErrEmailTaken, http.StatusConflict},
		{"store unavailable", database.ErrNotConnected, http.StatusServiceUnavailable},
		{"wrapped sentinel", fmt.Errorf("signup: %w", services.ErrEmailTaken), http.StatusConflict},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, statusFromError(tt.err))
		})
	}
}

func TestRespondErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/listing/x", nil)
	respondError(w, r, services.ErrListingNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, services.ErrListingNotFound.Error(), env.Message)
}

func TestRespondErrorHidesInternals(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/listing", nil)
	respondError(w, r, errors.New("dial tcp 10.0.0.3: connection reset"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	env := decodeEnvelope(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, "internal server error", env.Message)
	assert.NotContains(t, w.Body.String(), "dial tcp")
}

func TestRespondMessage(t *testing.T) {
	w := httptest.NewRecorder()
	respondMessage(w, http.StatusOK, "done")

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "done", env.Message)
}
