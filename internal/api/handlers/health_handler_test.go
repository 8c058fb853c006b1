package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avelis/estate-be/internal/database"
)

func TestHealthAlwaysOK(t *testing.T) {
	// No connection has been made: liveness must still report 200.
	h := NewHealthHandler(database.New("mongodb://localhost:27017", "estate_test"))

	r := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	h.Health(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Message)
}

func TestReadyWithoutConnection(t *testing.T) {
	h := NewHealthHandler(database.New("mongodb://localhost:27017", "estate_test"))

	r := httptest.NewRequest(http.MethodGet, "/api/ready", nil)
	w := httptest.NewRecorder()
	h.Ready(w, r)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.False(t, decodeEnvelope(t, w).Success)
}

func TestRoot(t *testing.T) {
	h := NewHealthHandler(database.New("mongodb://localhost:27017", "estate_test"))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	h.Root(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "running")
}
