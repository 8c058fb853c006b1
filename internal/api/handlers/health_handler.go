package handlers

import (
	"net/http"

	"github.com/avelis/estate-be/internal/database"
)

// HealthHandler exposes liveness and readiness probes.
type HealthHandler struct {
	db *database.Database
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *database.Database) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health is the liveness probe: it reports 200 as long as the process is
// serving, regardless of the database state.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondMessage(w, http.StatusOK, "backend alive")
}

// Ready is the readiness probe: 200 only with a live, responsive store
// connection.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.db.Status() != database.Connected {
		respondError(w, r, database.ErrNotConnected)
		return
	}
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, r, database.ErrNotConnected)
		return
	}
	respondMessage(w, http.StatusOK, "ready")
}

// Root answers the bare / route with a short info line.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("estate backend is running"))
}
