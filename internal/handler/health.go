package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/Bidon15/piedpiper/internal/pkg/response"
)

// Pinger is implemented by *database.Postgres and *database.Redis.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	db    Pinger
	cache Pinger
}

// NewHealthHandler creates a health handler. cache may be nil when the
// session cache is disabled.
func NewHealthHandler(db, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// Health always succeeds while the process is serving.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// Ready verifies the database and Redis connections.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "component": "database"})
		return
	}
	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			response.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "error", "component": "redis"})
			return
		}
	}

	response.OK(w, map[string]string{"status": "ok"})
}
