package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/jobmaroc/jobboard/internal/http/respond"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler returns uptime and database reachability.
type HealthHandler struct {
	startedAt time.Time
	db        Pinger
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, db Pinger) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, db: db}
}

// Register wires the handler into a ServeMux.
func (h *HealthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.handle)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	body := map[string]string{
		"status":   "ok",
		"uptime":   time.Since(h.startedAt).Truncate(time.Second).String(),
		"database": "ok",
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.db.Ping(ctx); err != nil {
		body["status"] = "degraded"
		body["database"] = err.Error()
		respond.JSON(w, http.StatusServiceUnavailable, "database unreachable", body)
		return
	}
	respond.JSON(w, http.StatusOK, "ok", body)
}
