package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"acadpulse/internal/services"
)

// StatsProvider reports runtime and session counters
type StatsProvider interface {
	SystemStats(ctx context.Context) services.SystemStats
}

// MetricsHandler serves a JSON snapshot of system statistics. Prometheus
// metrics are exposed separately at /metrics.
type MetricsHandler struct {
	stats StatsProvider
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(stats StatsProvider) *MetricsHandler {
	return &MetricsHandler{stats: stats}
}

// Routes sets up the metrics routes
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))
	r.Get("/", h.GetStats)
	return r
}

// GetStats handles GET /api/stats
func (h *MetricsHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.stats.SystemStats(r.Context()))
}
