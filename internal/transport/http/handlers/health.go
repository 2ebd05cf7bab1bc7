package http_handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/baechuer/real-time-ressys/services/user-service/internal/logger"
	"github.com/baechuer/real-time-ressys/services/user-service/internal/transport/http/response"
)

// Pinger is anything readiness depends on: the store, Redis, the broker.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	checks  map[string]Pinger
	timeout time.Duration
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Healthz handles GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz handles GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		p := h.checks[name]
		if p == nil {
			continue
		}
		if err := p.Ping(ctx); err != nil {
			logger.WithCtx(r.Context()).Warn().Err(err).Str("check", name).Msg("readiness check failed")
			response.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  name + " unavailable",
			})
			return
		}
	}

	response.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
