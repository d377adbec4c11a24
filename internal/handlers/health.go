package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Pinger is anything the health check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

const healthTimeout = 2 * time.Second

type healthHandler struct {
	checks map[string]Pinger
	logger *logrus.Logger
}

// ServeHTTP reports "ok" per dependency, or 503 when any check fails.
func (h *healthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if check == nil {
			continue
		}
		if err := check.Ping(ctx); err != nil {
			h.logger.WithError(err).WithField("dependency", name).Warn("Health check failed")
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	writeJSON(w, status, map[string]any{"success": status == http.StatusOK, "checks": results})
}
