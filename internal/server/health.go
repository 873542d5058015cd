package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/subeerhaldar/graphql-demo/internal/lib/logger/sl"
)

type StorePinger interface {
	Ping(ctx context.Context) error
}

type HealthChecker struct {
	store StorePinger
	log   *slog.Logger
}

func NewHealthChecker(store StorePinger, log *slog.Logger) *HealthChecker {
	return &HealthChecker{
		store: store,
		log:   log,
	}
}

func (h *HealthChecker) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	h.log.DebugContext(req.Context(), "Performing health checks...")

	status := make(map[string]string)
	overallStatus := http.StatusOK

	if err := h.store.Ping(req.Context()); err != nil {
		status["store"] = "unavailable"
		overallStatus = http.StatusServiceUnavailable
		h.log.WarnContext(req.Context(), "Health check failed: store ping", sl.Err(err))
	} else {
		status["store"] = "ok"
	}

	sendJSON(req.Context(), h.log, writer, status, overallStatus)

	h.log.DebugContext(req.Context(), "Health checks completed", slog.Int("status", overallStatus))
}
