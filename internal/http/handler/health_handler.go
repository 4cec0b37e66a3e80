package handler

import (
	"net/http"

	"github.com/veritas-legal/casefile-api/internal/health"
	"go.uber.org/zap"
)

type HealthHandler struct {
	checker *health.Checker
	logger  *zap.Logger
}

func NewHealthHandler(checker *health.Checker, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{checker: checker, logger: logger}
}

// Services godoc
// @Summary Check external service health
// @Description Smoke-test blob storage and report per-service status. Unimplemented integrations report not_implemented.
// @Tags Health
// @Produce json
// @Success 200 {object} health.Status
// @Failure 503 {object} health.Status
// @Router /health/services [get]
func (h *HealthHandler) Services(w http.ResponseWriter, r *http.Request) {
	status := h.checker.Snapshot(r.Context())

	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	respondJSON(w, code, status)
}
