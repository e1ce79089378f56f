package handlers

import (
	"context"

	"github.com/chatimovel/painel-server/internal/domain/dashboard"
)

// DashboardHandler handles dashboard metric HTTP requests.
type DashboardHandler struct {
	metrics *dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(metrics *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{metrics: metrics}
}

// Metrics returns the current dashboard indicators.
func (h *DashboardHandler) Metrics(ctx context.Context) (dashboard.Metrics, error) {
	return h.metrics.Metrics(ctx)
}
