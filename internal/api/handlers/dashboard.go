package handlers

import (
	"net/http"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/utils"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/services"
)

// DashboardHandler handles dashboard aggregate endpoints
type DashboardHandler struct {
	dashboard   *services.DashboardService
	correlation *services.CorrelationService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard *services.DashboardService, correlation *services.CorrelationService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, correlation: correlation}
}

// Stats handles GET /api/v1/dashboard/stats
func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dashboard.Stats(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, stats)
}

// CorrelatedAlerts handles GET /api/v1/dashboard/correlated-alerts
func (h *DashboardHandler) CorrelatedAlerts(w http.ResponseWriter, r *http.Request) {
	correlated, err := h.correlation.Correlate(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, correlated)
}
