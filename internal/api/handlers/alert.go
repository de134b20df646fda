package handlers

import (
	"net/http"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/alert"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/utils"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/services"
)

// AlertHandler handles alert endpoints
type AlertHandler struct {
	service *services.AnomalyService
}

// NewAlertHandler creates a new alert handler
func NewAlertHandler(service *services.AnomalyService) *AlertHandler {
	return &AlertHandler{service: service}
}

// Webhook handles POST /api/v1/alerts/webhook, the external ingest path
func (h *AlertHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var a alert.Alert
	if err := decodeJSON(r, &a); err != nil {
		utils.WriteError(w, err)
		return
	}

	stored, err := h.service.Ingest(r.Context(), &a)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, stored)
}

// Detect handles POST /api/v1/alerts/detect
func (h *AlertHandler) Detect(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.service.Detect(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"alerts_emitted": len(alerts),
		"alerts":         alerts,
	})
}

// List handles GET /api/v1/alerts
func (h *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := alert.Filter{
		AlertType: q.Get("alert_type"),
		Severity:  q.Get("severity"),
	}
	alerts, err := h.service.ListAlerts(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, alerts)
}
