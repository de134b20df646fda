package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/utils"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/services"
)

// SyncHandler handles inventory sync endpoints
type SyncHandler struct {
	service *services.SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(service *services.SyncService) *SyncHandler {
	return &SyncHandler{service: service}
}

// SyncAll handles POST /api/v1/sync
func (h *SyncHandler) SyncAll(w http.ResponseWriter, r *http.Request) {
	fleet, err := h.service.SyncAll(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, fleet)
}

// SyncAccount handles POST /api/v1/sync/{accountID}
func (h *SyncHandler) SyncAccount(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.SyncAccount(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, result)
}
