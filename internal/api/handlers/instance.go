package handlers

import (
	"net/http"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/inventory"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/utils"
)

// InstanceHandler handles instance store endpoints
type InstanceHandler struct {
	instances inventory.Repository
}

// NewInstanceHandler creates a new instance handler
func NewInstanceHandler(instances inventory.Repository) *InstanceHandler {
	return &InstanceHandler{instances: instances}
}

// List handles GET /api/v1/instances
func (h *InstanceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := inventory.Filter{
		Provider:  q.Get("provider"),
		AccountID: q.Get("account_id"),
		State:     q.Get("state"),
		Name:      q.Get("name"),
		Region:    q.Get("region"),
	}
	insts, err := h.instances.List(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, insts)
}
