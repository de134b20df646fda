package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/recommendation"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/utils"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/validator"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/services"
)

// RecommendationHandler handles recommendation endpoints
type RecommendationHandler struct {
	service   *services.RecommendationService
	validator *validator.Validator
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(service *services.RecommendationService, v *validator.Validator) *RecommendationHandler {
	return &RecommendationHandler{service: service, validator: v}
}

// Run handles POST /api/v1/recommendations/run
func (h *RecommendationHandler) Run(w http.ResponseWriter, r *http.Request) {
	generated, err := h.service.Run(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]int{
		"recommendations_generated": generated,
	})
}

// List handles GET /api/v1/recommendations
func (h *RecommendationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := recommendation.Filter{
		Category:  q.Get("category"),
		Severity:  q.Get("severity"),
		Status:    q.Get("status"),
		AccountID: q.Get("account_id"),
	}
	recs, err := h.service.List(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, recs)
}

type updateStatusInput struct {
	Status string `json:"status" validate:"required,oneof=open dismissed resolved"`
}

// UpdateStatus handles PATCH /api/v1/recommendations/{id}
func (h *RecommendationHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var input updateStatusInput
	if err := decodeJSON(r, &input); err != nil {
		utils.WriteError(w, err)
		return
	}
	if verrs := h.validator.Validate(input); verrs != nil {
		utils.WriteError(w, errors.ValidationError("invalid status", verrs))
		return
	}

	rec, err := h.service.UpdateStatus(r.Context(), chi.URLParam(r, "id"), input.Status)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, rec)
}
