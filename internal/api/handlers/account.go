package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Bhuvanyu1/Cloudcatcher/internal/domain/account"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/errors"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/utils"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/pkg/validator"
	"github.com/Bhuvanyu1/Cloudcatcher/internal/services"
)

// AccountHandler handles cloud account endpoints
type AccountHandler struct {
	service   *services.AccountService
	validator *validator.Validator
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(service *services.AccountService, v *validator.Validator) *AccountHandler {
	return &AccountHandler{service: service, validator: v}
}

// List handles GET /api/v1/accounts
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := account.Filter{
		Provider: r.URL.Query().Get("provider"),
		Status:   r.URL.Query().Get("status"),
	}
	accts, err := h.service.List(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, accts)
}

// Get handles GET /api/v1/accounts/{id}
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	acct, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, acct)
}

// Create handles POST /api/v1/accounts
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input services.CreateInput
	if err := decodeJSON(r, &input); err != nil {
		utils.WriteError(w, err)
		return
	}
	if verrs := h.validator.Validate(input); verrs != nil {
		utils.WriteError(w, errors.ValidationError("invalid account", verrs))
		return
	}

	acct, err := h.service.Create(r.Context(), input)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, acct)
}

// Update handles PUT /api/v1/accounts/{id}
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input services.UpdateInput
	if err := decodeJSON(r, &input); err != nil {
		utils.WriteError(w, err)
		return
	}
	if verrs := h.validator.Validate(input); verrs != nil {
		utils.WriteError(w, errors.ValidationError("invalid account", verrs))
		return
	}

	acct, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, acct)
}

// Delete handles DELETE /api/v1/accounts/{id}
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Enable handles POST /api/v1/accounts/{id}/enable
func (h *AccountHandler) Enable(w http.ResponseWriter, r *http.Request) {
	acct, err := h.service.Enable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, acct)
}

// Disable handles POST /api/v1/accounts/{id}/disable
func (h *AccountHandler) Disable(w http.ResponseWriter, r *http.Request) {
	acct, err := h.service.Disable(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, acct)
}
