package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mstgnz/monetico/infra/config"
	"github.com/mstgnz/monetico/infra/response"
)

// MerchantHandler handles merchant credential management requests
type MerchantHandler struct {
	store    *config.MerchantStore
	validate *validator.Validate
}

// NewMerchantHandler creates a new merchant handler
func NewMerchantHandler(store *config.MerchantStore, validate *validator.Validate) *MerchantHandler {
	return &MerchantHandler{
		store:    store,
		validate: validate,
	}
}

// SetMerchantRequest represents the request structure for storing merchant
// credentials
type SetMerchantRequest struct {
	EptCode     string `json:"eptCode" validate:"required,len=7"`
	CompanyCode string `json:"companyCode" validate:"required"`
	SecurityKey string `json:"securityKey" validate:"required,len=40,hexadecimal"`
	TestMode    bool   `json:"testMode"`
}

// SetMerchant stores credentials for the merchant named in the URL
func (h *MerchantHandler) SetMerchant(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "merchant")
	if merchantID == "" {
		response.Error(w, http.StatusBadRequest, "Merchant ID is required", nil)
		return
	}

	var req SetMerchantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation error", err)
		return
	}

	merchant := config.Merchant{
		ID:          merchantID,
		EptCode:     req.EptCode,
		CompanyCode: req.CompanyCode,
		SecurityKey: req.SecurityKey,
		TestMode:    req.TestMode,
	}

	if err := h.store.SaveMerchant(merchant); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to save merchant", err)
		return
	}

	response.Success(w, http.StatusOK, "Merchant saved", map[string]any{
		"merchantId": merchantID,
		"testMode":   req.TestMode,
	})
}

// GetMerchant returns one merchant's credentials with the security key masked
func (h *MerchantHandler) GetMerchant(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "merchant")

	merchant, err := h.store.LoadMerchant(merchantID)
	if err != nil {
		if errors.Is(err, config.ErrMerchantNotFound) {
			response.Error(w, http.StatusNotFound, "Merchant not found", err)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to load merchant", err)
		return
	}

	response.Success(w, http.StatusOK, "Merchant retrieved", merchant)
}

// ListMerchants returns every configured merchant, security keys excluded
func (h *MerchantHandler) ListMerchants(w http.ResponseWriter, r *http.Request) {
	merchants, err := h.store.LoadAllMerchants()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to load merchants", err)
		return
	}

	response.Success(w, http.StatusOK, "Merchants retrieved", map[string]any{
		"count":     len(merchants),
		"merchants": merchants,
	})
}

// DeleteMerchant removes a merchant's credentials
func (h *MerchantHandler) DeleteMerchant(w http.ResponseWriter, r *http.Request) {
	merchantID := chi.URLParam(r, "merchant")

	if err := h.store.DeleteMerchant(merchantID); err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to delete merchant", err)
		return
	}

	response.Success(w, http.StatusOK, "Merchant deleted", map[string]any{
		"merchantId": merchantID,
	})
}

// GetStats returns merchant store statistics
func (h *MerchantHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.GetStats()
	if err != nil {
		response.Error(w, http.StatusInternalServerError, "Failed to get statistics", err)
		return
	}

	response.Success(w, http.StatusOK, "Statistics retrieved", stats)
}
