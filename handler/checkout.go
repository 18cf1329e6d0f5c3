package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mstgnz/monetico/infra/config"
	"github.com/mstgnz/monetico/infra/logger"
	"github.com/mstgnz/monetico/infra/response"
	"github.com/mstgnz/monetico/monetico"
)

// MerchantLoader resolves merchant credentials for checkout requests
type MerchantLoader interface {
	LoadMerchant(merchantID string) (config.Merchant, error)
}

// CheckoutHandler handles checkout related HTTP requests
type CheckoutHandler struct {
	merchants MerchantLoader
	validate  *validator.Validate
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(merchants MerchantLoader, validate *validator.Validate) *CheckoutHandler {
	return &CheckoutHandler{
		merchants: merchants,
		validate:  validate,
	}
}

// CheckoutRequest is the inbound payload for building a hosted payment page
// submission. Amounts are decimal strings, never floats.
type CheckoutRequest struct {
	Reference   string `json:"reference" validate:"omitempty,max=12"`
	Description string `json:"description"`
	Language    string `json:"language" validate:"required,len=2"`
	Email       string `json:"email" validate:"required,email"`
	Amount      string `json:"amount" validate:"required"`
	Currency    string `json:"currency" validate:"required,len=3"`
	SuccessURL  string `json:"successUrl" validate:"required,url"`
	ErrorURL    string `json:"errorUrl" validate:"required,url"`

	Commitments []CommitmentRequest `json:"commitments,omitempty" validate:"omitempty,dive"`

	CardAlias             string   `json:"cardAlias,omitempty"`
	ForceCard             bool     `json:"forceCard,omitempty"`
	Disable3DS            bool     `json:"disable3DS,omitempty"`
	SignLabel             string   `json:"signLabel,omitempty"`
	DisabledPaymentWays   []string `json:"disabledPaymentWays,omitempty"`
	ThreeDSecureChallenge string   `json:"threeDSecureChallenge,omitempty"`

	BillingAddress  *monetico.BillingAddress  `json:"billingAddress,omitempty"`
	ShippingAddress *monetico.ShippingAddress `json:"shippingAddress,omitempty"`
	Client          *monetico.Client          `json:"client,omitempty"`
	Cart            *monetico.Cart            `json:"cart,omitempty"`
}

// CommitmentRequest is one installment of a commitment schedule
type CommitmentRequest struct {
	Date   string `json:"date" validate:"required"`
	Amount string `json:"amount" validate:"required"`
}

// CheckoutResponse carries everything a caller needs to render the hidden
// payment form
type CheckoutResponse struct {
	URL      string            `json:"url"`
	TestMode bool              `json:"test_mode"`
	Fields   map[string]string `json:"fields"`
}

// Checkout builds a sealed field map for the merchant named in the URL
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		response.Error(w, http.StatusBadRequest, "Validation error", err)
		return
	}

	merchantID := chi.URLParam(r, "merchant")
	merchant, err := h.merchants.LoadMerchant(merchantID)
	if err != nil {
		if errors.Is(err, config.ErrMerchantNotFound) {
			response.Error(w, http.StatusNotFound, "Unknown merchant", err)
			return
		}
		response.Error(w, http.StatusInternalServerError, "Failed to load merchant", err)
		return
	}

	processor, err := monetico.New(merchant.EptCode, merchant.SecurityKey, merchant.CompanyCode)
	if err != nil {
		logger.Error("Merchant has invalid credentials", err, logger.LogContext{
			MerchantID: merchantID,
			RequestID:  r.Header.Get("X-Request-ID"),
		})
		response.Error(w, http.StatusInternalServerError, "Merchant misconfigured", err)
		return
	}

	capture, err := buildCaptureRequest(req)
	if err != nil {
		response.Error(w, statusForCoreError(err), "Invalid checkout request", err)
		return
	}

	fields := processor.PaymentFields(capture)

	logger.Info("Checkout request sealed", logger.LogContext{
		MerchantID: merchantID,
		RequestID:  r.Header.Get("X-Request-ID"),
		Fields: map[string]any{
			"reference": capture.Reference(),
			"test_mode": merchant.TestMode,
		},
	})

	response.Success(w, http.StatusOK, "Checkout prepared", CheckoutResponse{
		URL:      monetico.PaymentURL(merchant.TestMode),
		TestMode: merchant.TestMode,
		Fields:   fields.Map(),
	})
}

// buildCaptureRequest maps the transport payload onto the core request type
func buildCaptureRequest(req CheckoutRequest) (*monetico.CaptureRequest, error) {
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return nil, monetico.ErrInvalidAmount
	}

	reference := req.Reference
	if reference == "" {
		reference = monetico.NewReference()
	}

	commitments := make([]monetico.Commitment, 0, len(req.Commitments))
	for _, c := range req.Commitments {
		date, err := monetico.ParseDate(c.Date)
		if err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(c.Amount)
		if err != nil {
			return nil, monetico.ErrInvalidAmount
		}
		commitments = append(commitments, monetico.Commitment{
			Date:   date,
			Amount: monetico.NewMoney(value),
		})
	}

	capture, err := monetico.NewCaptureRequest(monetico.CaptureParams{
		Reference:   reference,
		Description: req.Description,
		Language:    req.Language,
		Email:       req.Email,
		Amount:      monetico.NewMoney(amount),
		Currency:    req.Currency,
		DateTime:    time.Now(),
		SuccessURL:  req.SuccessURL,
		ErrorURL:    req.ErrorURL,
	}, commitments...)
	if err != nil {
		return nil, err
	}

	if req.CardAlias != "" {
		capture.SetCardAlias(req.CardAlias)
	}
	if req.ForceCard {
		capture.SetForceCard(true)
	}
	if req.Disable3DS {
		capture.SetDisable3DS(true)
	}
	if req.SignLabel != "" {
		capture.SetSignLabel(req.SignLabel)
	}
	if len(req.DisabledPaymentWays) > 0 {
		capture.SetDisabledPaymentWays(req.DisabledPaymentWays)
	}
	if req.ThreeDSecureChallenge != "" {
		if err := capture.SetThreeDSecureChallenge(req.ThreeDSecureChallenge); err != nil {
			return nil, err
		}
	}

	if req.BillingAddress != nil {
		capture.SetBillingAddress(*req.BillingAddress)
	}
	if req.ShippingAddress != nil {
		capture.SetShippingAddress(*req.ShippingAddress)
	}
	if req.Client != nil {
		capture.SetClient(*req.Client)
	}
	if req.Cart != nil {
		capture.SetCart(*req.Cart)
	}

	return capture, nil
}

// statusForCoreError maps the library error taxonomy to HTTP status codes
func statusForCoreError(err error) int {
	switch {
	case errors.Is(err, monetico.ErrInvalidReference),
		errors.Is(err, monetico.ErrInvalidLanguage),
		errors.Is(err, monetico.ErrInvalidCurrency),
		errors.Is(err, monetico.ErrInvalidDateTime),
		errors.Is(err, monetico.ErrInvalidEmail),
		errors.Is(err, monetico.ErrInvalidURL),
		errors.Is(err, monetico.ErrInvalidAmount),
		errors.Is(err, monetico.ErrInvalidThreeDSecureChallenge):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
