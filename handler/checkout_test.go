package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mstgnz/monetico/infra/config"
	"github.com/mstgnz/monetico/infra/response"
)

// stubMerchantLoader serves a fixed merchant set without touching SQLite
type stubMerchantLoader struct {
	merchants map[string]config.Merchant
}

func (s *stubMerchantLoader) LoadMerchant(merchantID string) (config.Merchant, error) {
	merchant, ok := s.merchants[merchantID]
	if !ok {
		return config.Merchant{}, config.ErrMerchantNotFound
	}
	return merchant, nil
}

func newCheckoutRouter() *chi.Mux {
	loader := &stubMerchantLoader{
		merchants: map[string]config.Merchant{
			"shop-1": {
				ID:          "shop-1",
				EptCode:     "0000001",
				CompanyCode: "acme",
				SecurityKey: "12345678901234567890123456789012345678AB",
				TestMode:    true,
			},
			"broken": {
				ID:          "broken",
				EptCode:     "too-long-ept-code",
				CompanyCode: "acme",
				SecurityKey: "12345678901234567890123456789012345678AB",
			},
		},
	}

	h := NewCheckoutHandler(loader, validator.New())

	r := chi.NewRouter()
	r.Post("/v1/checkout/{merchant}", h.Checkout)
	return r
}

func validCheckoutBody() map[string]any {
	return map[string]any{
		"reference":  "ABCDEF123",
		"language":   "FR",
		"email":      "shopper@example.com",
		"amount":     "42.42",
		"currency":   "EUR",
		"successUrl": "https://shop.example.com/success",
		"errorUrl":   "https://shop.example.com/error",
	}
}

func postCheckout(t *testing.T, r http.Handler, merchant string, body any) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest("POST", "/v1/checkout/"+merchant, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) response.Response {
	t.Helper()

	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestCheckout_Success(t *testing.T) {
	r := newCheckoutRouter()

	w := postCheckout(t, r, "shop-1", validCheckoutBody())
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	if !resp.Success {
		t.Fatalf("expected success response: %s", w.Body.String())
	}

	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", resp.Data)
	}

	if data["url"] != "https://p.monetico-services.com/test/paiement.cgi" {
		t.Errorf("unexpected payment url: %v", data["url"])
	}
	if data["test_mode"] != true {
		t.Errorf("expected test_mode true")
	}

	fields, ok := data["fields"].(map[string]any)
	if !ok {
		t.Fatalf("expected fields object, got %T", data["fields"])
	}

	if fields["TPE"] != "0000001" {
		t.Errorf("expected TPE 0000001, got %v", fields["TPE"])
	}
	if fields["reference"] != "ABCDEF123" {
		t.Errorf("expected reference ABCDEF123, got %v", fields["reference"])
	}
	if fields["montant"] != "42.42EUR" {
		t.Errorf("expected montant 42.42EUR, got %v", fields["montant"])
	}

	mac, ok := fields["MAC"].(string)
	if !ok || len(mac) != 40 {
		t.Errorf("expected 40-char MAC, got %v", fields["MAC"])
	}
}

func TestCheckout_GeneratesReference(t *testing.T) {
	r := newCheckoutRouter()

	body := validCheckoutBody()
	delete(body, "reference")

	w := postCheckout(t, r, "shop-1", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	fields := data["fields"].(map[string]any)

	reference, _ := fields["reference"].(string)
	if len(reference) != 12 {
		t.Errorf("expected generated 12-char reference, got %q", reference)
	}
}

func TestCheckout_UnknownMerchant(t *testing.T) {
	r := newCheckoutRouter()

	w := postCheckout(t, r, "nobody", validCheckoutBody())
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestCheckout_MisconfiguredMerchant(t *testing.T) {
	r := newCheckoutRouter()

	w := postCheckout(t, r, "broken", validCheckoutBody())
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestCheckout_InvalidJSON(t *testing.T) {
	r := newCheckoutRouter()

	req := httptest.NewRequest("POST", "/v1/checkout/shop-1", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCheckout_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(body map[string]any)
	}{
		{
			name:   "missing email",
			mutate: func(body map[string]any) { delete(body, "email") },
		},
		{
			name:   "missing amount",
			mutate: func(body map[string]any) { delete(body, "amount") },
		},
		{
			name:   "relative success url",
			mutate: func(body map[string]any) { body["successUrl"] = "/success" },
		},
		{
			name:   "reference too long",
			mutate: func(body map[string]any) { body["reference"] = "ABCDEFGHIJKLM" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCheckoutRouter()

			body := validCheckoutBody()
			tt.mutate(body)

			w := postCheckout(t, r, "shop-1", body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestCheckout_CoreValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(body map[string]any)
	}{
		{
			name:   "unknown language",
			mutate: func(body map[string]any) { body["language"] = "XX" },
		},
		{
			name:   "unknown currency",
			mutate: func(body map[string]any) { body["currency"] = "XXX" },
		},
		{
			name:   "negative amount",
			mutate: func(body map[string]any) { body["amount"] = "-1" },
		},
		{
			name:   "non-numeric amount",
			mutate: func(body map[string]any) { body["amount"] = "forty" },
		},
		{
			name: "unknown challenge mode",
			mutate: func(body map[string]any) {
				body["threeDSecureChallenge"] = "whatever"
			},
		},
		{
			name: "invalid commitment date",
			mutate: func(body map[string]any) {
				body["commitments"] = []map[string]string{{"date": "42", "amount": "10"}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newCheckoutRouter()

			body := validCheckoutBody()
			tt.mutate(body)

			w := postCheckout(t, r, "shop-1", body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
		})
	}
}

func TestCheckout_WithCommitments(t *testing.T) {
	r := newCheckoutRouter()

	body := validCheckoutBody()
	body["amount"] = "200"
	body["commitments"] = []map[string]string{
		{"date": "06/01/2026", "amount": "50"},
		{"date": "06/02/2026", "amount": "150"},
	}

	w := postCheckout(t, r, "shop-1", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	fields := data["fields"].(map[string]any)

	if fields["nbrech"] != "2" {
		t.Errorf("expected nbrech 2, got %v", fields["nbrech"])
	}
	if fields["dateech1"] != "06/01/2026" {
		t.Errorf("expected dateech1 06/01/2026, got %v", fields["dateech1"])
	}
	if fields["montantech2"] != "150EUR" {
		t.Errorf("expected montantech2 150EUR, got %v", fields["montantech2"])
	}
}
