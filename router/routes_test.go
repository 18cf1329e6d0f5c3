package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mstgnz/monetico/infra/config"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()

	store, err := config.NewMerchantStore(filepath.Join(t.TempDir(), "merchants.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	r := chi.NewRouter()
	Routes(r, store, nil)
	return r
}

func TestRoutes_Health(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestRoutes_CheckoutFlow(t *testing.T) {
	r := newTestRouter(t)

	merchant, _ := json.Marshal(map[string]any{
		"eptCode":     "0000001",
		"companyCode": "acme",
		"securityKey": "12345678901234567890123456789012345678AB",
		"testMode":    true,
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/v1/merchants/shop-1", bytes.NewReader(merchant)))
	if w.Code != http.StatusOK {
		t.Fatalf("save merchant: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	checkout, _ := json.Marshal(map[string]any{
		"reference":  "ORDER1",
		"language":   "FR",
		"email":      "shopper@example.com",
		"amount":     "19.9",
		"currency":   "EUR",
		"successUrl": "https://shop.example.com/ok",
		"errorUrl":   "https://shop.example.com/err",
	})

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/v1/checkout/shop-1", bytes.NewReader(checkout)))
	if w.Code != http.StatusOK {
		t.Fatalf("checkout: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if !bytes.Contains(w.Body.Bytes(), []byte(`"MAC"`)) {
		t.Error("checkout response should contain a MAC field")
	}
}

func TestRoutes_UnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/v1/unknown", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
