package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/mstgnz/monetico/infra/config"
	"github.com/mstgnz/monetico/infra/response"
)

func TestNewHealthHandler(t *testing.T) {
	handler := NewHealthHandler(nil, nil)
	if handler == nil {
		t.Fatal("NewHealthHandler should not return nil")
	}

	if handler.startTime.IsZero() {
		t.Error("HealthHandler should have start time set")
	}
}

func TestHealthHandler_CheckHealth_NoStore(t *testing.T) {
	handler := NewHealthHandler(nil, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	handler.CheckHealth(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	contentType := w.Header().Get("Content-Type")
	if contentType != "application/json" {
		t.Errorf("expected content type application/json, got %s", contentType)
	}

	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success {
		t.Error("expected success response")
	}
}

func TestHealthHandler_CheckHealth_WithStore(t *testing.T) {
	store, err := config.NewMerchantStore(filepath.Join(t.TempDir(), "merchants.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	handler := NewHealthHandler(store, nil)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	handler.CheckHealth(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	data, ok := resp.Data.(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %T", resp.Data)
	}
	if data["status"] != "healthy" {
		t.Errorf("expected healthy status, got %v", data["status"])
	}

	storeHealth, ok := data["store"].(map[string]any)
	if !ok {
		t.Fatalf("expected store health object")
	}
	if storeHealth["status"] != "healthy" {
		t.Errorf("expected healthy store, got %v", storeHealth["status"])
	}
}
