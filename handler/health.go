package handler

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/mstgnz/monetico/infra/config"
	"github.com/mstgnz/monetico/infra/opensearch"
	"github.com/mstgnz/monetico/infra/response"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	merchants *config.MerchantStore
	osClient  *opensearch.Client
	startTime time.Time
}

// HealthStatus represents overall system health
type HealthStatus struct {
	Status      string                    `json:"status"`
	Version     string                    `json:"version"`
	Timestamp   time.Time                 `json:"timestamp"`
	Uptime      string                    `json:"uptime"`
	Environment string                    `json:"environment"`
	Store       *StoreHealth              `json:"store"`
	System      *SystemHealth             `json:"system"`
	Services    map[string]*ServiceHealth `json:"services"`
}

// StoreHealth represents merchant store health status
type StoreHealth struct {
	Status    string `json:"status"`
	Merchants int    `json:"merchants"`
	SizeBytes int64  `json:"size_bytes,omitempty"`
	Error     string `json:"error,omitempty"`
}

// SystemHealth represents system resource health
type SystemHealth struct {
	Alloc      string `json:"alloc"`
	Sys        string `json:"sys"`
	GCRuns     uint32 `json:"gc_runs"`
	GoRoutines int    `json:"goroutines"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status      string `json:"status"`
	Healthy     bool   `json:"healthy"`
	Description string `json:"description,omitempty"`
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(merchants *config.MerchantStore, osClient *opensearch.Client) *HealthHandler {
	return &HealthHandler{
		merchants: merchants,
		osClient:  osClient,
		startTime: time.Now(),
	}
}

// CheckHealth reports store, logging and system health
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	health := &HealthStatus{
		Version:     "1.0.0",
		Timestamp:   time.Now().UTC(),
		Uptime:      time.Since(h.startTime).String(),
		Environment: getEnvironment(),
		Store:       h.checkStoreHealth(),
		System:      checkSystemHealth(),
		Services:    h.checkServicesHealth(),
	}

	health.Status = "healthy"
	statusCode := http.StatusOK
	if health.Store.Status == "unhealthy" {
		health.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	_ = response.WriteJSON(w, statusCode, response.Response{
		Success: health.Status != "unhealthy",
		Message: fmt.Sprintf("Service is %s", health.Status),
		Data:    health,
	})
}

// checkStoreHealth checks merchant store health
func (h *HealthHandler) checkStoreHealth() *StoreHealth {
	storeHealth := &StoreHealth{Status: "unknown"}

	if h.merchants == nil {
		storeHealth.Status = "not_configured"
		storeHealth.Error = "Merchant store not configured"
		return storeHealth
	}

	stats, err := h.merchants.GetStats()
	if err != nil {
		storeHealth.Status = "unhealthy"
		storeHealth.Error = err.Error()
		return storeHealth
	}

	if count, ok := stats["total_merchants"].(int); ok {
		storeHealth.Merchants = count
	}
	if size, ok := stats["db_size_bytes"].(int64); ok {
		storeHealth.SizeBytes = size
	}

	storeHealth.Status = "healthy"
	return storeHealth
}

// checkSystemHealth checks system resource health
func checkSystemHealth() *SystemHealth {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &SystemHealth{
		Alloc:      formatBytes(memStats.Alloc),
		Sys:        formatBytes(memStats.Sys),
		GCRuns:     memStats.NumGC,
		GoRoutines: runtime.NumGoroutine(),
	}
}

// checkServicesHealth checks individual service health
func (h *HealthHandler) checkServicesHealth() map[string]*ServiceHealth {
	services := make(map[string]*ServiceHealth)

	services["opensearch_logger"] = &ServiceHealth{}
	if h.osClient != nil && h.osClient.IsEnabled() {
		services["opensearch_logger"].Status = "healthy"
		services["opensearch_logger"].Healthy = true
		services["opensearch_logger"].Description = "Checkout logging to OpenSearch"
	} else {
		services["opensearch_logger"].Status = "not_configured"
		services["opensearch_logger"].Description = "OpenSearch logging disabled"
	}

	return services
}

func getEnvironment() string {
	if env := config.GetEnv("ENVIRONMENT", ""); env != "" {
		return env
	}
	if env := config.GetEnv("ENV", ""); env != "" {
		return env
	}
	return "development"
}

func formatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
