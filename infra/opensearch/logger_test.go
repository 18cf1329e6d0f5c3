package opensearch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mstgnz/monetico/infra/config"
)

func newDisabledClient(t *testing.T) *Client {
	t.Helper()

	cfg := &config.AppConfig{
		OpenSearchURL: "http://localhost:9200",
		EnableLogging: false,
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)
	require.NotNil(t, client)
	return client
}

func TestNewLogger(t *testing.T) {
	client := newDisabledClient(t)

	logger := NewLogger(client)
	assert.NotNil(t, logger)
	assert.Equal(t, client, logger.client)
}

func TestClient_GetLogIndexName(t *testing.T) {
	client := newDisabledClient(t)
	assert.Equal(t, "monetico-checkout-logs", client.GetLogIndexName())
}

func TestClient_IsEnabled(t *testing.T) {
	client := newDisabledClient(t)
	assert.False(t, client.IsEnabled())

	enabled, err := NewClient(&config.AppConfig{
		OpenSearchURL: "http://localhost:9200",
		EnableLogging: true,
	})
	require.NoError(t, err)
	assert.True(t, enabled.IsEnabled())
}

func TestLogger_LogCheckout_Disabled(t *testing.T) {
	logger := NewLogger(newDisabledClient(t))

	// Shipping is a no-op while logging is disabled
	err := logger.LogCheckout(context.Background(), CheckoutLog{
		Timestamp:    time.Now(),
		MerchantID:   "shop-1",
		RequestID:    "test-request-123",
		Reference:    "ABCDEF123",
		Amount:       "42.42EUR",
		Currency:     "EUR",
		TestMode:     true,
		StatusCode:   200,
		ProcessingMs: 12,
	})
	assert.NoError(t, err)
}

func TestLogger_LogCheckout_Live(t *testing.T) {
	cfg := &config.AppConfig{
		OpenSearchURL: config.GetEnv("OPENSEARCH_URL", ""),
		EnableLogging: true,
	}
	if cfg.OpenSearchURL == "" {
		t.Skip("OPENSEARCH_URL not set, skipping live test")
	}

	client, err := NewClient(cfg)
	require.NoError(t, err)

	logger := NewLogger(client)
	err = logger.LogCheckout(context.Background(), CheckoutLog{
		MerchantID: "shop-1",
		Reference:  "ABCDEF123",
		StatusCode: 200,
	})
	if err != nil {
		t.Skipf("Skipping due to OpenSearch connection error: %v", err)
	}
}
