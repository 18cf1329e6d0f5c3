package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

// CheckoutLog represents one sealed checkout request served by the gateway.
// The security key and full field map are never logged.
type CheckoutLog struct {
	Timestamp    time.Time `json:"timestamp"`
	MerchantID   string    `json:"merchant_id,omitempty"`
	RequestID    string    `json:"request_id"`
	Reference    string    `json:"reference,omitempty"`
	Amount       string    `json:"amount,omitempty"`
	Currency     string    `json:"currency,omitempty"`
	TestMode     bool      `json:"test_mode"`
	StatusCode   int       `json:"status_code"`
	ProcessingMs int64     `json:"processing_ms"`
	ClientIP     string    `json:"client_ip,omitempty"`
	UserAgent    string    `json:"user_agent,omitempty"`
	Error        string    `json:"error,omitempty"`
}

// Logger handles OpenSearch logging operations
type Logger struct {
	client *Client
}

// NewLogger creates a new OpenSearch logger
func NewLogger(client *Client) *Logger {
	return &Logger{
		client: client,
	}
}

// LogCheckout ships a checkout log entry to OpenSearch
func (l *Logger) LogCheckout(ctx context.Context, entry CheckoutLog) error {
	if !l.client.IsEnabled() {
		return nil // Logging disabled
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}

	if entry.RequestID == "" {
		entry.RequestID = uuid.New().String()
	}

	logJSON, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal log: %w", err)
	}

	req := opensearchapi.IndexRequest{
		Index: l.client.GetLogIndexName(),
		Body:  bytes.NewReader(logJSON),
	}

	res, err := req.Do(ctx, l.client.GetClient())
	if err != nil {
		return fmt.Errorf("failed to index log: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("opensearch error: %s", res.String())
	}

	return nil
}
