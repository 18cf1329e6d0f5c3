package middle

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mstgnz/monetico/infra/opensearch"
)

// responseWriter wraps http.ResponseWriter to capture response data
type responseWriter struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
	startTime  time.Time
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		body:           &bytes.Buffer{},
		statusCode:     http.StatusOK,
		startTime:      time.Now(),
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// CheckoutLoggingMiddleware creates a middleware for logging checkout requests
func CheckoutLoggingMiddleware(osLogger *opensearch.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip logging for non-checkout endpoints
			if !isCheckoutEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			// Generate request ID
			requestID := uuid.New().String()
			r.Header.Set("X-Request-ID", requestID)

			merchantID := extractMerchantFromURL(r.URL.Path)

			// Create response writer wrapper
			rw := newResponseWriter(w)

			// Process request
			next.ServeHTTP(rw, r)

			entry := opensearch.CheckoutLog{
				Timestamp:    rw.startTime,
				MerchantID:   merchantID,
				RequestID:    requestID,
				StatusCode:   rw.statusCode,
				ProcessingMs: time.Since(rw.startTime).Milliseconds(),
				ClientIP:     GetClientIP(r),
				UserAgent:    r.UserAgent(),
			}

			// Extract checkout details from the response body. The sealed field
			// map itself is never shipped, only reference and amount metadata.
			if rw.body.Len() > 0 {
				fillCheckoutDetails(&entry, rw.body.Bytes(), rw.statusCode)
			}

			// Ship asynchronously to avoid blocking the response
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()

				_ = osLogger.LogCheckout(ctx, entry)
			}()
		})
	}
}

// isCheckoutEndpoint checks if the URL path is a checkout-related endpoint
func isCheckoutEndpoint(path string) bool {
	return strings.HasPrefix(path, "/v1/checkout")
}

// extractMerchantFromURL extracts the merchant identifier from the URL path.
// URL pattern: /v1/checkout/{merchant}
func extractMerchantFromURL(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")

	if len(segments) >= 3 && segments[1] == "checkout" {
		return segments[2]
	}

	return ""
}

// fillCheckoutDetails extracts reference and amount metadata from the
// checkout response body
func fillCheckoutDetails(entry *opensearch.CheckoutLog, body []byte, statusCode int) {
	var responseData map[string]any
	if err := json.Unmarshal(body, &responseData); err != nil {
		return
	}

	if data, ok := responseData["data"].(map[string]any); ok {
		if testMode, ok := data["test_mode"].(bool); ok {
			entry.TestMode = testMode
		}
		if fields, ok := data["fields"].(map[string]any); ok {
			if reference, ok := fields["reference"].(string); ok {
				entry.Reference = reference
			}
			if amount, ok := fields["montant"].(string); ok {
				entry.Amount = amount
				entry.Currency = trimAmountDigits(amount)
			}
		}
	}

	if statusCode >= 400 {
		if errMsg, ok := responseData["message"].(string); ok {
			entry.Error = errMsg
		}
	}
}

// trimAmountDigits strips the numeric part of a formatted amount, leaving
// the trailing currency code
func trimAmountDigits(amount string) string {
	i := len(amount)
	for i > 0 {
		c := amount[i-1]
		if c >= 'A' && c <= 'Z' {
			i--
			continue
		}
		break
	}
	return amount[i:]
}

// GetClientIP extracts the real client IP from the request, honoring
// proxy headers when present
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return host
}
