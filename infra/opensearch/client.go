package opensearch

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mstgnz/monetico/infra/config"
	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
)

const logIndexName = "monetico-checkout-logs"

// Client wraps the OpenSearch client
type Client struct {
	client *opensearch.Client
	config *config.AppConfig
}

// NewClient creates a new OpenSearch client
func NewClient(cfg *config.AppConfig) (*Client, error) {
	opensearchConfig := opensearch.Config{
		Addresses: []string{cfg.OpenSearchURL},
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: true, // For development/testing
			},
		},
		MaxRetries:    3,
		RetryOnStatus: []int{502, 503, 504, 429},
		RetryBackoff: func(i int) time.Duration {
			return time.Duration(i) * 100 * time.Millisecond
		},
	}

	if cfg.OpenSearchUser != "" && cfg.OpenSearchPass != "" {
		opensearchConfig.Username = cfg.OpenSearchUser
		opensearchConfig.Password = cfg.OpenSearchPass
	}

	client, err := opensearch.NewClient(opensearchConfig)
	if err != nil {
		return nil, err
	}

	osClient := &Client{
		client: client,
		config: cfg,
	}

	if osClient.IsEnabled() {
		if err := osClient.setupIndex(); err != nil {
			log.Printf("Warning: Failed to setup OpenSearch index: %v", err)
		}
	}

	return osClient, nil
}

// GetClient returns the underlying OpenSearch client
func (c *Client) GetClient() *opensearch.Client {
	return c.client
}

// IsEnabled reports whether log shipping is turned on
func (c *Client) IsEnabled() bool {
	return c.config != nil && c.config.EnableLogging
}

// GetLogIndexName returns the index checkout logs are written to
func (c *Client) GetLogIndexName() string {
	return logIndexName
}

// setupIndex creates the checkout log index if it does not exist
func (c *Client) setupIndex() error {
	exists, err := c.indexExists(logIndexName)
	if err != nil {
		return err
	}

	if !exists {
		if err := c.createLogIndex(logIndexName); err != nil {
			return err
		}
		log.Printf("Created OpenSearch index: %s", logIndexName)
	}

	return nil
}

// indexExists checks if an index exists
func (c *Client) indexExists(indexName string) (bool, error) {
	req := opensearchapi.IndicesExistsRequest{
		Index: []string{indexName},
	}

	res, err := req.Do(context.Background(), c.client)
	if err != nil {
		return false, err
	}
	defer res.Body.Close()

	return res.StatusCode == 200, nil
}

// createLogIndex creates a new index for checkout logs with proper mapping
func (c *Client) createLogIndex(indexName string) error {
	mapping := `{
		"mappings": {
			"properties": {
				"timestamp": {
					"type": "date",
					"format": "strict_date_optional_time||epoch_millis"
				},
				"merchant_id": { "type": "keyword" },
				"request_id": { "type": "keyword" },
				"reference": { "type": "keyword" },
				"amount": { "type": "keyword" },
				"currency": { "type": "keyword" },
				"test_mode": { "type": "boolean" },
				"status_code": { "type": "integer" },
				"processing_ms": { "type": "long" },
				"client_ip": { "type": "ip" },
				"error": { "type": "text" }
			}
		}
	}`

	req := opensearchapi.IndicesCreateRequest{
		Index: indexName,
		Body:  strings.NewReader(mapping),
	}

	res, err := req.Do(context.Background(), c.client)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to create index %s: %s", indexName, res.Status())
	}

	return nil
}
