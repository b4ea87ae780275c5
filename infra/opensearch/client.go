package opensearch

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/furkanczay/better-pay/infra/config"
)

const indexPrefix = "better-pay"

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

	if err := osClient.setupIndices(); err != nil {
		log.Printf("Warning: Failed to setup OpenSearch indices: %v", err)
	}

	return osClient, nil
}

// GetClient returns the underlying OpenSearch client
func (c *Client) GetClient() *opensearch.Client {
	return c.client
}

// setupIndices creates the payment log indices for the supported providers
func (c *Client) setupIndices() error {
	providers := []string{"iyzico", "paytr", "akbank"}

	for _, provider := range providers {
		indexName := c.GetLogIndexName(provider)

		exists, err := c.indexExists(indexName)
		if err != nil {
			log.Printf("Error checking index %s: %v", indexName, err)
			continue
		}

		if !exists {
			if err := c.createLogIndex(indexName); err != nil {
				log.Printf("Error creating index %s: %v", indexName, err)
				continue
			}
			log.Printf("Created OpenSearch index: %s", indexName)
		}
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

// createLogIndex creates a payment log index with field mappings
func (c *Client) createLogIndex(indexName string) error {
	mapping := `{
		"mappings": {
			"properties": {
				"timestamp": { "type": "date" },
				"provider": { "type": "keyword" },
				"method": { "type": "keyword" },
				"endpoint": { "type": "keyword" },
				"request_id": { "type": "keyword" },
				"client_ip": { "type": "ip", "ignore_malformed": true },
				"request": {
					"properties": {
						"body": { "type": "text" }
					}
				},
				"response": {
					"properties": {
						"status_code": { "type": "integer" },
						"body": { "type": "text" },
						"processing_time_ms": { "type": "long" }
					}
				},
				"payment_info": {
					"properties": {
						"payment_id": { "type": "keyword" },
						"amount": { "type": "keyword" },
						"currency": { "type": "keyword" },
						"status": { "type": "keyword" }
					}
				},
				"error": {
					"properties": {
						"code": { "type": "keyword" },
						"message": { "type": "text" }
					}
				}
			}
		},
		"settings": {
			"number_of_shards": 1,
			"number_of_replicas": 0
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

	return nil
}

// GetLogIndexName returns the index name for a provider's payment logs
func (c *Client) GetLogIndexName(provider string) string {
	return indexPrefix + "-" + provider + "-logs"
}

// GetSystemIndexName returns the index name for system logs
func (c *Client) GetSystemIndexName() string {
	return indexPrefix + "-system-logs"
}

// IsEnabled reports whether OpenSearch logging is turned on
func (c *Client) IsEnabled() bool {
	return c.config.EnableLogging
}
