// Package repository holds clients for the platform backend this service is a
// thin front over.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"catalog-import-service/models"
)

// ProductCreator abstracts the backend's product-create endpoint so the import
// pipeline can be exercised against a fake in tests.
type ProductCreator interface {
	Create(ctx context.Context, record models.Record) (*models.Product, error)
}

// ProductAPIClient submits product records to the platform backend over HTTP.
type ProductAPIClient struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewProductAPIClient(baseURL, token string, timeout time.Duration) *ProductAPIClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ProductAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		client:  &http.Client{Timeout: timeout},
	}
}

// Create POSTs one record to the backend. On a non-2xx response the backend's
// error message is returned verbatim so the executor can attribute it to the
// failing row.
func (c *ProductAPIClient) Create(ctx context.Context, record models.Record) (*models.Product, error) {
	body, err := json.Marshal(record)
	if err != nil {
		return nil, fmt.Errorf("failed to encode product record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/products/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil {
			if apiErr.Error != "" {
				return nil, fmt.Errorf("%s", apiErr.Error)
			}
			if apiErr.Message != "" {
				return nil, fmt.Errorf("%s", apiErr.Message)
			}
		}
		return nil, fmt.Errorf("product service returned %d", resp.StatusCode)
	}

	var product models.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("failed to decode created product: %w", err)
	}
	return &product, nil
}
