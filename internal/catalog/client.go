// Package catalog resolves product identifiers to full catalog records.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/verato-labs/concierge/internal/domain"
)

// ErrNotFound indicates the catalog has no record for the requested id.
var ErrNotFound = errors.New("product not found")

// Client fetches product records from the commerce backend.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a catalog client for the given backend base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Fetch retrieves one product record by id.
func (c *Client) Fetch(ctx context.Context, id int) (*domain.Product, error) {
	url := fmt.Sprintf("%s/api/products/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build product request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch product %d: %w", id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch product %d: unexpected status %d", id, resp.StatusCode)
	}

	var product domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("decode product %d: %w", id, err)
	}
	return &product, nil
}
