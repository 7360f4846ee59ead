package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/krale/krale-storefront/internal/app/model"
)

const defaultTimeout = 10 * time.Second

// Client talks to the commerce backend's storefront query endpoint.
// It performs one network round trip per call and does no caching.
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new storefront client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		config:     config,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// FetchCatalog returns the first pageSize products of the catalog in
// backend order.
func (c *Client) FetchCatalog(ctx context.Context, pageSize int) ([]model.Product, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("%w: page size must be positive", ErrFetch)
	}

	data, err := c.doQuery(ctx, catalogQuery, map[string]interface{}{"first": pageSize})
	if err != nil {
		return nil, err
	}
	if data.Products == nil {
		return nil, fmt.Errorf("%w: response missing products connection", ErrFetch)
	}

	products := make([]model.Product, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		p, err := edge.Node.toModel()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetch, err)
		}
		products = append(products, p)
	}
	return products, nil
}

// FetchProductByHandle returns the product for a handle. A valid
// response carrying no product yields (nil, nil): not found is a
// successful outcome, distinct from ErrFetch.
func (c *Client) FetchProductByHandle(ctx context.Context, handle string) (*model.Product, error) {
	if handle == "" {
		return nil, fmt.Errorf("%w: handle must not be empty", ErrFetch)
	}

	data, err := c.doQuery(ctx, productByHandleQuery, map[string]interface{}{"handle": handle})
	if err != nil {
		return nil, err
	}
	if data.ProductByHandle == nil {
		return nil, nil
	}

	p, err := data.ProductByHandle.toModel()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	return &p, nil
}

// doQuery performs one storefront query round trip
func (c *Client) doQuery(ctx context.Context, query string, variables map[string]interface{}) (*responseData, error) {
	reqBody, err := json.Marshal(graphQLRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrFetch, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.Endpoint, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetch, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.config.AccessToken != "" {
		req.Header.Set("X-Storefront-Access-Token", c.config.AccessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrFetch, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrFetch, resp.StatusCode, truncate(body, 200))
	}

	var parsed graphQLResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal response: %v", ErrFetch, err)
	}
	if len(parsed.Errors) > 0 {
		return nil, fmt.Errorf("%w: backend error: %s", ErrFetch, parsed.Errors[0].Message)
	}
	if parsed.Data == nil {
		return nil, fmt.Errorf("%w: response carries no data", ErrFetch)
	}

	return parsed.Data, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
