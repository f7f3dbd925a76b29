package api

// API CLIENT

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"chapkhane/internal/pricing"
	"chapkhane/internal/shop"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// Error is a non-2xx response from the storefront API.
type Error struct {
	StatusCode int
	Code       string `json:"error"`
	Field      string `json:"field"`
	Message    string `json:"message"`
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("api: status %d", e.StatusCode)
	if e.Code != "" {
		msg += ": " + e.Code
	}
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// NewClient talks to the API at baseURL. token is sent as a bearer token when
// not empty.
func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

func (c *Client) GetCatalog(ctx context.Context) (*pricing.Catalog, error) {
	var catalog pricing.Catalog
	if err := c.do(ctx, http.MethodGet, "/api/catalog", nil, http.StatusOK, &catalog); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (c *Client) Quote(ctx context.Context, spec pricing.OrderSpec) (*pricing.Quote, error) {
	var quote pricing.Quote
	if err := c.do(ctx, http.MethodPost, "/api/quote", spec, http.StatusOK, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

func (c *Client) CreateOrder(ctx context.Context, req shop.OrderRequest) (*shop.Order, error) {
	var order shop.Order
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, http.StatusCreated, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (*shop.Order, error) {
	var order shop.Order
	if err := c.do(ctx, http.MethodGet, "/api/orders/"+id.String(), nil, http.StatusOK, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) do(ctx context.Context, method, path string, in interface{}, want int, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		apiErr := &Error{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil {
			c.logger.Debug("Undecodable error body",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode))
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
