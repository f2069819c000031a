package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/globaltire/storefront/internal/domain"
	apperrors "github.com/globaltire/storefront/internal/errors"
	"github.com/globaltire/storefront/internal/httpclient"
)

// Config holds the upstream store API connection settings.
type Config struct {
	// BaseURL is the root of the upstream store, e.g. https://shop.example.com.
	BaseURL string

	// CatalogPath is the products endpoint path under BaseURL.
	CatalogPath string

	// OrdersPath is the orders endpoint path under BaseURL.
	OrdersPath string

	// ConsumerKey and ConsumerSecret authenticate against the upstream API.
	// They are appended server-side and must never reach a client.
	ConsumerKey    string
	ConsumerSecret string
}

// RawResult is an upstream response mirrored without interpretation.
type RawResult struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client calls the upstream store REST API, injecting the API credentials
// into every request.
type Client struct {
	http    *httpclient.Client
	breaker *httpclient.CircuitBreakerClient
	cfg     Config
	logger  *slog.Logger
}

// New creates an upstream API client.
func New(httpClient *httpclient.Client, breaker *httpclient.CircuitBreakerClient, cfg Config, logger *slog.Logger) *Client {
	return &Client{
		http:    httpClient,
		breaker: breaker,
		cfg:     cfg,
		logger:  logger,
	}
}

// BuildProductsURL constructs the upstream products URL from forwarded query
// parameters. An "id" parameter selects a single product and becomes a path
// segment instead of a query parameter. API credentials are appended last.
func (c *Client) BuildProductsURL(params url.Values) (string, error) {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	base.Path = strings.TrimRight(base.Path, "/") + c.cfg.CatalogPath

	query := url.Values{}
	for key, values := range params {
		if key == "id" {
			if len(values) > 0 && values[0] != "" {
				base.Path = strings.TrimRight(base.Path, "/") + "/" + url.PathEscape(values[0])
			}
			continue
		}
		for _, v := range values {
			query.Add(key, v)
		}
	}

	query.Set("consumer_key", c.cfg.ConsumerKey)
	query.Set("consumer_secret", c.cfg.ConsumerSecret)
	base.RawQuery = query.Encode()

	return base.String(), nil
}

// FetchRaw retrieves the upstream products endpoint and returns the response
// exactly as received, so callers can mirror status, content type and body.
func (c *Client) FetchRaw(ctx context.Context, params url.Values) (*RawResult, error) {
	target, err := c.BuildProductsURL(params)
	if err != nil {
		return nil, c.redact(err)
	}

	resp, err := c.http.Get(ctx, target)
	if err != nil {
		return nil, c.redact(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.redact(err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/json"
	}

	return &RawResult{
		StatusCode:  resp.StatusCode,
		ContentType: contentType,
		Body:        body,
	}, nil
}

// FetchProducts retrieves and decodes a page of products.
func (c *Client) FetchProducts(ctx context.Context, params url.Values) ([]domain.Product, error) {
	target, err := c.BuildProductsURL(params)
	if err != nil {
		return nil, c.redact(err)
	}

	resp, err := c.breaker.Get(ctx, target)
	if err != nil {
		return nil, apperrors.Upstream("upstream catalog request failed", c.redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Upstream(fmt.Sprintf("upstream catalog returned status %d", resp.StatusCode), nil)
	}

	var products []domain.Product
	if err := json.NewDecoder(resp.Body).Decode(&products); err != nil {
		return nil, apperrors.Upstream("decode upstream catalog response", err)
	}
	return products, nil
}

type upstreamOrder struct {
	ID          int64  `json:"id"`
	Status      string `json:"status"`
	Total       string `json:"total"`
	Currency    string `json:"currency"`
	DateCreated string `json:"date_created"`
	LineItems   []struct {
		Quantity int `json:"quantity"`
	} `json:"line_items"`
}

// ListOrders retrieves the most recent orders for a customer, newest first.
// The customer identifier is forwarded as supplied.
func (c *Client) ListOrders(ctx context.Context, customerID string) ([]domain.OrderSummary, error) {
	base, err := url.Parse(c.cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	base.Path = strings.TrimRight(base.Path, "/") + c.cfg.OrdersPath

	query := url.Values{}
	query.Set("customer", customerID)
	query.Set("per_page", "20")
	query.Set("orderby", "date")
	query.Set("order", "desc")
	query.Set("consumer_key", c.cfg.ConsumerKey)
	query.Set("consumer_secret", c.cfg.ConsumerSecret)
	base.RawQuery = query.Encode()

	resp, err := c.breaker.Get(ctx, base.String())
	if err != nil {
		return nil, apperrors.Upstream("upstream orders request failed", c.redact(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Upstream(fmt.Sprintf("upstream orders returned status %d", resp.StatusCode), nil)
	}

	var raw []upstreamOrder
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, apperrors.Upstream("decode upstream orders response", err)
	}

	orders := make([]domain.OrderSummary, 0, len(raw))
	for _, o := range raw {
		count := 0
		for _, li := range o.LineItems {
			count += li.Quantity
		}
		orders = append(orders, domain.OrderSummary{
			ID:          o.ID,
			Status:      o.Status,
			Total:       o.Total,
			Currency:    o.Currency,
			DateCreated: o.DateCreated,
			ItemCount:   count,
		})
	}
	return orders, nil
}

// Healthy reports whether the upstream base URL is well formed, for readiness checks.
func (c *Client) Healthy(ctx context.Context) error {
	if _, err := url.Parse(c.cfg.BaseURL); err != nil {
		return c.redact(err)
	}
	return nil
}

// redact strips the API credentials out of an error message. Transport errors
// embed the full request URL, which carries the key and secret.
func (c *Client) redact(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if c.cfg.ConsumerKey != "" {
		msg = strings.ReplaceAll(msg, c.cfg.ConsumerKey, "[redacted]")
	}
	if c.cfg.ConsumerSecret != "" {
		msg = strings.ReplaceAll(msg, c.cfg.ConsumerSecret, "[redacted]")
	}
	return fmt.Errorf("%s", msg)
}
