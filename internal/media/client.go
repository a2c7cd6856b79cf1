package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout = 30 * time.Second

	// The host's Admin API has an hourly request budget; one request per
	// second with a small burst keeps a busy admin screen well under it.
	defaultRPS   = 1.0
	defaultBurst = 5
)

// Config holds media host connection settings.
type Config struct {
	BaseURL   string // e.g. https://api.cloudinary.com
	CloudName string
	APIKey    string
	APISecret string
}

// Client is a rate-limited, read-only client for the media host's Admin API.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger

	baseURL   string
	cloudName string
	apiKey    string
	apiSecret string
}

// New creates a new media host client.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:   rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
		logger:    logger,
		baseURL:   cfg.BaseURL,
		cloudName: cfg.CloudName,
		apiKey:    cfg.APIKey,
		apiSecret: cfg.APISecret,
	}
}

// Close releases resources. Currently a no-op but included for interface consistency.
func (c *Client) Close() {
	// No persistent resources to close
}

// doRequest executes a GET against the Admin API with rate limiting and basic auth.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	requestURL := c.baseURL + "/v1_1/" + c.cloudName + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.SetBasicAuth(c.apiKey, c.apiSecret)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("media host request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrUnauthorized
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}
}
