// Package capsule is a client for the Capsule CRM v2 REST API.
//
// Every method performs exactly one HTTP request and returns the response
// body unchanged, so callers see CRM-native field names (party, kase,
// opportunity...). Failures are normalized into *Error.
package capsule

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultBaseURL is the production API endpoint.
const DefaultBaseURL = "https://api.capsulecrm.com/api/v2"

// ErrMissingToken is returned by NewClient for an empty token.
var ErrMissingToken = errors.New("API token is required")

// Config holds configuration for a Client.
type Config struct {
	APIToken  string        `yaml:"api_token" env:"CAPSULE_API_TOKEN"`
	BaseURL   string        `yaml:"base_url" env:"CAPSULE_BASE_URL"`
	Timeout   time.Duration `yaml:"timeout" env:"CAPSULE_TIMEOUT"`
	UserAgent string        `yaml:"user_agent"`

	HTTPClient *http.Client `yaml:"-"`
	Logger     *slog.Logger `yaml:"-"`
}

// Client talks to a single Capsule account. It is safe for concurrent use.
type Client struct {
	baseURL   string
	token     string
	userAgent string
	http      *http.Client
	logger    *slog.Logger
}

// NewClient creates a client authenticated with cfg.APIToken.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIToken) == "" {
		return nil, ErrMissingToken
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		token:     cfg.APIToken,
		userAgent: cfg.UserAgent,
		http:      cfg.HTTPClient,
		logger:    cfg.Logger,
	}, nil
}

func (c *Client) get(ctx context.Context, path string, opts Options) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, opts, nil)
}

func (c *Client) post(ctx context.Context, path string, opts Options, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, opts, body)
}

func (c *Client) put(ctx context.Context, path string, opts Options, body any) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, opts, body)
}

func (c *Client) delete(ctx context.Context, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, Options{}, nil)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, opts Options, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, requestError(fmt.Errorf("marshal body: %w", err))
		}
		reader = bytes.NewReader(data)
	}

	url := c.baseURL + path
	if q := opts.Values().Encode(); q != "" {
		url += "?" + q
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, requestError(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.logger.Debug("capsule request", "method", method, "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("capsule request failed", "method", method, "path", path, "error", err)
		return nil, networkError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := httpError(resp.StatusCode, data)
		c.logger.Warn("capsule API error", "method", method, "path", path, "status", resp.StatusCode, "error", apiErr.Message)
		return nil, apiErr
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	return json.RawMessage(data), nil
}

func envelope(key string, v any) map[string]any {
	return map[string]any{key: v}
}
