// Package api is the HTTP client for the fintrack REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/Veraticus/fintrack/internal/service"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// Config configures a Client.
type Config struct {
	// Transport is the base round tripper. nil means http.DefaultTransport.
	Transport http.RoundTripper
	BaseURL   string
	Timeout   time.Duration
	CacheTTL  time.Duration
	RateLimit float64
	RateBurst int
}

// Client talks to the fintrack REST API. Authenticated calls get the bearer
// token from the store through an oauth2.Transport.
type Client struct {
	public         *http.Client
	authed         *http.Client
	limiter        *rate.Limiter
	categories     *categoryCache
	onUnauthorized func()
	baseURL        string
	mu             sync.RWMutex
}

var _ service.API = (*Client)(nil)

// New creates a client for cfg.BaseURL.
func New(cfg Config, store service.TokenStore) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("%w: api base url", common.ErrMissingConfig)
	}
	if _, err := url.ParseRequestURI(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("%w: api base url: %w", common.ErrInvalidConfig, err)
	}
	if store == nil {
		return nil, fmt.Errorf("%w: token store", common.ErrMissingConfig)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	cache, err := newCategoryCache(cfg.CacheTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to create category cache: %w", err)
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		public:  &http.Client{Timeout: timeout, Transport: base},
		authed: &http.Client{
			Timeout: timeout,
			Transport: &oauth2.Transport{
				Source: storeTokenSource{store: store},
				Base:   base,
			},
		},
		categories: cache,
	}

	if cfg.RateLimit > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), max(cfg.RateBurst, 1))
	}

	return c, nil
}

// OnUnauthorized registers fn to run whenever an authenticated request is
// answered with 401.
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// Close releases the category cache.
func (c *Client) Close() {
	c.categories.close()
}

func (c *Client) handleUnauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

type request struct {
	body   any
	out    any
	query  url.Values
	method string
	path   string
	auth   bool
}

func (c *Client) do(ctx context.Context, r request) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}
	}

	var reader io.Reader
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	client := c.public
	if r.auth {
		client = c.authed
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, common.ErrNotAuthenticated) {
			return common.ErrNotAuthenticated
		}
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	slog.Debug("api request",
		"request_id", requestID,
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := newError(resp, r.method, r.path, requestID)
		if resp.StatusCode == http.StatusUnauthorized && r.auth {
			slog.Warn("session rejected by API", "request_id", requestID, "path", r.path)
			c.handleUnauthorized()
		}
		return apiErr
	}

	if r.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(r.out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode %s %s response: %w", r.method, r.path, err)
	}
	return nil
}

func idPath(prefix string, id int64) string {
	return fmt.Sprintf("%s/%d", prefix, id)
}
