// Package api is a typed client for the blog backend's HTTP/JSON interface.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/debemdeboas/blogfront/internal/config"
	"github.com/rs/zerolog"
)

const (
	DefaultTimeout = 10 * time.Second

	// maxBodyBytes bounds how much of a response is read.
	maxBodyBytes = 4 << 20
)

var apiLogger = zerolog.Nop()

func SetLogger(l zerolog.Logger) {
	apiLogger = l
}

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout bounds every backend call, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// ImageURL resolves an image path from a post against the backend base URL.
func (c *Client) ImageURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// call describes a single backend request.
type call struct {
	method string
	path   string
	token  string
	// authed requests fail with ErrNoToken when token is empty.
	authed bool
	body   any
	// fallback is the user facing message when the backend gives none.
	fallback string
}

func (c *Client) do(ctx context.Context, req call, out any) error {
	if req.authed && req.token == "" {
		return ErrNoToken
	}

	var body io.Reader
	if req.body != nil {
		buf, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", req.method, req.path, err)
		}
		body = bytes.NewReader(buf)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.baseURL+req.path, body)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	httpReq.Header.Set(config.HAccept, config.CTypeJSON)
	if req.body != nil {
		httpReq.Header.Set(config.HCType, config.CTypeJSON)
	}
	if req.authed {
		httpReq.Header.Set(config.HAuthorization, config.BearerPrefix+req.token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		apiLogger.Warn().Err(err).Str("method", req.method).Str("path", req.path).Msg("Backend request failed")
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", req.method, req.path, err)
	}

	apiLogger.Debug().
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("Backend request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newError(resp.StatusCode, raw, req.fallback)
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", req.method, req.path, err)
	}
	return nil
}
