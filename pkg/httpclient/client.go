package httpclient

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/seanmeissimilly/alinfo/pkg/logging"
	"github.com/seanmeissimilly/alinfo/pkg/util"
)

// Client sends requests to one resource family of the portal API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger sets the logger used for per-request debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.log = logging.Component(logger, "httpclient")
	}
}

// New creates a client for the family mounted at basePath on backendURL.
// For example New("http://localhost:8000", "/applications/app").
func New(backendURL, basePath string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(backendURL, "/") + "/" + strings.Trim(basePath, "/"),
		httpClient: &http.Client{},
		log:        logging.Component(nil, "httpclient"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the family's base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send performs one request against path, relative to the family base URL,
// and returns the response body of a 2xx answer. The token is attached as a
// bearer credential on every call and is never inspected. body may be nil.
func (c *Client) Send(ctx context.Context, method, path string, body Body, token string) ([]byte, error) {
	fullURL := c.baseURL + "/" + strings.TrimLeft(path, "/")

	contentType := ContentTypeJSON
	var reader io.Reader
	if body != nil {
		r, ct, err := body.encode()
		if err != nil {
			return nil, err
		}
		reader, contentType = r, ct
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", ContentTypeJSON)
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "url", fullURL, "error", err)
		return nil, &TransportError{Method: method, URL: fullURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: fullURL, Err: err}
	}

	c.log.Debug("request settled",
		"method", method,
		"url", fullURL,
		"status", resp.StatusCode,
		"bytes", len(data),
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug("request rejected", "url", fullURL, "status", resp.StatusCode, "body", util.TruncateBody(data, 0))
		return nil, parseAPIError(resp.StatusCode, data)
	}
	return data, nil
}

// ItemPath returns the relative path of one entity, "/{id}/".
func ItemPath(id int) string {
	return fmt.Sprintf("/%d/", id)
}
