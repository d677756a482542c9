// Package fetch is the transport layer: it delivers raw page markup and the
// raw draws API payload to the pipeline. Failures here are all-or-nothing;
// no partial results are returned and no retrying happens at this level.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrSchema marks an API payload that is not a non-empty JSON array. No
// history can be built from such a response, so callers treat it as fatal.
var ErrSchema = errors.New("unexpected api payload: expected a non-empty array")

const defaultUserAgent = "Mozilla/5.0 (compatible; EuroMillionsFetcher/1.0)"

// Client fetches from both upstream sources.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Option configures Client behavior.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithUserAgent overrides the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a Client with a 30 second default timeout.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		userAgent:  defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Markup fetches a page and returns its raw markup.
func (c *Client) Markup(ctx context.Context, url string) (string, error) {
	body, err := c.get(ctx, url, "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Draws fetches the draws API payload as a sequence of loosely-typed
// records. An empty array, or anything that is not an array, is ErrSchema.
func (c *Client) Draws(ctx context.Context, url string) ([]map[string]any, error) {
	body, err := c.get(ctx, url, "application/json")
	if err != nil {
		return nil, err
	}
	var records []map[string]any
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	if len(records) == 0 {
		return nil, ErrSchema
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, url, accept string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned non-OK status: %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", url, err)
	}
	return body, nil
}
