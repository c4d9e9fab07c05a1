package source

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
)

// DefaultURL is the published global land-surface temperature document.
const DefaultURL = "https://raw.githubusercontent.com/freeCodeCamp/ProjectReferenceData/master/global-temperature.json"

const (
	// maxBodyBytes bounds the document size; the published file is about 300 KiB.
	maxBodyBytes = 16 << 20
	// errorExcerptBytes bounds the response body quoted in fetch errors.
	errorExcerptBytes = 256
)

// Client fetches the source document over HTTP. Each call makes exactly one
// request; failures are reported, never retried.
type Client struct {
	url        string
	policy     domain.RecordPolicy
	maxBytes   int64
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an HTTP document loader.
func NewClient(url string, timeout time.Duration, policy domain.RecordPolicy, logger *slog.Logger) *Client {
	return &Client{
		url:      url,
		policy:   policy,
		maxBytes: maxBodyBytes,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Fetch downloads the raw document body.
func (c *Client) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", domain.ErrFetch, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: get %s: %w", domain.ErrFetch, c.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, errorExcerptBytes))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrFetch, resp.StatusCode, body)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", domain.ErrFetch, err)
	}
	if int64(len(data)) > c.maxBytes {
		return nil, fmt.Errorf("%w: document exceeds %d bytes", domain.ErrFetch, c.maxBytes)
	}

	c.logger.Debug("source document fetched", "url", c.url, "bytes", len(data))
	return data, nil
}

// Load fetches and parses the document.
func (c *Client) Load(ctx context.Context) (domain.Document, error) {
	data, err := c.Fetch(ctx)
	if err != nil {
		return domain.Document{}, err
	}
	return parse(data, c.policy, c.url, c.logger)
}

// String returns the source URL.
func (c *Client) String() string {
	return c.url
}
