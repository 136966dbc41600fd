// Package httpds implements an HTTP datasource with built-in retry/backoff.
// It is used by the pipeline to download the raw dataset when the source kind
// is "http" instead of a local file.
//
// Design goals:
//
//   - Keep a tiny, explicit API (Get plus the datasource.Source adapter).
//   - Handle transient failures with exponential backoff.
//   - Respect context cancellation during requests and backoff waits.
//   - Be easy to test by injecting a custom RoundTripper and sleep function.
package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config configures the HTTP datasource client.
//
// Zero values are given sensible defaults:
//   - Timeout:        30s
//   - MaxRetries:     3
//   - InitialBackoff: 200ms
//   - MaxBackoff:     5s
type Config struct {
	// Timeout is the per-request timeout applied at the http.Client level.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts after the initial request.
	// MaxRetries=0 means only the initial attempt.
	MaxRetries int

	// InitialBackoff is the base backoff for the first retry. Each
	// subsequent retry doubles the previous backoff up to MaxBackoff.
	InitialBackoff time.Duration

	// MaxBackoff caps the exponential backoff duration.
	MaxBackoff time.Duration

	// Transport is an optional custom RoundTripper, mainly for tests.
	Transport http.RoundTripper
}

// Client wraps an http.Client with retry and backoff behavior.
type Client struct {
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration

	// sleep is injectable to make tests fast and deterministic.
	sleep func(time.Duration)
}

// NewClient constructs a Client from cfg, applying defaults for zero values.
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.InitialBackoff == 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff == 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout, Transport: cfg.Transport},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		sleep:          time.Sleep,
	}
}

// Get issues a GET request with retries on transport errors and 5xx/429
// responses. The caller owns the response body on success.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	backoff := c.initialBackoff
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
			c.sleep(backoff)
			backoff *= 2
			if backoff > c.maxBackoff {
				backoff = c.maxBackoff
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			lastErr = fmt.Errorf("GET %s: %s", url, resp.Status)
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			continue
		}
		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
		}
		return resp, nil
	}

	return nil, fmt.Errorf("GET %s: retries exhausted: %w", url, lastErr)
}

// Remote adapts Client to datasource.Source for a fixed URL.
type Remote struct {
	client *Client
	url    string
}

// NewRemote returns a Remote source that downloads url on Open.
func NewRemote(cfg Config, url string) *Remote {
	return &Remote{client: NewClient(cfg), url: url}
}

// Open performs the download and returns the response body.
func (r *Remote) Open(ctx context.Context) (io.ReadCloser, error) {
	resp, err := r.client.Get(ctx, r.url)
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
