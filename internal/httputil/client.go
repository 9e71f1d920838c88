// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides a rate-limited, retrying HTTP client shared by
// components that talk to public APIs.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// ClientConfig configures the HTTP client.
type ClientConfig struct {
	// Timeout is the per-request timeout (default 30s).
	Timeout time.Duration

	// RateLimit is the sustained request rate in requests per second
	// (default 3).
	RateLimit float64

	// Burst is the token-bucket burst size (default 3).
	Burst int

	// MaxRetries is the number of retry attempts on 429 and 5xx
	// responses (default 3).
	MaxRetries int

	// RetryDelay is the base delay between retries when the server sends
	// no Retry-After header (default 1s).
	RetryDelay time.Duration

	// UserAgent is set on requests that carry no User-Agent of their own.
	UserAgent string
}

func (c *ClientConfig) applyDefaults() {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.RateLimit == 0 {
		c.RateLimit = 3
	}
	if c.Burst == 0 {
		c.Burst = 3
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = time.Second
	}
	if c.UserAgent == "" {
		c.UserAgent = "pubmed-agent/0.1"
	}
}

// Client wraps http.Client with a token-bucket rate limiter and retries.
// Every request waits for a limiter token before going out, so consecutive
// requests are spaced at least 1/RateLimit apart once the burst is spent.
// Safe for concurrent use.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	cfg     ClientConfig
}

// NewClient creates a rate-limited client.
func NewClient(cfg ClientConfig) *Client {
	cfg.applyDefaults()
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.Burst),
		cfg:     cfg,
	}
}

// SetRate adjusts the sustained request rate, e.g. after learning that an
// API key is in play.
func (c *Client) SetRate(perSecond float64) {
	c.limiter.SetLimit(rate.Limit(perSecond))
}

// Do executes the request, blocking on the rate limiter first. 429 and 5xx
// responses are retried up to MaxRetries times; a Retry-After header
// overrides the configured delay. Cancelling the request context aborts
// both the limiter wait and any retry sleep.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("rate limiter wait: %w", err)
		}

		resp, err := c.http.Do(req.Clone(req.Context()))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			lastErr = fmt.Errorf("request failed: %w", err)
			if attempt < c.cfg.MaxRetries {
				if err := sleepCtx(req.Context(), c.cfg.RetryDelay); err != nil {
					return nil, err
				}
				continue
			}
			return nil, lastErr
		}

		if !retryable(resp.StatusCode) {
			return resp, nil
		}

		delay := retryDelay(resp, c.cfg.RetryDelay)
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if attempt < c.cfg.MaxRetries {
			lastErr = fmt.Errorf("server returned status %d", resp.StatusCode)
			if err := sleepCtx(req.Context(), delay); err != nil {
				return nil, err
			}
			continue
		}
		return nil, fmt.Errorf("max retries exhausted after %d attempts, last status: %d",
			c.cfg.MaxRetries+1, resp.StatusCode)
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("no response received")
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || (status >= 500 && status < 600)
}

// retryDelay honors Retry-After (seconds or HTTP date) when present.
func retryDelay(resp *http.Response, fallback time.Duration) time.Duration {
	ra := resp.Header.Get("Retry-After")
	if ra == "" {
		return fallback
	}
	if secs, err := strconv.ParseInt(ra, 10, 64); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(ra); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return fallback
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
