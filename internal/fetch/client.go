// Package fetch provides the shared outbound HTTP plumbing: a retrying
// fetch client, response body decoding, and an optional browser-fingerprint
// client for pages that gate on TLS fingerprinting.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/time/rate"
)

// Client wraps an http.Client with retry, outbound throttling and an
// optional Browser for fingerprint-sensitive fetches.
type Client struct {
	HTTP    *http.Client
	Browser *Browser // nil = plain client only
	limiter *rate.Limiter
}

// NewClient builds a fetch client with scraping-appropriate transport
// settings. rps bounds outbound calls to the video provider across all
// inbound requests; rps <= 0 disables throttling.
func NewClient(timeout time.Duration, rps float64, browser *Browser) *Client {
	c := &Client{
		HTTP: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 5,
				IdleConnTimeout:     30 * time.Second,
				TLSHandshakeTimeout: 15 * time.Second,
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return errors.New("stopped after 10 redirects")
				}
				return nil
			},
		},
		Browser: browser,
	}
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)+1)
	}
	return c
}

// Wait blocks until the outbound throttle admits another request.
func (c *Client) Wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	return c.limiter.Wait(ctx)
}

// Get performs an HTTP GET with exponential-backoff retry on transient
// failures. Non-retryable statuses fail permanently; 429/5xx are retried.
func (c *Client) Get(ctx context.Context, fetchURL string, headers map[string]string) (*http.Response, error) {
	if err := c.Wait(ctx); err != nil {
		return nil, err
	}

	operation := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
		if err != nil {
			return nil, backoff.Permanent(err)
		}
		req.Header.Set("User-Agent", RandomUserAgent())
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.HTTP.Do(req)
		if err != nil {
			return nil, backoff.Permanent(err)
		}

		if isRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, fmt.Errorf("status %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, backoff.Permanent(fmt.Errorf("status %d", resp.StatusCode))
		}
		return resp, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 5 * time.Second

	return backoff.Retry(ctx, operation, backoff.WithBackOff(bo), backoff.WithMaxTries(3))
}

// isRetryableStatus returns true for HTTP status codes worth retrying.
func isRetryableStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}
