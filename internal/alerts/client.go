// Package alerts talks to the alerts.in.ua IoT status endpoint and turns its
// positional status string into per-region alert types.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"air-alert-monitor/internal/models"
	"air-alert-monitor/internal/regions"
)

const (
	userAgent = "AirAlertMonitor/1.0"

	// backoffCap bounds the wait between retry attempts.
	backoffCap = 30 * time.Second
)

// Client fetches the raw status string from the provider.
type Client struct {
	url        string
	token      string
	httpClient *http.Client

	maxRetries int
	// retryAuthErrors keeps the upstream behavior of treating 401/403 like
	// transient errors. Set false to fail the cycle fast on bad credentials.
	retryAuthErrors bool

	// backoffBase is the first retry delay; doubled per attempt up to
	// backoffCap. Shortened in tests.
	backoffBase time.Duration
}

// NewClient creates a provider client with a bounded request timeout.
func NewClient(url, token string, timeout time.Duration, maxRetries int, retryAuthErrors bool) *Client {
	return &Client{
		url:             url,
		token:           token,
		httpClient:      &http.Client{Timeout: timeout},
		maxRetries:      maxRetries,
		retryAuthErrors: retryAuthErrors,
		backoffBase:     time.Second,
	}
}

// Fetch performs one GET against the provider and returns the raw body.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransientError{Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", &AuthError{StatusCode: resp.StatusCode}
	case resp.StatusCode != http.StatusOK:
		return "", &TransientError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransientError{Err: fmt.Errorf("read body: %w", err)}
	}
	return string(body), nil
}

// Parse decodes the positional status string. Character i corresponds to the
// region with the i-th smallest UID: 'A' (active) and 'P' (partial) mean
// alert, anything else means clear. A string shorter than the region count
// leaves the trailing regions clear; extra characters are ignored. A blank
// string is an error, not an all-clear.
func Parse(raw string) (map[string]models.AlertType, error) {
	statuses := strings.TrimSpace(raw)
	if statuses == "" {
		return nil, ErrEmptyResponse
	}

	result := make(map[string]models.AlertType, regions.Count())
	for i, uid := range regions.SortedUIDs() {
		name := regions.UIDMap[uid]
		if i >= len(statuses) {
			result[name] = models.AlertInactive
			continue
		}
		switch statuses[i] {
		case 'A', 'a':
			result[name] = models.AlertActive
		case 'P', 'p':
			result[name] = models.AlertPartial
		default:
			result[name] = models.AlertInactive
		}
	}
	return result, nil
}

// FetchStatuses runs Fetch+Parse under the retry budget with exponential
// backoff. It returns the parsed map on first success and an error only after
// the budget is exhausted, so the caller can treat failure as "no data this
// cycle" rather than a crash.
func (c *Client) FetchStatuses(ctx context.Context) (map[string]models.AlertType, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		raw, err := c.Fetch(ctx)
		if err == nil {
			var parsed map[string]models.AlertType
			if parsed, err = Parse(raw); err == nil {
				return parsed, nil
			}
		}
		lastErr = err

		var authErr *AuthError
		if errors.As(err, &authErr) && !c.retryAuthErrors {
			log.Printf("[alerts] auth error, not retrying: %v", err)
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		log.Printf("[alerts] attempt %d/%d failed: %v", attempt+1, c.maxRetries, err)
		if attempt < c.maxRetries-1 {
			wait := c.backoffBase << uint(attempt)
			if wait > backoffCap {
				wait = backoffCap
			}
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}
	}

	return nil, fmt.Errorf("fetch statuses after %d attempts: %w", c.maxRetries, lastErr)
}
