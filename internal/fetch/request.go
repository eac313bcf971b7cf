package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rickgao/pricedata/internal/backoff"
	"github.com/rickgao/pricedata/internal/metrics"
)

// providerResponse is a fully buffered upstream response.
type providerResponse struct {
	status      int
	header      http.Header
	contentType string
	body        []byte
}

func (r *providerResponse) noContent() bool {
	return r.status == http.StatusNoContent
}

// getJSON performs a GET with retry. Transient conditions (connection
// failures, timeouts, 429/408/5xx) are retried up to the budget with a
// backoff wait that honors Retry-After; the last transient error surfaces on
// exhaustion. Auth and validation failures surface immediately.
func (c *client) getJSON(ctx context.Context, url string, decorate func(*http.Request)) (*providerResponse, error) {
	for attempt := 1; ; attempt++ {
		resp, err := c.doRequest(ctx, url, decorate)
		if err == nil {
			return resp, nil
		}

		var transient *TransientError
		if !errors.As(err, &transient) {
			return nil, err
		}
		if attempt >= c.maxRetries {
			return nil, fmt.Errorf("retries exhausted after %d attempts: %w", attempt, err)
		}

		metrics.FetchRetries.WithLabelValues(c.provider).Inc()
		delay := backoff.RetryDelay(transient.Header, time.Now(), attempt, c.maxBackoff)
		c.logger.Warn("transient provider failure, retrying",
			"provider", c.provider,
			"status", transient.StatusCode,
			"attempt", attempt,
			"max_attempts", c.maxRetries,
			"delay", delay,
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// doRequest performs a single GET and classifies the result.
func (c *client) doRequest(ctx context.Context, url string, decorate func(*http.Request)) (*providerResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if decorate != nil {
		decorate(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &TransientError{Provider: c.provider, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientError{Provider: c.provider, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, &AuthError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Body:       truncate(string(body), 512),
		}
	case isTransientStatus(resp.StatusCode):
		return nil, &TransientError{
			Provider:   c.provider,
			StatusCode: resp.StatusCode,
			Header:     resp.Header,
		}
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%s http %d: %s", c.provider, resp.StatusCode, truncate(string(body), maxDiagnosticBody))
	}

	return &providerResponse{
		status:      resp.StatusCode,
		header:      resp.Header,
		contentType: resp.Header.Get("Content-Type"),
		body:        body,
	}, nil
}

// decodeJSON parses a buffered 2xx response. A non-JSON content type is a
// soft warning as long as the body still parses.
func (c *client) decodeJSON(resp *providerResponse, symbol string, v any) error {
	if !strings.Contains(strings.ToLower(resp.contentType), "json") {
		c.logger.Warn("unexpected content type from provider",
			"provider", c.provider,
			"symbol", symbol,
			"content_type", resp.contentType,
		)
	}

	if err := json.Unmarshal(resp.body, v); err != nil {
		c.logger.Error("failed to parse provider response",
			"provider", c.provider,
			"symbol", symbol,
			"error", err,
			"body", truncate(string(resp.body), maxDiagnosticBody),
		)
		return &DeserializationError{
			Provider: c.provider,
			Err:      err,
			Body:     truncate(string(resp.body), maxDiagnosticBody),
		}
	}
	return nil
}
