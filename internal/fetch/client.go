package fetch

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/rickgao/pricedata/internal/model"
)

// Fetcher retrieves daily bars for one symbol over an inclusive date range.
// Implementations return bars ordered ascending by trade date with at most
// one bar per date.
type Fetcher interface {
	GetDaily(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error)
}

// BaseURLSource resolves an optionally configured base URL for a provider
// code. ok is false when no override is configured, in which case the
// fetcher falls through to its static default.
type BaseURLSource interface {
	BaseURL(ctx context.Context, provider string) (url string, ok bool, err error)
}

// client holds the HTTP plumbing shared by all provider variants.
type client struct {
	provider   string
	httpClient *http.Client
	logger     *slog.Logger
	maxRetries int
	maxBackoff time.Duration
}

// Option configures a provider fetcher.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *client) {
		c.logger = logger
	}
}

// WithRetries sets the retry budget and the backoff cap.
func WithRetries(max int, maxBackoff time.Duration) Option {
	return func(c *client) {
		c.maxRetries = max
		c.maxBackoff = maxBackoff
	}
}

func newClient(provider string, opts ...Option) client {
	c := client{
		provider: provider,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:     slog.Default(),
		maxRetries: 3,
		maxBackoff: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// validateArgs checks the common fetch preconditions.
func validateArgs(symbol string, start, end time.Time) error {
	if strings.TrimSpace(symbol) == "" {
		return &ValidationError{Msg: "symbol is required"}
	}
	if end.Before(start) {
		return &ValidationError{Msg: "end date must be >= start date"}
	}
	return nil
}
