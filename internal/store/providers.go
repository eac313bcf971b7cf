package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/pricedata/internal/cache"
)

const (
	baseURLTTLPresent = time.Hour
	// Unconfigured providers are re-checked sooner so a fresh row is picked
	// up without a restart.
	baseURLTTLAbsent = 5 * time.Minute
)

// ProviderStore reads per-provider base URL overrides through a TTL cache.
type ProviderStore struct {
	db     DB
	cache  *cache.Cache[string]
	logger *slog.Logger
}

// NewProviderStore creates a ProviderStore.
func NewProviderStore(db DB, logger *slog.Logger) (*ProviderStore, error) {
	c, err := cache.New[string](64)
	if err != nil {
		return nil, fmt.Errorf("create provider cache: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProviderStore{db: db, cache: c, logger: logger}, nil
}

// BaseURL implements fetch.BaseURLSource: it returns the configured base URL
// for a provider code, or ok=false when none is set, letting the fetcher
// fall through to its static default.
func (s *ProviderStore) BaseURL(ctx context.Context, provider string) (string, bool, error) {
	key := "provider:baseurl:" + provider
	return s.cache.GetOrFetch(ctx, key, baseURLTTLPresent, baseURLTTLAbsent, func(ctx context.Context) (string, bool, error) {
		const sql = "SELECT base_url FROM market.data_provider WHERE code = $1 LIMIT 1"

		var url *string
		err := s.db.QueryRow(ctx, sql, provider).Scan(&url)
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		if err != nil {
			return "", false, fmt.Errorf("lookup provider %s: %w", provider, err)
		}
		if url == nil || *url == "" {
			return "", false, nil
		}
		return *url, true, nil
	})
}
