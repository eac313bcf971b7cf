package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/pricedata/internal/model"
)

// DB is the slice of a pgx pool the stores rely on. *pgxpool.Pool satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

const upsertDailySQL = `
	INSERT INTO market.price_daily
	  (instrument_id, trade_date, open, high, low, close, adj_close, volume, source, updated_at)
	VALUES
	  ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
	ON CONFLICT (instrument_id, trade_date) DO UPDATE
	SET open = EXCLUDED.open,
	    high = EXCLUDED.high,
	    low = EXCLUDED.low,
	    close = EXCLUDED.close,
	    adj_close = EXCLUDED.adj_close,
	    volume = EXCLUDED.volume,
	    source = EXCLUDED.source,
	    updated_at = NOW()
`

// PriceStore persists daily bars into the partitioned price table.
type PriceStore struct {
	db     DB
	logger *slog.Logger
}

// NewPriceStore creates a PriceStore.
func NewPriceStore(db DB, logger *slog.Logger) *PriceStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceStore{db: db, logger: logger}
}

// EnsurePartitions guarantees destination partitions exist for the given date
// span. Idempotent and safe to repeat.
func (s *PriceStore) EnsurePartitions(ctx context.Context, start, end time.Time) error {
	_, err := s.db.Exec(ctx,
		"SELECT market.ensure_price_daily_partitions($1, $2)",
		model.DateOf(start), model.DateOf(end),
	)
	if err != nil {
		return fmt.Errorf("ensure partitions: %w", err)
	}
	return nil
}

// UpsertDailyBatch writes one upsert per bar keyed by (instrument, trade
// date) inside a single transaction. Applying the same batch twice leaves
// identical rows. No-op on an empty batch.
func (s *PriceStore) UpsertDailyBatch(ctx context.Context, instrumentID int64, bars []model.PriceBar, source string) error {
	if len(bars) == 0 {
		return nil
	}

	start, end := dateSpan(bars)
	if err := s.EnsurePartitions(ctx, start, end); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin upsert tx: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, b := range bars {
		batch.Queue(upsertDailySQL,
			instrumentID, b.TradeDate, b.Open, b.High, b.Low, b.Close, b.AdjClose, b.Volume, source,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range bars {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("upsert bar: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit upsert tx: %w", err)
	}

	s.logger.Debug("upserted daily bars",
		"instrument_id", instrumentID,
		"rows", len(bars),
		"start", model.FormatDate(start),
		"end", model.FormatDate(end),
		"source", source,
	)
	return nil
}

// dateSpan returns the min and max trade date of a non-empty batch.
func dateSpan(bars []model.PriceBar) (start, end time.Time) {
	start, end = bars[0].TradeDate, bars[0].TradeDate
	for _, b := range bars[1:] {
		if b.TradeDate.Before(start) {
			start = b.TradeDate
		}
		if b.TradeDate.After(end) {
			end = b.TradeDate
		}
	}
	return start, end
}
