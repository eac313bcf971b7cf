package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/pricedata/internal/model"
)

// InstrumentStore reads the instrument catalog and universe membership.
type InstrumentStore struct {
	db     DB
	logger *slog.Logger
}

// NewInstrumentStore creates an InstrumentStore.
func NewInstrumentStore(db DB, logger *slog.Logger) *InstrumentStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &InstrumentStore{db: db, logger: logger}
}

// ListByUniverse returns the current members of a universe, each with its
// most recent stored trade date, ordered by symbol for stable iteration.
func (s *InstrumentStore) ListByUniverse(ctx context.Context, universeCode string) ([]model.Instrument, error) {
	const sql = `
		SELECT i.instrument_id,
		       i.symbol,
		       MAX(p.trade_date) AS last_trade_date
		FROM market.v_universe_current c
		JOIN market.instrument i USING (instrument_id)
		LEFT JOIN market.price_daily p ON p.instrument_id = i.instrument_id
		WHERE c.universe_code = $1
		GROUP BY i.instrument_id, i.symbol
		ORDER BY i.symbol
	`

	rows, err := s.db.Query(ctx, sql, universeCode)
	if err != nil {
		return nil, fmt.Errorf("list universe %s: %w", universeCode, err)
	}
	defer rows.Close()

	var out []model.Instrument
	for rows.Next() {
		var (
			inst model.Instrument
			last *time.Time
		)
		if err := rows.Scan(&inst.InstrumentID, &inst.Symbol, &last); err != nil {
			return nil, fmt.Errorf("scan instrument: %w", err)
		}
		if last != nil {
			d := model.DateOf(*last)
			inst.LastTradeDate = &d
		}
		out = append(out, inst)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instruments: %w", err)
	}
	return out, nil
}

// DefaultUniverse returns the catalog-level default universe code, if one
// exists. Used by universe resolution when the caller omits the parameter.
func (s *InstrumentStore) DefaultUniverse(ctx context.Context) (string, bool, error) {
	const sql = "SELECT code FROM market.universe WHERE code = 'core' LIMIT 1"

	var code string
	err := s.db.QueryRow(ctx, sql).Scan(&code)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup default universe: %w", err)
	}
	return code, true, nil
}
