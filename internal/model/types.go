package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Instrument is one member of an ingestion universe. It is an immutable
// snapshot taken at the start of a run: the orchestrator reads staleness from
// it but never writes back.
type Instrument struct {
	InstrumentID  int64      // Primary key in market.instrument
	Symbol        string     // Provider-facing ticker (e.g., "AAPL")
	LastTradeDate *time.Time // Most recent stored trade date, nil if no bars exist
}

// PriceBar is one day's OHLCV record for an instrument.
//
// Within any sequence returned by a fetcher, trade dates are unique and
// strictly ascending.
type PriceBar struct {
	TradeDate time.Time // UTC midnight
	Open      decimal.Decimal
	High      decimal.Decimal
	Low       decimal.Decimal
	Close     decimal.Decimal
	AdjClose  decimal.Decimal
	Volume    int64
}

// FetchMode selects which fetcher configuration a run uses for an instrument.
type FetchMode string

const (
	// FetchShort requests only the days since the last stored trade date.
	FetchShort FetchMode = "short"

	// FetchLong requests the full backfill horizon. Used when an instrument
	// has no stored bars or its data is older than the staleness threshold.
	FetchLong FetchMode = "long"
)

// OutcomeStatus classifies the result of processing one instrument.
type OutcomeStatus string

const (
	StatusOK       OutcomeStatus = "ok"
	StatusUpToDate OutcomeStatus = "up-to-date"
	StatusError    OutcomeStatus = "error"
)

// Outcome records what happened to a single instrument within a run. Outcomes
// are ephemeral: constructed per run, returned to the caller, never persisted.
type Outcome struct {
	Symbol string        `json:"symbol"`
	Status OutcomeStatus `json:"status"`
	Rows   int           `json:"rows"`
	Mode   FetchMode     `json:"mode,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// Summary aggregates the outcomes of one ingestion run.
type Summary struct {
	RunID       uuid.UUID `json:"run_id"`
	Universe    string    `json:"universe"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Instruments int       `json:"instruments"`
	OK          int       `json:"ok"`
	Fail        int       `json:"fail"`
	UpToDate    int       `json:"up_to_date"`
	Results     []Outcome `json:"results"`
}
