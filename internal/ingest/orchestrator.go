package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/pricedata/internal/fetch"
	"github.com/rickgao/pricedata/internal/metrics"
	"github.com/rickgao/pricedata/internal/model"
)

// InstrumentSource loads the per-run instrument snapshot.
type InstrumentSource interface {
	ListByUniverse(ctx context.Context, universeCode string) ([]model.Instrument, error)
}

// BarStore persists fetched bars.
type BarStore interface {
	UpsertDailyBatch(ctx context.Context, instrumentID int64, bars []model.PriceBar, source string) error
}

// Config holds run-level orchestration policy.
type Config struct {
	SourceTag string
	Policy    RoutePolicy
}

// Request describes one ingestion invocation.
type Request struct {
	Universe string

	// Backfill forces a long fetch over an explicit range instead of
	// per-instrument staleness routing.
	Backfill bool
	Start    time.Time
	End      time.Time
}

// Orchestrator runs the fetch -> normalize -> route -> persist pipeline for
// every instrument of a universe.
type Orchestrator struct {
	cfg         Config
	resolver    *UniverseResolver
	instruments InstrumentSource
	store       BarStore
	fetchers    map[model.FetchMode]fetch.Fetcher
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// New creates an Orchestrator. The fetchers map holds the named long and
// short fetcher configurations; both keys may point at the same Fetcher.
func New(
	cfg Config,
	resolver *UniverseResolver,
	instruments InstrumentSource,
	store BarStore,
	fetchers map[model.FetchMode]fetch.Fetcher,
	logger *slog.Logger,
	opts ...Option,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	o := &Orchestrator{
		cfg:         cfg,
		resolver:    resolver,
		instruments: instruments,
		store:       store,
		fetchers:    fetchers,
		logger:      logger,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one ingestion run. Per-instrument failures land in the
// summary; the returned error is non-nil only for run-fatal conditions
// (universe resolution, catalog load, cancellation).
func (o *Orchestrator) Run(ctx context.Context, req Request) (*model.Summary, error) {
	universe, err := o.resolver.Resolve(ctx, req.Universe)
	if err != nil {
		return nil, err
	}

	instruments, err := o.instruments.ListByUniverse(ctx, universe)
	if err != nil {
		return nil, err
	}

	today := model.DateOf(o.now())
	start, end := req.Start, req.End
	if !req.Backfill {
		start, end = today, today
	} else if end.IsZero() {
		end = today
	}

	summary := &model.Summary{
		RunID:       uuid.New(),
		Universe:    universe,
		Start:       start,
		End:         end,
		Instruments: len(instruments),
	}
	metrics.RunsTotal.WithLabelValues(universe).Inc()

	o.logger.Info("ingestion run started",
		"run_id", summary.RunID,
		"universe", universe,
		"instruments", len(instruments),
		"backfill", req.Backfill,
		"start", model.FormatDate(start),
		"end", model.FormatDate(end),
	)

	for _, inst := range instruments {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome := o.processInstrument(ctx, inst, req, today, end)
		summary.Results = append(summary.Results, outcome)

		switch outcome.Status {
		case model.StatusOK:
			summary.OK++
		case model.StatusUpToDate:
			summary.UpToDate++
		case model.StatusError:
			summary.Fail++
			metrics.InstrumentFailures.WithLabelValues(universe).Inc()
		}
	}

	o.logger.Info("ingestion run finished",
		"run_id", summary.RunID,
		"universe", universe,
		"ok", summary.OK,
		"fail", summary.Fail,
		"up_to_date", summary.UpToDate,
	)
	return summary, nil
}

// processInstrument runs the route -> fetch -> upsert chain for one
// instrument. Every error is converted into the instrument's outcome.
func (o *Orchestrator) processInstrument(ctx context.Context, inst model.Instrument, req Request, today, end time.Time) model.Outcome {
	var plan Plan
	if req.Backfill {
		plan = Plan{Mode: model.FetchLong, Start: req.Start, End: end}
	} else {
		plan = Route(inst, today, o.cfg.Policy)
	}

	if plan.UpToDate {
		return model.Outcome{Symbol: inst.Symbol, Status: model.StatusUpToDate, Mode: plan.Mode}
	}

	fetcher, ok := o.fetchers[plan.Mode]
	if !ok {
		return model.Outcome{
			Symbol: inst.Symbol,
			Status: model.StatusError,
			Mode:   plan.Mode,
			Error:  "no fetcher configured for mode " + string(plan.Mode),
		}
	}

	bars, err := fetcher.GetDaily(ctx, inst.Symbol, plan.Start, plan.End)
	if err != nil {
		o.logger.Error("fetch failed",
			"symbol", inst.Symbol,
			"mode", plan.Mode,
			"start", model.FormatDate(plan.Start),
			"end", model.FormatDate(plan.End),
			"error", err,
		)
		return model.Outcome{Symbol: inst.Symbol, Status: model.StatusError, Mode: plan.Mode, Error: err.Error()}
	}

	if len(bars) > 0 {
		if err := o.store.UpsertDailyBatch(ctx, inst.InstrumentID, bars, o.cfg.SourceTag); err != nil {
			o.logger.Error("upsert failed",
				"symbol", inst.Symbol,
				"rows", len(bars),
				"error", err,
			)
			return model.Outcome{Symbol: inst.Symbol, Status: model.StatusError, Mode: plan.Mode, Error: err.Error()}
		}
		metrics.BarsUpserted.WithLabelValues(o.cfg.SourceTag).Add(float64(len(bars)))
	}

	o.logger.Info("instrument ingested",
		"symbol", inst.Symbol,
		"mode", plan.Mode,
		"rows", len(bars),
	)
	return model.Outcome{Symbol: inst.Symbol, Status: model.StatusOK, Rows: len(bars), Mode: plan.Mode}
}
