// Package metrics provides Prometheus metrics for monitoring.
//
// Key metrics:
//   - Bars upserted per provider
//   - Fetch retries and exhausted retry budgets
//   - Per-instrument failures per universe
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BarsUpserted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ingest_bars_upserted_total", Help: "Daily bars written to storage"},
		[]string{"provider"},
	)
	FetchRetries = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ingest_fetch_retries_total", Help: "Transient provider failures that triggered a retry"},
		[]string{"provider"},
	)
	InstrumentFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ingest_instrument_failures_total", Help: "Instruments whose ingestion ended in error"},
		[]string{"universe"},
	)
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "ingest_runs_total", Help: "Ingestion runs started"},
		[]string{"universe"},
	)
)

func init() {
	prometheus.MustRegister(BarsUpserted, FetchRetries, InstrumentFailures, RunsTotal)
}
