// Package server exposes the ingestion service over HTTP.
//
// Two POST endpoints trigger runs: /ingest/run-today for the daily
// incremental pass and /ingest/backfill for an explicit date range.
// Both respond with the full run summary, including per-instrument
// outcomes. A failed instrument does not fail the request; callers
// inspect the ok/fail counts in the body.
package server
