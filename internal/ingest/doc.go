// Package ingest composes one ingestion run: resolve the universe, load the
// instrument snapshot, and for each instrument route between an incremental
// and a backfill fetch, fetch, and upsert.
//
// Failures are isolated per instrument: an error anywhere in one
// instrument's chain becomes that instrument's outcome and never aborts the
// run. The aggregate summary reports partial results instead of failing the
// whole batch over one bad symbol.
package ingest
