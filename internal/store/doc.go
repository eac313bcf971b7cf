// Package store provides PostgreSQL persistence for the ingestion service.
//
// One schema, three concerns:
//   - market.price_daily: one row per (instrument, trade date), partitioned
//     by date range; writes are idempotent batch upserts
//   - market.instrument / market.v_universe_current: the instrument catalog
//     and universe membership
//   - market.data_provider: optional per-provider base URL overrides,
//     read through a TTL cache
package store
