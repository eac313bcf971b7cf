// Package fetch retrieves daily OHLCV price bars from external data
// providers.
//
// Each provider variant implements the Fetcher capability: it issues a GET
// for a symbol and date range, retries transient failures with jittered
// exponential backoff (honoring Retry-After hints), and converts the
// provider-specific response into a canonical bar sequence that is ordered
// ascending by trade date and free of duplicate dates before it leaves the
// fetch boundary.
//
// A bar with any missing numeric field aborts accumulation: the fetcher
// returns only the bars received strictly before it and logs a warning.
package fetch
