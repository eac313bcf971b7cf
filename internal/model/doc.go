// Package model defines shared data types used across the price ingestion
// service.
//
// Conventions:
//   - Prices: decimal.Decimal (exact base-10, never float64)
//   - Trade dates: time.Time pinned to UTC midnight, constructed through the
//     date helpers in this package
//   - IDs: int64 for instruments, uuid.UUID for ingestion runs
package model
