// Package storage persists calendar events and bot subscribers in Postgres.
//
// Event writes use date-scoped overwrite semantics: one scrape batch replaces
// all previously stored events for its date inside a single transaction, so
// stale and fresh data for a date are never mixed.
package storage
