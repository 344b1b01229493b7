// Package scraper recovers structured economic-calendar events from an
// unstable, selector-driven HTML table.
//
// The source site guarantees no API and no stable schema, so every stage runs
// a cascade of heuristics with a deterministic fallback: tab activation tries
// an ordered locator list before falling back to text matching, the session
// date is resolved from several redundant page locations before falling back
// to the wall clock, and row fields are classified by content shape rather
// than column labels. Session-level failures (navigation, view selection)
// abort the scrape; every per-row and per-field failure degrades to partial
// or absent data instead.
package scraper
