// Package event defines the canonical economic-calendar event record produced
// by one scrape session.
//
// An Event is constructed once per scrape, handed to storage, and never
// mutated afterward. Numeric fields are pointers so that "absent" stays
// distinct from zero; the currency field instead carries an explicit "N/A"
// sentinel when no code was found in the row.
package event
