package scraper

import "econcal/internal/event"

// Assemble stamps the session date onto the accepted raw rows, normalizes
// the value triple, and assigns a gapless zero-based original index in
// on-page order. The currency "unknown" sentinel passes through verbatim.
func Assemble(rows []RawRow, date string) []event.Event {
	out := make([]event.Event, 0, len(rows))
	index := 0
	for _, r := range rows {
		out = append(out, event.Event{
			Date:          date,
			Time:          r.Time,
			Currency:      r.Currency,
			Volatility:    r.Volatility,
			Name:          r.Event,
			Fact:          numberOrAbsent(r.Fact),
			Forecast:      numberOrAbsent(r.Forecast),
			Previous:      numberOrAbsent(r.Previous),
			OriginalIndex: index,
		})
		index++
	}
	return out
}

// numberOrAbsent parses a raw cell value, keeping absent values as nil
// rather than coercing them to zero.
func numberOrAbsent(raw string) *float64 {
	if n, ok := ParseNumber(raw); ok {
		return &n
	}
	return nil
}
