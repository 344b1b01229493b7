package event

import (
	"fmt"
	"time"
)

// CurrencyUnknown marks rows where no 3-letter currency code was found.
// It is stored and displayed verbatim, never collapsed to an absent value.
const CurrencyUnknown = "N/A"

// MaxVolatility caps the importance rank derived from counted marker icons.
const MaxVolatility = 3

// DisplayDateLayout is the day-level date format used across the pipeline,
// matching the source site's own convention (no timezone).
const DisplayDateLayout = "02.01.2006"

// Event is one row of the economic calendar for a single session date.
type Event struct {
	Date          string   `json:"date" db:"date"`
	Time          string   `json:"time" db:"time"`
	Currency      string   `json:"currency" db:"currency"`
	Volatility    int      `json:"volatility" db:"volatility"`
	Name          string   `json:"event" db:"event"`
	Fact          *float64 `json:"fact" db:"fact"`
	Forecast      *float64 `json:"forecast" db:"forecast"`
	Previous      *float64 `json:"previous" db:"previous"`
	OriginalIndex int      `json:"originalIndex" db:"original_index"`
}

// FormatDisplayDate renders t as DD.MM.YYYY.
func FormatDisplayDate(t time.Time) string {
	return t.Format(DisplayDateLayout)
}

// ISODate converts the event's DD.MM.YYYY date to YYYY-MM-DD for storage.
func (e *Event) ISODate() (string, error) {
	return ToISODate(e.Date)
}

// ToISODate converts a DD.MM.YYYY string to YYYY-MM-DD.
func ToISODate(display string) (string, error) {
	t, err := time.Parse(DisplayDateLayout, display)
	if err != nil {
		return "", fmt.Errorf("parsing display date %q: %w", display, err)
	}
	return t.Format("2006-01-02"), nil
}
