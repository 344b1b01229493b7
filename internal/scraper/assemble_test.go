package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econcal/internal/event"
)

func TestAssembleStampsDateAndIndex(t *testing.T) {
	rows := []RawRow{
		{Time: "08:30", Currency: "USD", Volatility: 3, Event: "Nonfarm Payrolls"},
		{Time: "10:00", Currency: "EUR", Volatility: 1, Event: "German CPI"},
		{Time: "15:00", Currency: event.CurrencyUnknown, Volatility: 0, Event: "Central bank speech"},
	}

	events := Assemble(rows, "05.08.2025")
	require.Len(t, events, 3)

	for i, ev := range events {
		assert.Equal(t, "05.08.2025", ev.Date, "date is session-global")
		assert.Equal(t, i, ev.OriginalIndex, "index is gapless and zero-based")
	}
	assert.Equal(t, event.CurrencyUnknown, events[2].Currency, "unknown sentinel passes through verbatim")
}

func TestAssembleNormalizesValueTriple(t *testing.T) {
	rows := []RawRow{
		{Time: "08:30", Currency: "USD", Event: "Initial Jobless Claims",
			Forecast: "", Previous: "2.3", Fact: ""},
	}

	events := Assemble(rows, "05.08.2025")
	require.Len(t, events, 1)

	ev := events[0]
	assert.Nil(t, ev.Forecast)
	require.NotNil(t, ev.Previous)
	assert.InDelta(t, 2.3, *ev.Previous, 1e-9)
	assert.Nil(t, ev.Fact)
}

func TestAssembleThousandsSuffix(t *testing.T) {
	rows := []RawRow{
		{Time: "08:30", Currency: "USD", Event: "Nonfarm Payrolls",
			Fact: "", Forecast: "185K", Previous: "147K"},
	}

	events := Assemble(rows, "05.08.2025")
	require.Len(t, events, 1)

	require.NotNil(t, events[0].Forecast)
	assert.InDelta(t, 185000, *events[0].Forecast, 1e-9)
	require.NotNil(t, events[0].Previous)
	assert.InDelta(t, 147000, *events[0].Previous, 1e-9)
	assert.Nil(t, events[0].Fact)
}

func TestAssembleEmptyBatch(t *testing.T) {
	assert.Empty(t, Assemble(nil, "05.08.2025"))
}
