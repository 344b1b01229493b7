package telegram

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"econcal/internal/storage"
)

func f(v float64) *float64 { return &v }

func TestFormatEventsGroupsByTime(t *testing.T) {
	events := []storage.StoredEvent{
		{Time: "15:00", Currency: "GBP", Volatility: 2, Name: "BoE Gov Bailey Speaks"},
		{Time: "08:30", Currency: "USD", Volatility: 3, Name: "Nonfarm Payrolls",
			Forecast: f(185000), Previous: f(147000)},
		{Time: "08:30:00", Currency: "USD", Volatility: 1, Name: "Average Hourly Earnings",
			Fact: f(0.3)},
	}

	msg := FormatEvents(events, "05.08.2025")

	assert.Contains(t, msg, "Economic Events on 05.08.2025")

	// Times are sorted ascending and seconds are trimmed off.
	early := strings.Index(msg, "====== 08:30 ======")
	late := strings.Index(msg, "====== 15:00 ======")
	require.GreaterOrEqual(t, early, 0)
	require.Greater(t, late, early)
	assert.NotContains(t, msg, "08:30:00")

	assert.Contains(t, msg, "🔴🔴🔴 **USD** - Nonfarm Payrolls")
	assert.Contains(t, msg, "📊 Прогноз: 185000")
	assert.Contains(t, msg, "📋 Предыдущий: 147000")
	assert.Contains(t, msg, "✅ **Факт: 0.3**")

	// Events without values carry no value block.
	assert.Contains(t, msg, "🟡🟡 **GBP** - BoE Gov Bailey Speaks")
}

func TestFormatEventsAllDayTime(t *testing.T) {
	// The site emits non-clock times like "Весь день"; those must survive
	// grouping whole instead of being sliced mid-rune into invalid UTF-8.
	events := []storage.StoredEvent{
		{Time: "Весь день", Currency: "EUR", Volatility: 1, Name: "Выходной день в Германии"},
		{Time: "08:30", Currency: "USD", Volatility: 2, Name: "Индекс цен производителей"},
	}

	msg := FormatEvents(events, "05.08.2025")

	assert.True(t, utf8.ValidString(msg))
	assert.Contains(t, msg, "====== Весь день ======")
	assert.Contains(t, msg, "====== 08:30 ======")
}

func TestTimeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"08:30", "08:30"},
		{"08:30:00", "08:30"},
		{"8:45", "8:45"},
		{"Весь день", "Весь день"},
		{"TBA", "TBA"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, timeKey(tt.in))
	}
}

func TestVolatilityStars(t *testing.T) {
	tests := []struct {
		volatility int
		stars      string
	}{
		{3, "🔴🔴🔴"},
		{2, "🟡🟡"},
		{1, "🟢"},
		{0, "📍"},
		{-1, "📍"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.stars, VolatilityStars(tt.volatility))
	}
}

func TestSplitMessageShortPassthrough(t *testing.T) {
	parts := SplitMessage("short message", MaxMessageLength)
	require.Len(t, parts, 1)
	assert.Equal(t, "short message", parts[0])
}

func TestSplitMessageBreaksOnLines(t *testing.T) {
	line := strings.Repeat("x", 50)
	message := strings.TrimSuffix(strings.Repeat(line+"\n", 10), "\n")

	parts := SplitMessage(message, 120)
	require.Greater(t, len(parts), 1)

	for _, part := range parts {
		assert.LessOrEqual(t, len(part), 120)
		// No line is cut mid-way.
		for _, l := range strings.Split(part, "\n") {
			assert.Equal(t, line, l)
		}
	}
}

func TestSplitMessageHardWrapsOversizedLine(t *testing.T) {
	message := strings.Repeat("я", 100)

	parts := SplitMessage(message, 30)
	require.Greater(t, len(parts), 1)

	for _, part := range parts {
		assert.LessOrEqual(t, len(part), 30)
		assert.True(t, utf8.ValidString(part), "wrap must not cut a rune in half")
	}
	assert.Equal(t, message, strings.Join(parts, ""))
}
