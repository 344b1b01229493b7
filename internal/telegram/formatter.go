package telegram

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"econcal/internal/storage"
)

// MaxMessageLength is the safe cutoff below Telegram's 4096-character limit.
const MaxMessageLength = 4000

// FormatEvents renders a day's events as a Markdown message, grouped by
// HH:MM time ascending, each event with its volatility marker and any
// previous/forecast/actual values.
func FormatEvents(events []storage.StoredEvent, displayDate string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📈 **Economic Events on %s**\n\n", displayDate)

	byTime := make(map[string][]storage.StoredEvent)
	times := make([]string, 0)
	for _, ev := range events {
		t := timeKey(ev.Time)
		if _, ok := byTime[t]; !ok {
			times = append(times, t)
		}
		byTime[t] = append(byTime[t], ev)
	}
	sort.Strings(times)

	for _, t := range times {
		fmt.Fprintf(&b, "⏰ ====== %s ====== 🎯\n", t)

		for _, ev := range byTime[t] {
			fmt.Fprintf(&b, "%s **%s** - %s\n", VolatilityStars(ev.Volatility), ev.Currency, ev.Name)

			values := make([]string, 0, 3)
			if ev.Previous != nil {
				values = append(values, "📋 Предыдущий: "+formatValue(*ev.Previous))
			}
			if ev.Forecast != nil {
				values = append(values, "📊 Прогноз: "+formatValue(*ev.Forecast))
			}
			if ev.Fact != nil {
				values = append(values, "✅ **Факт: "+formatValue(*ev.Fact)+"**")
			}
			if len(values) > 0 {
				fmt.Fprintf(&b, "   %s\n", strings.Join(values, "\n   "))
			}

			b.WriteString("\n")
		}
	}

	return b.String()
}

// VolatilityStars maps the 0-3 importance rank to its marker emojis.
func VolatilityStars(volatility int) string {
	switch volatility {
	case 3:
		return "🔴🔴🔴"
	case 2:
		return "🟡🟡"
	case 1:
		return "🟢"
	default:
		return "📍"
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

var clockPrefix = regexp.MustCompile(`^\d{1,2}:\d{2}`)

// timeKey derives the grouping heading from a stored time value. Clock times
// lose their seconds; anything else ("Весь день", "TBA") passes through whole,
// since slicing it at a fixed byte offset could cut a rune in half and produce
// a message Telegram rejects as invalid UTF-8.
func timeKey(t string) string {
	if m := clockPrefix.FindString(t); m != "" {
		return m
	}
	return t
}

// SplitMessage breaks a long message into parts below maxLength, splitting on
// line boundaries so no event block is cut mid-line.
func SplitMessage(message string, maxLength int) []string {
	if maxLength <= 0 {
		maxLength = MaxMessageLength
	}
	if len(message) <= maxLength {
		return []string{message}
	}

	var parts []string
	var current strings.Builder

	for _, line := range strings.Split(message, "\n") {
		if len(line) > maxLength {
			// A single oversized line cannot share a part with anything;
			// hard-wrap it so no part ever exceeds the cutoff.
			if part := strings.TrimSpace(current.String()); part != "" {
				parts = append(parts, part)
			}
			current.Reset()
			parts = append(parts, wrapLine(line, maxLength)...)
			continue
		}
		if current.Len()+len(line)+1 > maxLength {
			if part := strings.TrimSpace(current.String()); part != "" {
				parts = append(parts, part)
			}
			current.Reset()
		}
		current.WriteString(line)
		current.WriteString("\n")
	}

	if part := strings.TrimSpace(current.String()); part != "" {
		parts = append(parts, part)
	}

	return parts
}

// wrapLine cuts a line into chunks of at most maxLength bytes, backing each
// cut off to a rune boundary.
func wrapLine(line string, maxLength int) []string {
	var out []string
	for len(line) > maxLength {
		cut := maxLength
		for cut > 0 && !utf8.RuneStart(line[cut]) {
			cut--
		}
		out = append(out, line[:cut])
		line = line[cut:]
	}
	if line != "" {
		out = append(out, line)
	}
	return out
}
