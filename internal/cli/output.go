package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"econcal/internal/event"
	"econcal/internal/storage"
	"econcal/internal/telegram"
)

func printEvents(w io.Writer, events []event.Event, format string) error {
	switch format {
	case "json":
		return writeJSON(w, events)
	case "text":
		for _, ev := range events {
			fmt.Fprintf(w, "%-8s %-4s %-4s %s%s\n",
				ev.Time, ev.Currency, telegram.VolatilityStars(ev.Volatility),
				ev.Name, valueSuffix(ev.Fact, ev.Forecast, ev.Previous))
		}
		fmt.Fprintf(w, "\n%d events\n", len(events))
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}

func printStoredEvents(w io.Writer, events []storage.StoredEvent, format string) error {
	switch format {
	case "json":
		return writeJSON(w, events)
	case "text":
		for _, ev := range events {
			fmt.Fprintf(w, "%-12s %-8s %-4s %-4s %s%s\n",
				ev.Date, ev.Time, ev.Currency, telegram.VolatilityStars(ev.Volatility),
				ev.Name, valueSuffix(ev.Fact, ev.Forecast, ev.Previous))
		}
		fmt.Fprintf(w, "\n%d events\n", len(events))
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", format)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func valueSuffix(fact, forecast, previous *float64) string {
	out := ""
	if fact != nil {
		out += "  fact=" + strconv.FormatFloat(*fact, 'f', -1, 64)
	}
	if forecast != nil {
		out += "  forecast=" + strconv.FormatFloat(*forecast, 'f', -1, 64)
	}
	if previous != nil {
		out += "  previous=" + strconv.FormatFloat(*previous, 'f', -1, 64)
	}
	return out
}
