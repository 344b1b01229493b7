package scraper

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"econcal/internal/event"
)

// RawRow is one table row's recovered fields before numeric normalization.
// The trailing triple stays raw text here; an empty string means absent.
type RawRow struct {
	Time       string
	Currency   string
	Volatility int
	Event      string
	Fact       string
	Forecast   string
	Previous   string
}

// Column names one slot of the trailing value triple.
type Column int

const (
	ColumnFact Column = iota
	ColumnForecast
	ColumnPrevious
)

// ColumnOrder maps the row's last three cells, left to right, onto the value
// triple. The mapping has drifted between site revisions, so it is
// configuration, not hardcoded truth.
type ColumnOrder [3]Column

// DefaultColumnOrder matches the current live markup: forecast, previous,
// fact reading left to right.
var DefaultColumnOrder = ColumnOrder{ColumnForecast, ColumnPrevious, ColumnFact}

// DefaultRowSelectors are the row-matching strategies, most specific first.
// The generic tbody fallback stays last: it matches on almost any page and
// would otherwise mask the structured selectors.
var DefaultRowSelectors = []string{
	"tr.js-event-item",
	"tr[data-event-datetime]",
	"#economicCalendarData tr",
	"table.genTbl tbody tr",
	".economicCalendarRow",
	"tbody tr",
}

const (
	// minRowCells filters header, ad, and day-separator rows.
	minRowCells = 5
	// cellScanEnd bounds the early-cell window scanned for currency codes
	// and volatility markers (cells 1 through 3).
	cellScanEnd = 4
	// eventLeadSkip and eventTrailSkip exclude the structural cells from
	// the event-text search.
	eventLeadSkip  = 2
	eventTrailSkip = 3
	// minEventTextLen is the shortest cell text accepted as an event name.
	minEventTextLen = 10
)

// noTimeSentinels are cell values meaning "no scheduled time"; a row showing
// one is dropped rather than emitted partial.
var noTimeSentinels = map[string]bool{"": true, "-": true, "TBA": true}

var (
	currencyShape = regexp.MustCompile(`^[A-Z]{3}$`)
	numericShape  = regexp.MustCompile(`^\d+[.,]?\d*%?$`)
)

// isCurrencyShaped reports whether the cell text is exactly a 3-letter
// uppercase code.
func isCurrencyShaped(s string) bool { return currencyShape.MatchString(s) }

// isNumericShaped reports whether the cell text is a bare number or
// percentage.
func isNumericShaped(s string) bool { return numericShape.MatchString(s) }

// isEventTextShaped reports whether the cell text qualifies as an event
// description: long enough and not shaped like a value or currency cell.
// Length is counted in runes so Cyrillic text is held to the same threshold
// as ASCII.
func isEventTextShaped(s string) bool {
	return utf8.RuneCountInString(s) > minEventTextLen && !isNumericShaped(s) && !isCurrencyShaped(s)
}

// volatilityMarkerSelector matches the importance icons by class signature.
const volatilityMarkerSelector = ".grayFullBullishIcon, .redFullBullishIcon, .orangeFullBullishIcon"

// volatilityFallbackSelector catches renamed icon classes by substring.
const volatilityFallbackSelector = `[class*="star"], [class*="Bull"]`

// RowExtractor walks the calendar table and recovers the raw field tuple of
// every qualifying row.
type RowExtractor struct {
	RowSelectors  []string
	TrailingOrder ColumnOrder

	log *zap.SugaredLogger
}

// NewRowExtractor builds an extractor with the default strategy lists.
func NewRowExtractor(log *zap.SugaredLogger) *RowExtractor {
	return &RowExtractor{
		RowSelectors:  DefaultRowSelectors,
		TrailingOrder: DefaultColumnOrder,
		log:           log,
	}
}

// Extract finds the table rows and recovers their fields. An unmatched
// selector set yields an empty list, not an error: a day with no events is
// legitimate and must not look like breakage.
func (x *RowExtractor) Extract(doc *goquery.Document) []RawRow {
	var rows *goquery.Selection
	for _, selector := range x.RowSelectors {
		if found := doc.Find(selector); found.Length() > 0 {
			x.log.Debugw("matched table rows", "selector", selector, "rows", found.Length())
			rows = found
			break
		}
	}
	if rows == nil {
		x.log.Warnw("no table rows matched any selector")
		return nil
	}

	out := make([]RawRow, 0, rows.Length())
	rows.Each(func(i int, row *goquery.Selection) {
		raw, ok := x.extractRow(i, row)
		if ok {
			out = append(out, raw)
		}
	})
	return out
}

// extractRow recovers one row's fields. Any panic during extraction is
// confined to that row: it is logged and the row skipped, never aborting the
// rest of the table.
func (x *RowExtractor) extractRow(index int, row *goquery.Selection) (raw RawRow, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			x.log.Errorw("row extraction failed", "row", index, "panic", r)
			ok = false
		}
	}()

	cells := row.Find("td")
	n := cells.Length()
	if n < minRowCells {
		return raw, false
	}

	timeText := strings.TrimSpace(cells.Eq(0).Text())
	if noTimeSentinels[timeText] {
		return raw, false
	}
	raw.Time = timeText

	raw.Currency = event.CurrencyUnknown
	for i := 1; i < cellScanEnd && i < n; i++ {
		text := strings.TrimSpace(cells.Eq(i).Text())
		if isCurrencyShaped(text) {
			raw.Currency = text
			break
		}
	}

	raw.Volatility = x.countVolatilityMarkers(cells, n)

	longest := 0
	for i := eventLeadSkip; i < n-eventTrailSkip; i++ {
		text := strings.TrimSpace(cells.Eq(i).Text())
		if runes := utf8.RuneCountInString(text); runes > longest && isEventTextShaped(text) {
			raw.Event = text
			longest = runes
		}
	}
	if raw.Event == "" {
		return raw, false
	}

	if n >= 7 {
		trailing := [3]string{
			cellValue(cells.Eq(n - 3)),
			cellValue(cells.Eq(n - 2)),
			cellValue(cells.Eq(n - 1)),
		}
		for slot, column := range x.TrailingOrder {
			switch column {
			case ColumnFact:
				raw.Fact = trailing[slot]
			case ColumnForecast:
				raw.Forecast = trailing[slot]
			case ColumnPrevious:
				raw.Previous = trailing[slot]
			}
		}
	}

	return raw, true
}

// countVolatilityMarkers counts importance icons in the early-cell window,
// clipped to the maximum rank. Cells without markers contribute nothing.
func (x *RowExtractor) countVolatilityMarkers(cells *goquery.Selection, n int) int {
	for i := 1; i < cellScanEnd && i < n; i++ {
		cell := cells.Eq(i)
		if count := cell.Find(volatilityMarkerSelector).Length(); count > 0 {
			return min(count, event.MaxVolatility)
		}
		if count := cell.Find(volatilityFallbackSelector).Length(); count > 0 {
			return min(count, event.MaxVolatility)
		}
	}
	return 0
}

// cellValue trims a trailing-triple cell, normalizing the site's "no value"
// dash to absent.
func cellValue(cell *goquery.Selection) string {
	text := strings.TrimSpace(cell.Text())
	if text == "-" {
		return ""
	}
	return text
}
