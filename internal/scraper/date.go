package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"econcal/internal/event"
)

// CandidateDate is one unparsed date-like string harvested from a page
// location that may or may not reflect the active view's date.
type CandidateDate struct {
	Source string
	Text   string
}

// DefaultDateSelectors are the page locations likely to display the active
// calendar date, in harvest order. The display has moved between site
// revisions, hence the redundancy.
var DefaultDateSelectors = []string{
	"#datePickerToggleBtn",
	".datePickerDisplayDate",
	".economicCalendarDatePickerTitle",
	`[data-test="date-picker-title"]`,
	".datePicker",
	".calendar-date",
	".date-title",
	".selectedDate",
	"#economicCalendarForm .datePickerDisplayDate",
	".datePickerDisplayDate span",
	"#datePickerToggleBtn span",
}

// sentinelYears are placeholder values the page emits in broken or loading
// states. Any candidate containing one is discarded before parsing.
var sentinelYears = []string{"2038", "1970"}

var (
	dateShape = regexp.MustCompile(`(\d+)\s+([A-Za-zА-Яа-яЁё]+)\s+(\d{4})`)

	localizedDateShape = regexp.MustCompile(
		`\d{1,2}\s+(января|февраля|марта|апреля|мая|июня|июля|августа|сентября|октября|ноября|декабря)\s+202[4-9]`)

	// Generic shape restricted to a plausible near-future year range, so
	// epoch and far-future placeholders never match.
	genericDateShape = regexp.MustCompile(`\d{1,2}\s+[A-Za-zА-Яа-яЁё]+\s+202[4-9]`)
)

func containsSentinelYear(s string) bool {
	for _, y := range sentinelYears {
		if strings.Contains(s, y) {
			return true
		}
	}
	return false
}

// ParseDisplayDate extracts the first "<day> <month-token> <year>" substring
// and renders it as DD.MM.YYYY. Candidates containing a sentinel year are
// rejected outright.
func ParseDisplayDate(s string) (string, bool) {
	s = DecodeEntities(s)
	if s == "" || containsSentinelYear(s) {
		return "", false
	}

	m := dateShape.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}

	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return "", false
	}
	month, ok := MonthNumber(m[2])
	if !ok {
		return "", false
	}

	return fmt.Sprintf("%02d.%02d.%s", day, int(month), m[3]), true
}

// HarvestDateCandidates collects date-bearing strings from the given
// selectors. Each matched element contributes its text facets in fixed
// priority: rendered text, inner HTML, title attribute, value attribute.
func HarvestDateCandidates(doc *goquery.Document, selectors []string) []CandidateDate {
	var out []CandidateDate
	for _, selector := range selectors {
		sel := doc.Find(selector).First()
		if sel.Length() == 0 {
			continue
		}

		facets := []string{strings.TrimSpace(sel.Text())}
		if html, err := sel.Html(); err == nil {
			facets = append(facets, strings.TrimSpace(html))
		}
		facets = append(facets,
			strings.TrimSpace(sel.AttrOr("title", "")),
			strings.TrimSpace(sel.AttrOr("value", "")),
		)

		for _, text := range facets {
			if text != "" {
				out = append(out, CandidateDate{Source: selector, Text: text})
			}
		}
	}
	return out
}

// ResolveSessionDate produces the one canonical date for a scrape session.
// Candidates are tried strictly in order, then any localized-month substring
// in the body text, then any generic near-future date substring, and finally
// the caller-supplied wall-clock fallback. It never fails.
func ResolveSessionDate(candidates []CandidateDate, bodyText string, fallback time.Time) string {
	for _, c := range candidates {
		if date, ok := ParseDisplayDate(c.Text); ok {
			return date
		}
	}

	for _, match := range localizedDateShape.FindAllString(bodyText, 5) {
		if date, ok := ParseDisplayDate(match); ok {
			return date
		}
	}

	for _, match := range genericDateShape.FindAllString(bodyText, 5) {
		if date, ok := ParseDisplayDate(match); ok {
			return date
		}
	}

	return event.FormatDisplayDate(fallback)
}
