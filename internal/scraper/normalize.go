package scraper

import (
	"strconv"
	"strings"
	"time"
)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
)

// DecodeEntities unescapes the HTML entities the calendar page is known to
// emit inside date and cell text, and trims the result.
func DecodeEntities(s string) string {
	return strings.TrimSpace(entityReplacer.Replace(s))
}

// months maps lowercase Russian genitive and English month tokens to the
// month of year. The page serves Russian month names; English full and
// abbreviated forms cover fallback states.
var months = map[string]time.Month{
	"января":   time.January,
	"февраля":  time.February,
	"марта":    time.March,
	"апреля":   time.April,
	"мая":      time.May,
	"июня":     time.June,
	"июля":     time.July,
	"августа":  time.August,
	"сентября": time.September,
	"октября":  time.October,
	"ноября":   time.November,
	"декабря":  time.December,

	"january":   time.January,
	"february":  time.February,
	"march":     time.March,
	"april":     time.April,
	"may":       time.May,
	"june":      time.June,
	"july":      time.July,
	"august":    time.August,
	"september": time.September,
	"october":   time.October,
	"november":  time.November,
	"december":  time.December,

	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// MonthNumber resolves a month token to its month of year. Tokens are matched
// case-insensitively; unknown tokens report false.
func MonthNumber(token string) (time.Month, bool) {
	m, ok := months[strings.ToLower(strings.TrimSpace(token))]
	return m, ok
}

// ParseNumber parses a calendar cell value into a float. It strips a trailing
// percent sign, treats a comma as the decimal separator, and multiplies by
// 1000 when the value carries the thousands suffix ("12.5K" -> 12500).
// Empty, whitespace-only, bare-dash, and unparseable inputs report false,
// never an error and never zero.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return 0, false
	}

	clean := strings.TrimSpace(strings.ReplaceAll(strings.TrimSuffix(s, "%"), ",", "."))

	factor := 1.0
	if strings.HasSuffix(clean, "K") {
		clean = strings.TrimSpace(strings.TrimSuffix(clean, "K"))
		factor = 1000
	}

	n, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return n * factor, true
}
