package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"econcal/internal/browser"
)

// ErrViewNotFound reports that no locator strategy managed to activate the
// requested calendar view. The scrape must not proceed past it: without a
// confirmed view no table content can be trusted.
var ErrViewNotFound = errors.New("calendar view not found")

// View is a date-selection toggle on the calendar page.
type View string

const (
	ViewToday    View = "today"
	ViewTomorrow View = "tomorrow"
)

// Label is the view's localized toggle text, used by the text-content
// fallback when every locator strategy fails.
func (v View) Label() string {
	if v == ViewTomorrow {
		return "Завтра"
	}
	return "Сегодня"
}

// FallbackDate is the wall-clock date substituted when the page yields no
// parseable date for this view.
func (v View) FallbackDate(now time.Time) time.Time {
	if v == ViewTomorrow {
		return now.AddDate(0, 0, 1)
	}
	return now
}

// ViewLocators orders the locator strategies tried per view. The list is kept
// configurable because site layout drift is the primary source of breakage.
type ViewLocators map[View][]string

// DefaultViewLocators covers the selector variants observed across site
// revisions.
var DefaultViewLocators = ViewLocators{
	ViewToday: {
		"#timeFrame_today",
		`a[id="timeFrame_today"]`,
		`a[data-test="Today"]`,
		`a[href*="today"]`,
	},
	ViewTomorrow: {
		"#timeFrame_tomorrow",
		`a[id="timeFrame_tomorrow"]`,
		`a[data-test="Tomorrow"]`,
		`a[href*="tomorrow"]`,
	},
}

// activeTabClass marks an already-selected toggle; clicking it again would
// reload the view for nothing.
const activeTabClass = "toggled"

var textFallbackTags = []string{"a", "button", "span"}

// SelectView drives the page to the requested view. Each locator is tried in
// order: if the element is already active the call is an idempotent success,
// otherwise it is clicked. When every locator fails, visible interactive
// elements are scanned for the view's exact localized label. Exhaustion
// returns ErrViewNotFound.
func SelectView(ctx context.Context, page browser.Page, v View, locators []string, locatorTimeout time.Duration) error {
	for _, selector := range locators {
		if err := page.WaitForElement(ctx, selector, locatorTimeout); err != nil {
			continue
		}

		active, err := page.HasClass(selector, activeTabClass)
		if err != nil {
			continue
		}
		if active {
			return nil
		}

		if err := page.Click(selector); err != nil {
			continue
		}
		return nil
	}

	clicked, err := page.ClickByText(textFallbackTags, v.Label())
	if err == nil && clicked {
		return nil
	}

	return fmt.Errorf("%w: %s", ErrViewNotFound, v)
}
