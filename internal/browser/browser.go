package browser

import (
	"context"
	"time"
)

// Page is the minimal surface the scraping core needs from a rendering
// session. Any implementation exposing these primitives is substitutable.
type Page interface {
	// Navigate loads the URL and waits for the page's load event.
	Navigate(ctx context.Context, url string, timeout time.Duration) error
	// WaitForElement blocks until the selector matches at least one element.
	WaitForElement(ctx context.Context, selector string, timeout time.Duration) error
	// Click activates the first element matching the selector.
	Click(selector string) error
	// HasClass reports whether the first element matching the selector
	// carries the given class. A missing element reports false, not an error.
	HasClass(selector, class string) (bool, error)
	// ClickByText scans elements of the given tags for one whose exact
	// trimmed text equals text, clicks it, and reports whether one was found.
	ClickByText(tags []string, text string) (bool, error)
	// HTML returns the current document markup.
	HTML() (string, error)
	// BodyText returns the document body's text content.
	BodyText() (string, error)
	// Close releases the page. Safe to call on every exit path.
	Close() error
}

// SettlePolicy is the wait applied after navigation or view activation before
// the page content is read. The page gives no completion signal for its
// asynchronous refreshes, so the default is a fixed conservative delay.
type SettlePolicy interface {
	Settle(ctx context.Context) error
}

// FixedDelay pauses for a constant duration, or less if ctx ends first.
type FixedDelay struct {
	D time.Duration
}

func (f FixedDelay) Settle(ctx context.Context) error {
	if f.D <= 0 {
		return nil
	}
	t := time.NewTimer(f.D)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoSettle skips settle waits entirely. Used against static snapshots.
type NoSettle struct{}

func (NoSettle) Settle(context.Context) error { return nil }
