package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"econcal/internal/browser"
	"econcal/internal/event"
)

// CalendarURL is the public economic-calendar page.
const CalendarURL = "https://ru.investing.com/economic-calendar/"

// Options tune one scraper instance. Zero values fall back to the defaults;
// the selector lists and the trailing column order are the knobs expected to
// move when the site layout drifts.
type Options struct {
	URL               string
	NavigationTimeout time.Duration
	LocatorTimeout    time.Duration

	// ViewSettle runs after tab activation, ContentSettle before the table
	// is read. Both are heuristic waits, not completion signals.
	ViewSettle    browser.SettlePolicy
	ContentSettle browser.SettlePolicy

	DateSelectors []string
	ViewLocators  ViewLocators
	RowSelectors  []string
	TrailingOrder ColumnOrder

	// Now supplies the wall clock for the date-resolution fallback.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.URL == "" {
		o.URL = CalendarURL
	}
	if o.NavigationTimeout == 0 {
		o.NavigationTimeout = 30 * time.Second
	}
	if o.LocatorTimeout == 0 {
		o.LocatorTimeout = 3 * time.Second
	}
	if o.ViewSettle == nil {
		o.ViewSettle = browser.FixedDelay{D: 3 * time.Second}
	}
	if o.ContentSettle == nil {
		o.ContentSettle = browser.FixedDelay{D: 2 * time.Second}
	}
	if o.DateSelectors == nil {
		o.DateSelectors = DefaultDateSelectors
	}
	if o.ViewLocators == nil {
		o.ViewLocators = DefaultViewLocators
	}
	if o.RowSelectors == nil {
		o.RowSelectors = DefaultRowSelectors
	}
	// A zero order would map every cell onto the same column; treat it as
	// unset.
	if o.TrailingOrder == (ColumnOrder{}) {
		o.TrailingOrder = DefaultColumnOrder
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Scraper runs scrape sessions against a single exclusively-owned page.
// Sessions may run sequentially but the page must never be shared across
// concurrent Scrape calls.
type Scraper struct {
	page browser.Page
	opts Options
	log  *zap.SugaredLogger
}

// New builds a Scraper over the given page handle. The caller retains
// ownership of the page and releases it when the session ends.
func New(page browser.Page, opts Options, log *zap.SugaredLogger) *Scraper {
	return &Scraper{page: page, opts: opts.withDefaults(), log: log}
}

// Scrape runs one session for the given view: position the view, resolve the
// session date, extract rows, assemble events. Navigation and view-selection
// failures abort the session; everything downstream degrades to a smaller or
// empty batch.
func (s *Scraper) Scrape(ctx context.Context, view View) ([]event.Event, error) {
	log := s.log.With("view", view)

	if err := s.page.Navigate(ctx, s.opts.URL, s.opts.NavigationTimeout); err != nil {
		return nil, err
	}

	if err := SelectView(ctx, s.page, view, s.opts.ViewLocators[view], s.opts.LocatorTimeout); err != nil {
		return nil, err
	}
	if err := s.opts.ViewSettle.Settle(ctx); err != nil {
		return nil, err
	}

	date, err := s.resolveDate(view)
	if err != nil {
		return nil, err
	}
	log.Infow("resolved session date", "date", date)

	// Let the table refresh catch up with the view switch before reading it.
	if err := s.opts.ContentSettle.Settle(ctx); err != nil {
		return nil, err
	}

	doc, err := s.document()
	if err != nil {
		return nil, err
	}

	extractor := &RowExtractor{
		RowSelectors:  s.opts.RowSelectors,
		TrailingOrder: s.opts.TrailingOrder,
		log:           log,
	}
	rows := extractor.Extract(doc)
	events := Assemble(rows, date)

	log.Infow("scrape session complete", "events", len(events))
	return events, nil
}

// resolveDate harvests the page's redundant date displays and resolves them
// through the candidate cascade, falling back to the view's wall-clock date.
func (s *Scraper) resolveDate(view View) (string, error) {
	doc, err := s.document()
	if err != nil {
		return "", err
	}

	candidates := HarvestDateCandidates(doc, s.opts.DateSelectors)
	bodyText, err := s.page.BodyText()
	if err != nil {
		return "", fmt.Errorf("reading page text: %w", err)
	}

	return ResolveSessionDate(candidates, bodyText, view.FallbackDate(s.opts.Now())), nil
}

func (s *Scraper) document() (*goquery.Document, error) {
	html, err := s.page.HTML()
	if err != nil {
		return nil, fmt.Errorf("reading page markup: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing page markup: %w", err)
	}
	return doc, nil
}
