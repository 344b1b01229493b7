// Package calendar ties the scraper, storage, and distribution layers into
// the daily update pipeline.
package calendar

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"econcal/internal/browser"
	"econcal/internal/event"
	"econcal/internal/scraper"
	"econcal/internal/storage"
)

// ErrNoData reports a scrape that produced zero events; the stored data for
// the date is left untouched in that case.
var ErrNoData = errors.New("no events scraped")

// PageFactory acquires a fresh exclusively-owned page for one scrape session.
type PageFactory func(ctx context.Context) (browser.Page, error)

// Service runs scrape sessions and applies their batches to storage with
// date-scoped overwrite semantics.
type Service struct {
	newPage PageFactory
	opts    scraper.Options
	events  *storage.EventStore
	log     *zap.SugaredLogger
}

// NewService wires the update pipeline.
func NewService(newPage PageFactory, opts scraper.Options, events *storage.EventStore, log *zap.SugaredLogger) *Service {
	return &Service{newPage: newPage, opts: opts, events: events, log: log}
}

// Scrape runs one session for the given view and returns the batch without
// persisting it. The page handle is acquired at session start and released
// on every exit path.
func (s *Service) Scrape(ctx context.Context, view scraper.View) ([]event.Event, error) {
	page, err := s.newPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring page: %w", err)
	}
	defer page.Close()

	return scraper.New(page, s.opts, s.log).Scrape(ctx, view)
}

// Update scrapes the today view and overwrites the stored events for the
// resolved date. An empty scrape is reported as ErrNoData and leaves storage
// untouched.
func (s *Service) Update(ctx context.Context) (int, error) {
	events, err := s.Scrape(ctx, scraper.ViewToday)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		s.log.Warnw("scrape produced no events, skipping overwrite")
		return 0, ErrNoData
	}

	if err := s.events.OverwriteForDate(ctx, events); err != nil {
		return 0, err
	}
	return len(events), nil
}
