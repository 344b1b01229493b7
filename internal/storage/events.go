package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"econcal/internal/event"
)

// StoredEvent is one persisted calendar event. Date is ISO (YYYY-MM-DD).
type StoredEvent struct {
	ID            int64    `db:"id"`
	Date          string   `db:"date"`
	Time          string   `db:"time"`
	Currency      string   `db:"currency"`
	Volatility    int      `db:"volatility"`
	Name          string   `db:"event"`
	Fact          *float64 `db:"fact"`
	Forecast      *float64 `db:"forecast"`
	Previous      *float64 `db:"previous"`
	OriginalIndex int      `db:"original_index"`
}

// EventStore persists scrape batches and serves them back in stored order.
type EventStore struct {
	db  *sqlx.DB
	log *zap.SugaredLogger
}

// NewEventStore creates an event store over the given connection pool.
func NewEventStore(db *sqlx.DB, log *zap.SugaredLogger) *EventStore {
	return &EventStore{db: db, log: log}
}

const insertEvent = `
	INSERT INTO economic_events (date, time, currency, volatility, event, fact, forecast, previous, original_index)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

// OverwriteForDate replaces all stored events for the batch's dates in one
// transaction: delete then insert, rolled back entirely on any failure so
// prior data is never left mixed with new data.
func (s *EventStore) OverwriteForDate(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	dates, err := batchDates(events)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, date := range dates {
		res, err := tx.ExecContext(ctx, `DELETE FROM economic_events WHERE date = $1`, date)
		if err != nil {
			return fmt.Errorf("clearing events for %s: %w", date, err)
		}
		cleared, _ := res.RowsAffected()
		s.log.Debugw("cleared stored events", "date", date, "rows", cleared)
	}

	for _, ev := range events {
		iso, err := ev.ISODate()
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, insertEvent,
			iso, ev.Time, ev.Currency, ev.Volatility, ev.Name,
			ev.Fact, ev.Forecast, ev.Previous, ev.OriginalIndex,
		); err != nil {
			return fmt.Errorf("inserting event %q: %w", ev.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing overwrite: %w", err)
	}

	s.log.Infow("overwrote stored events", "dates", dates, "events", len(events))
	return nil
}

// EventsByDate returns the stored events for an ISO date in original on-page
// order.
func (s *EventStore) EventsByDate(ctx context.Context, isoDate string) ([]StoredEvent, error) {
	var out []StoredEvent
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, date::text AS date, time, currency, volatility, event,
		       fact, forecast, previous, original_index
		FROM economic_events
		WHERE date = $1
		ORDER BY original_index`, isoDate)
	if err != nil {
		return nil, fmt.Errorf("fetching events for %s: %w", isoDate, err)
	}
	return out, nil
}

// AllEvents returns every stored event ordered by date then on-page order.
func (s *EventStore) AllEvents(ctx context.Context) ([]StoredEvent, error) {
	var out []StoredEvent
	err := s.db.SelectContext(ctx, &out, `
		SELECT id, date::text AS date, time, currency, volatility, event,
		       fact, forecast, previous, original_index
		FROM economic_events
		ORDER BY date, original_index`)
	if err != nil {
		return nil, fmt.Errorf("fetching all events: %w", err)
	}
	return out, nil
}

// batchDates collects the batch's distinct ISO dates preserving first-seen
// order. A scrape batch normally carries exactly one.
func batchDates(events []event.Event) ([]string, error) {
	seen := make(map[string]bool, 1)
	dates := make([]string, 0, 1)
	for _, ev := range events {
		iso, err := ev.ISODate()
		if err != nil {
			return nil, err
		}
		if !seen[iso] {
			seen[iso] = true
			dates = append(dates, iso)
		}
	}
	return dates, nil
}
