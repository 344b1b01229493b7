// Package cli defines the econcal command tree.
package cli

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"econcal/internal/browser"
	"econcal/internal/calendar"
	"econcal/internal/config"
	"econcal/internal/logging"
	"econcal/internal/scraper"
	"econcal/internal/storage"
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "econcal",
		Short: "Economic-calendar scraper and Telegram bot",
		Long: `Scrapes the public economic-calendar page, stores the day's events with
date-scoped overwrite semantics, and fans them out to Telegram subscribers.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newScrapeCmd(),
		newUpdateCmd(),
		newEventsCmd(),
		newServeCmd(),
	)

	return cmd
}

// app bundles the dependencies the database-backed commands share.
type app struct {
	cfg *config.Config
	log *zap.SugaredLogger
	db  *sqlx.DB
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func newApp(ctx context.Context, needDB bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.App.LogLevel, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	a := &app{cfg: cfg, log: log}
	if needDB {
		db, err := storage.Open(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			return nil, err
		}
		a.db = db
	}
	return a, nil
}

// scraperOptions maps the configured timings onto scraper options.
func scraperOptions(cfg *config.Config) scraper.Options {
	return scraper.Options{
		URL:               cfg.Scraper.URL,
		NavigationTimeout: cfg.Scraper.NavigationTimeout,
		LocatorTimeout:    cfg.Scraper.LocatorTimeout,
		ViewSettle:        browser.FixedDelay{D: cfg.Scraper.ViewSettle},
		ContentSettle:     browser.FixedDelay{D: cfg.Scraper.ContentSettle},
	}
}

// newService builds the update pipeline over live browser sessions.
func newService(a *app) *calendar.Service {
	factory := func(context.Context) (browser.Page, error) {
		return browser.NewRodPage()
	}
	events := storage.NewEventStore(a.db, a.log)
	return calendar.NewService(factory, scraperOptions(a.cfg), events, a.log)
}
