package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"econcal/internal/browser"
	"econcal/internal/calendar"
	"econcal/internal/scraper"
)

func newScrapeCmd() *cobra.Command {
	var (
		flagView     string
		flagFromFile string
		flagFormat   string
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run one scrape session and print the batch",
		Long: `Runs a single scrape session for the today or tomorrow view and prints the
extracted events without touching the database. With --from-file the session
runs against a saved HTML snapshot instead of a live browser.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := parseView(flagView)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer a.close()

			opts := scraperOptions(a.cfg)
			factory := func(context.Context) (browser.Page, error) {
				return browser.NewRodPage()
			}
			if flagFromFile != "" {
				// Snapshots render instantly; settling would only slow tests
				// and offline runs down.
				opts.ViewSettle = browser.NoSettle{}
				opts.ContentSettle = browser.NoSettle{}
				factory = func(context.Context) (browser.Page, error) {
					return browser.SnapshotFromFile(flagFromFile)
				}
			}

			service := calendar.NewService(factory, opts, nil, a.log)
			events, err := service.Scrape(cmd.Context(), view)
			if err != nil {
				return err
			}

			return printEvents(cmd.OutOrStdout(), events, flagFormat)
		},
	}

	cmd.Flags().StringVar(&flagView, "view", "today", "Calendar view: today or tomorrow")
	cmd.Flags().StringVar(&flagFromFile, "from-file", "", "Scrape a saved HTML snapshot instead of the live page")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")

	return cmd
}

func newUpdateCmd() *cobra.Command {
	var flagTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Scrape the today view and overwrite the stored events",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
			defer cancel()

			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			count, err := newService(a).Update(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "updated %d events\n", count)
			return nil
		},
	}

	cmd.Flags().DurationVar(&flagTimeout, "timeout", 3*time.Minute, "Overall update deadline")

	return cmd
}

func parseView(s string) (scraper.View, error) {
	switch scraper.View(s) {
	case scraper.ViewToday:
		return scraper.ViewToday, nil
	case scraper.ViewTomorrow:
		return scraper.ViewTomorrow, nil
	default:
		return "", fmt.Errorf("unknown view %q (want today or tomorrow)", s)
	}
}
