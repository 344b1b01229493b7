package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"econcal/internal/storage"
)

func newEventsCmd() *cobra.Command {
	var (
		flagDate   string
		flagAll    bool
		flagFormat string
	)

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print stored events",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer a.close()

			store := storage.NewEventStore(a.db, a.log)

			var events []storage.StoredEvent
			if flagAll {
				events, err = store.AllEvents(cmd.Context())
			} else {
				date := flagDate
				if date == "" {
					date = time.Now().Format("2006-01-02")
				}
				events, err = store.EventsByDate(cmd.Context(), date)
			}
			if err != nil {
				return err
			}

			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no stored events")
				return nil
			}
			return printStoredEvents(cmd.OutOrStdout(), events, flagFormat)
		},
	}

	cmd.Flags().StringVar(&flagDate, "date", "", "ISO date (YYYY-MM-DD), default today")
	cmd.Flags().BoolVar(&flagAll, "all", false, "Print every stored event")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")

	return cmd
}
