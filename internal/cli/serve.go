package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"econcal/internal/scheduler"
	"econcal/internal/storage"
	"econcal/internal/telegram"
)

func newServeCmd() *cobra.Command {
	var flagSkipInitial bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot and the daily update schedule",
		Long: `Starts the Telegram bot, performs an initial update-and-broadcast cycle,
and keeps updating on the configured cron schedule until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, true)
			if err != nil {
				return err
			}
			defer a.close()

			service := newService(a)
			events := storage.NewEventStore(a.db, a.log)
			users := storage.NewUserStore(a.db, a.log)

			bot, err := telegram.NewBot(a.cfg.Telegram.BotToken, events, users, service, a.log)
			if err != nil {
				return err
			}

			sched := scheduler.New(service, bot, a.log, ctx)
			if !flagSkipInitial {
				sched.RunOnce(ctx)
			}
			if err := sched.Start(a.cfg.Scheduler.CronSpec); err != nil {
				return err
			}
			defer sched.Stop()

			a.log.Infow("bot running", "schedule", a.cfg.Scheduler.CronSpec)
			if err := bot.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}

			a.log.Infow("shutting down")
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagSkipInitial, "skip-initial-update", false, "Do not run an update cycle on startup")

	return cmd
}
