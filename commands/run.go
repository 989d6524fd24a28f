package commands

import (
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/iabalyuk/dailytracker/bot"
	"github.com/iabalyuk/dailytracker/dialog"
	"github.com/iabalyuk/dailytracker/worker"
)

func addRun(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the Telegram bot and the reminder scheduler",
		Example: `
TELEGRAM_BOT_TOKEN=123:abc dailytracker run
dailytracker run --token 123:abc --db data/mood_tracker.db --sessions data/sessions
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.RequireToken(); err != nil {
				return err
			}

			store, err := openStorage(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			handler := dialog.NewHandler(openSessions(cfg), dialog.Env{Store: store, Debug: cfg.Debug})
			telegramBot, err := bot.New(bot.Config{Token: cfg.Token, SendRate: cfg.SendRate, Debug: cfg.Debug}, handler)
			if err != nil {
				return err
			}
			scheduler, err := worker.NewScheduler(worker.SchedulerConfig{
				Source:    store,
				Log:       store,
				Notifier:  telegramBot,
				Interval:  cfg.TickInterval,
				Tolerance: cfg.Tolerance,
				Debug:     cfg.Debug,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			scheduler.Start(ctx)
			err = telegramBot.Start(ctx)
			log.Println("Initiating graceful shutdown...")
			scheduler.Stop()
			return err
		},
	}
	cmd.Flags().String("token", "", "Telegram bot token (env TELEGRAM_BOT_TOKEN)")
	cmd.Flags().String("sessions", "", "directory for dialog sessions, empty for memory (env SESSION_DIR)")
	cmd.Flags().Duration("tick", 0, "reminder check interval (env TICK_INTERVAL)")
	cmd.Flags().Duration("tolerance", 0, "reminder window (env REMINDER_TOLERANCE)")

	topLevel.AddCommand(cmd)
}
