package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/iabalyuk/dailytracker/localtime"
	"github.com/iabalyuk/dailytracker/worker"
)

func addReminders(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List every user with a daily reminder",
		Example: `
dailytracker reminders --db data/mood_tracker.db
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStorage(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			return printReminders(cmd.Context(), cmd.OutOrStdout(), store, store, time.Now())
		},
	}
	topLevel.AddCommand(cmd)
}

// printReminders renders one row per user: zone, reminder times, local
// clock and the day each reminder was last delivered
func printReminders(ctx context.Context, w io.Writer, source worker.ReminderSource, sent worker.DispatchLog, now time.Time) error {
	users, err := source.ListUsersWithReminders(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		_, _ = fmt.Fprintln(w, "No reminders configured.")
		return nil
	}

	bold := color.New(color.Bold)
	faint := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("USER"), bold.Sprint("TIMEZONE"), bold.Sprint("TIMES"), bold.Sprint("LOCAL NOW"), bold.Sprint("LAST SENT"))
	for _, u := range users {
		local := now.In(localtime.Location(u.Timezone))
		var last []string
		for _, t := range u.Times {
			day, err := sent.LastSent(ctx, u.UserID, t)
			if err != nil {
				return err
			}
			if day == "" {
				day = faint.Sprint("never")
			}
			last = append(last, day)
		}
		tbl.AddRow(u.UserID, u.Timezone, strings.Join(u.Times, ", "), local.Format("2006-01-02 15:04"), strings.Join(last, ", "))
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(w, tbl)
	return nil
}
