package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iabalyuk/dailytracker/report"
	"github.com/iabalyuk/dailytracker/storage"
)

func addExport(topLevel *cobra.Command) {
	var (
		userID int64
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a user's history as CSV, XLSX or PDF",
		Example: `
dailytracker export --user 123456 --format xlsx --output tracker.xlsx
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if userID == 0 {
				return errors.New("--user is required")
			}
			f, err := report.ParseFormat(format)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store, err := openStorage(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			data, rows, err := exportReport(cmd.Context(), store, userID, f)
			if err != nil {
				return err
			}
			if output == "" {
				output = f.Filename()
			}
			if err := os.WriteFile(output, data, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d days)\n", output, rows)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user", 0, "Telegram user id")
	cmd.Flags().StringVar(&format, "format", "csv", "csv, xlsx or pdf")
	cmd.Flags().StringVar(&output, "output", "", "output file, defaults to daily_tracker.<format>")

	topLevel.AddCommand(cmd)
}

// exportReport renders the same report the export dialog sends
func exportReport(ctx context.Context, gw storage.Gateway, userID int64, format report.Format) ([]byte, int, error) {
	params, err := gw.GetParameters(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	entries, err := gw.ListEntries(ctx, userID, "", "")
	if err != nil {
		return nil, 0, err
	}
	if len(params) == 0 && len(entries) == 0 {
		return nil, 0, fmt.Errorf("user %d has no parameters and no entries", userID)
	}
	table := report.Pivot(entries, params)
	data, err := report.NewRenderer().Render(format, table.Columns, table.Rows)
	if err != nil {
		return nil, 0, err
	}
	return data, len(table.Rows), nil
}
