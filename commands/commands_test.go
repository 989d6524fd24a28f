package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iabalyuk/dailytracker/report"
	"github.com/iabalyuk/dailytracker/storage"
)

func TestExportReport(t *testing.T) {
	ctx := context.Background()
	gw := storage.New()
	if _, _, err := exportReport(ctx, gw, 1, report.FormatCSV); err == nil {
		t.Fatalf("expected an error for a user without data")
	}

	gw.SetParameters(ctx, 1, []string{"Mood"})
	gw.AppendEntry(ctx, 1, "2026-02-01", "Mood", 6)
	gw.AppendEntry(ctx, 1, "2026-02-02", "Mood", 8)
	data, rows, err := exportReport(ctx, gw, 1, report.FormatCSV)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if rows != 2 || string(data) != "date,Mood\n2026-02-01,6\n2026-02-02,8\n" {
		t.Fatalf("rows = %d, data = %q", rows, data)
	}
}

func TestPrintReminders(t *testing.T) {
	ctx := context.Background()
	gw := storage.New()
	var buf bytes.Buffer
	if err := printReminders(ctx, &buf, gw, gw, time.Now()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No reminders configured.") {
		t.Fatalf("output = %q", buf.String())
	}

	gw.SetTimezone(ctx, 42, "Asia/Tokyo")
	gw.SetReminderTimes(ctx, 42, []string{"21:30"})
	gw.MarkSent(ctx, 42, "21:30", "2026-04-01")
	buf.Reset()
	now := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	if err := printReminders(ctx, &buf, gw, gw, now); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"42", "Asia/Tokyo", "21:30", "2026-04-02 09:00", "2026-04-01"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output %q is missing %q", out, want)
		}
	}
}

func TestExportCommand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DAILYTRACKER_CONFIG_PATH", dir)
	dbPath := filepath.Join(dir, "tracker.db")

	db, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	db.SetParameters(ctx, 7, []string{"Energy", "Mood"})
	db.Close()

	out := filepath.Join(dir, "out.xlsx")
	cmd := New()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"export", "--db", dbPath, "--user", "7", "--format", "xlsx", "--output", out})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(stdout.String(), "Wrote "+out+" (0 days)") {
		t.Fatalf("stdout = %q", stdout.String())
	}
	info, err := os.Stat(out)
	if err != nil || info.Size() == 0 {
		t.Fatalf("report not written: %v", err)
	}
}

func TestExportCommandRejectsBadFlags(t *testing.T) {
	for _, args := range [][]string{
		{"export"},
		{"export", "--user", "1", "--format", "docx"},
	} {
		cmd := New()
		cmd.SetArgs(args)
		if err := cmd.Execute(); err == nil {
			t.Fatalf("%v: expected error", args)
		}
	}
}

func TestRunRequiresToken(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DAILYTRACKER_CONFIG_PATH", dir)
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	os.Unsetenv("TELEGRAM_BOT_TOKEN")

	cmd := New()
	cmd.SetArgs([]string{"run", "--db", filepath.Join(dir, "x.db")})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "token") {
		t.Fatalf("expected a missing token error, got %v", err)
	}
}
