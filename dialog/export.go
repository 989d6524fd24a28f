package dialog

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/looplab/fsm"

	"github.com/iabalyuk/dailytracker/report"
	"github.com/iabalyuk/dailytracker/session"
)

const stateChoosingFormat = "choosing_format"

var exportEvents = fsm.Events{
	{Name: "choose", Src: []string{stateChoosingFormat}, Dst: stateDone},
}

// Export renders the user's history as a CSV, XLSX or PDF document.
// Unlike the other dialogs an unknown format ends the dialog.
type Export struct {
	env Env
}

func NewExport(env Env) *Export {
	return &Export{env: env.withDefaults()}
}

func (d *Export) Kind() session.Kind { return session.KindExport }

func (d *Export) Start(ctx context.Context, userID int64) Outcome {
	entries, err := d.env.Store.ListEntries(ctx, userID, "", "")
	if err != nil {
		return failed(d.Kind(), userID, err)
	}
	s := &session.Session{UserID: userID, Kind: d.Kind(), State: stateChoosingFormat}
	if len(entries) > 0 {
		return stay(s, textReply("📤 Choose export format:", exportMenu))
	}

	params, err := d.env.Store.GetParameters(ctx, userID)
	if err != nil {
		return failed(d.Kind(), userID, err)
	}
	if len(params) == 0 {
		return finished(textReply("📤 No parameters set yet. Add parameters first in Settings.", MainMenu))
	}
	columns := append([]string{"Date"}, params...)
	text := fmt.Sprintf("📤 No data yet, but export will include columns:\n📊 %s\n\nChoose format:", strings.Join(columns, ", "))
	return stay(s, textReply(text, exportMenu))
}

func (d *Export) Step(ctx context.Context, s *session.Session, input string) Outcome {
	format, err := report.ParseFormat(input)
	if err != nil {
		return finished(textReply("❌ Invalid option.", MainMenu))
	}
	if _, err := transition(ctx, exportEvents, s.State, "choose"); err != nil {
		return failed(d.Kind(), s.UserID, err)
	}

	params, err := d.env.Store.GetParameters(ctx, s.UserID)
	if err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	entries, err := d.env.Store.ListEntries(ctx, s.UserID, "", "")
	if err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	if len(params) == 0 && len(entries) == 0 {
		return finished(textReply("❌ No parameters set.", MainMenu))
	}

	table := report.Pivot(entries, params)
	data, err := d.env.Renderer.Render(format, table.Columns, table.Rows)
	if err != nil {
		log.Printf("Dialog: export %s failed for user %d: %v", format, s.UserID, err)
		return finished(textReply(fmt.Sprintf("❌ Export error: %v", err), MainMenu))
	}
	if d.env.Debug {
		log.Printf("[Trace Export] user %d: %s, %d rows, %d bytes", s.UserID, format, len(table.Rows), len(data))
	}
	return finished(Reply{
		Keyboard: MainMenu,
		Document: &Document{Filename: format.Filename(), Data: data, Caption: format.Caption()},
	})
}
