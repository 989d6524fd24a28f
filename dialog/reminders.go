package dialog

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"github.com/iabalyuk/dailytracker/localtime"
	"github.com/iabalyuk/dailytracker/session"
)

const stateAwaitingTime = "awaiting_time"

var reminderEvents = fsm.Events{
	{Name: "set", Src: []string{stateAwaitingTime}, Dst: stateDone},
}

// SetReminders replaces the user's reminder with a single HH:MM time
type SetReminders struct {
	env Env
}

func NewSetReminders(env Env) *SetReminders {
	return &SetReminders{env: env.withDefaults()}
}

func (d *SetReminders) Kind() session.Kind { return session.KindSetReminders }

func (d *SetReminders) Start(_ context.Context, userID int64) Outcome {
	s := &session.Session{UserID: userID, Kind: d.Kind(), State: stateAwaitingTime}
	return stay(s, textReply("⏰ Enter reminder time in HH:MM format (e.g., 21:30):", cancelMenu))
}

func (d *SetReminders) Step(ctx context.Context, s *session.Session, input string) Outcome {
	if _, _, err := localtime.ParseClock(input); err != nil {
		return stay(s, textReply("⚠️ Invalid format. Please use HH:MM format (e.g., 21:30):", cancelMenu))
	}
	if _, err := transition(ctx, reminderEvents, s.State, "set"); err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	if err := d.env.Store.SetReminderTimes(ctx, s.UserID, []string{input}); err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	zone, err := d.env.Store.GetTimezone(ctx, s.UserID)
	if err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	return finished(textReply(fmt.Sprintf("✅ Reminder set for %s daily (%s)!", input, zone), SettingsMenu))
}
