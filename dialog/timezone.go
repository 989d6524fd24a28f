package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/looplab/fsm"

	"github.com/iabalyuk/dailytracker/localtime"
	"github.com/iabalyuk/dailytracker/session"
)

const (
	stateAwaitingChoice   = "awaiting_choice"
	stateAwaitingZoneName = "awaiting_zone_name"

	maxZoneSuggestions = 5
)

var timezoneEvents = fsm.Events{
	{Name: "other", Src: []string{stateAwaitingChoice}, Dst: stateAwaitingZoneName},
	{Name: "set", Src: []string{stateAwaitingChoice, stateAwaitingZoneName}, Dst: stateDone},
}

// SetTimezone stores the user's zone, picked from city presets or typed as
// an IANA identifier
type SetTimezone struct {
	env Env
}

func NewSetTimezone(env Env) *SetTimezone {
	return &SetTimezone{env: env.withDefaults()}
}

func (d *SetTimezone) Kind() session.Kind { return session.KindSetTimezone }

func (d *SetTimezone) Start(_ context.Context, userID int64) Outcome {
	s := &session.Session{UserID: userID, Kind: d.Kind(), State: stateAwaitingChoice}
	return stay(s, textReply("🌍 Choose your timezone or type 'Other' to enter a custom one:", timezoneMenu))
}

func (d *SetTimezone) Step(ctx context.Context, s *session.Session, input string) Outcome {
	if zone, ok := presetZone(input); ok {
		return d.commit(ctx, s, zone, fmt.Sprintf("✅ Timezone set to %s (%s)", input, zone))
	}
	if input == labelOtherZone {
		prompt := textReply("🌍 Please enter your timezone (e.g., Europe/Paris):", cancelMenu)
		if s.State == stateAwaitingZoneName {
			return stay(s, prompt)
		}
		state, err := transition(ctx, timezoneEvents, s.State, "other")
		if err != nil {
			return failed(d.Kind(), s.UserID, err)
		}
		next := s.Clone()
		next.State = state
		return stay(next, prompt)
	}

	// Exact match first; suggestions are only a fallback
	if localtime.Known(input) {
		return d.commit(ctx, s, input, fmt.Sprintf("✅ Timezone set to %s", input))
	}
	if matches := localtime.Suggest(input, maxZoneSuggestions); len(matches) > 0 {
		return stay(s, textReply("⚠️ Timezone not found. Did you mean?\n- "+strings.Join(matches, "\n- "), timezoneMenu))
	}
	return stay(s, textReply("⚠️ Timezone not recognized. Please choose from the menu.", timezoneMenu))
}

func (d *SetTimezone) commit(ctx context.Context, s *session.Session, zone, text string) Outcome {
	if _, err := transition(ctx, timezoneEvents, s.State, "set"); err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	if err := d.env.Store.SetTimezone(ctx, s.UserID, zone); err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	return finished(textReply(text, SettingsMenu))
}
