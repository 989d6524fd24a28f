package dialog

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/looplab/fsm"
	"github.com/rivo/uniseg"

	"github.com/iabalyuk/dailytracker/session"
)

const (
	stateCollecting         = "collecting"
	stateAwaitingCustomName = "awaiting_custom_name"

	// MaxParameterName is the longest custom name, in user-perceived characters
	MaxParameterName = 40
)

var addParameterEvents = fsm.Events{
	{Name: "custom", Src: []string{stateCollecting}, Dst: stateAwaitingCustomName},
	{Name: "back", Src: []string{stateAwaitingCustomName}, Dst: stateCollecting},
	{Name: "named", Src: []string{stateAwaitingCustomName}, Dst: stateCollecting},
	{Name: "finish", Src: []string{stateCollecting, stateAwaitingCustomName}, Dst: stateDone},
}

// AddParameter queues preset or custom parameter names and adds them to the
// tracked set on Finish
type AddParameter struct {
	env Env
}

func NewAddParameter(env Env) *AddParameter {
	return &AddParameter{env: env.withDefaults()}
}

func (d *AddParameter) Kind() session.Kind { return session.KindAddParameter }

func (d *AddParameter) Start(_ context.Context, userID int64) Outcome {
	s := &session.Session{UserID: userID, Kind: d.Kind(), State: stateCollecting}
	return stay(s, textReply("📊 Choose parameters to track or add custom ones:", parameterMenu))
}

func (d *AddParameter) Step(ctx context.Context, s *session.Session, input string) Outcome {
	switch input {
	case labelFinish:
		return d.finish(ctx, s)
	case labelCustomParameter:
		prompt := textReply("✏️ Enter custom parameter name:", customNameMenu)
		if s.State == stateAwaitingCustomName {
			return stay(s, prompt)
		}
		return d.move(ctx, s, "custom", prompt)
	}

	if s.State == stateAwaitingCustomName {
		if input == labelBackToMenu {
			return d.move(ctx, s, "back", textReply("📊 Choose parameters to track or add custom ones:", parameterMenu))
		}
		name, err := validateParameterName(input)
		if err != nil {
			return stay(s, textReply(fmt.Sprintf("⚠️ Name must be 1-%d characters.\n✏️ Enter custom parameter name:", MaxParameterName), customNameMenu))
		}
		return d.enqueue(ctx, s, name, "named")
	}

	if slices.Contains(PresetParameters, input) {
		return d.enqueue(ctx, s, input, "")
	}
	return stay(s, textReply("Please choose from the menu:", parameterMenu))
}

func (d *AddParameter) move(ctx context.Context, s *session.Session, event string, reply Reply) Outcome {
	state, err := transition(ctx, addParameterEvents, s.State, event)
	if err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	next := s.Clone()
	next.State = state
	next.Scratch.AwaitingCustomName = next.State == stateAwaitingCustomName
	return stay(next, reply)
}

func (d *AddParameter) enqueue(ctx context.Context, s *session.Session, name, event string) Outcome {
	if slices.Contains(s.Scratch.Queue, name) {
		reply := textReply(fmt.Sprintf("⚠️ '%s' already in queue.\nChoose another parameter:", name), parameterMenu)
		if s.State == stateAwaitingCustomName {
			// the preset menu is shown, so the machine must be collecting again
			return d.move(ctx, s, "back", reply)
		}
		return stay(s, reply)
	}
	next := s.Clone()
	if event != "" {
		state, err := transition(ctx, addParameterEvents, s.State, event)
		if err != nil {
			return failed(d.Kind(), s.UserID, err)
		}
		next.State = state
		next.Scratch.AwaitingCustomName = false
	}
	next.Scratch.Queue = append(next.Scratch.Queue, name)
	text := fmt.Sprintf("✅ Added '%s' to queue.\n📋 Queued: %s\nChoose more parameters or press Finish:",
		name, strings.Join(next.Scratch.Queue, ", "))
	return stay(next, textReply(text, parameterMenu))
}

func (d *AddParameter) finish(ctx context.Context, s *session.Session) Outcome {
	if _, err := transition(ctx, addParameterEvents, s.State, "finish"); err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	if len(s.Scratch.Queue) == 0 {
		return finished(textReply("No new parameters added.", SettingsMenu))
	}
	current, err := d.env.Store.GetParameters(ctx, s.UserID)
	if err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	if err := d.env.Store.SetParameters(ctx, s.UserID, union(current, s.Scratch.Queue)); err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	return finished(textReply(fmt.Sprintf("✅ Added parameters: %s", strings.Join(s.Scratch.Queue, ", ")), SettingsMenu))
}

// validateParameterName trims the name and checks its grapheme length
func validateParameterName(input string) (string, error) {
	name := strings.TrimSpace(input)
	n := uniseg.GraphemeClusterCount(name)
	if n == 0 || n > MaxParameterName {
		return "", fmt.Errorf("%w: parameter name has %d characters", ErrInvalidInput, n)
	}
	return name, nil
}

// union merges a and b into a sorted set
func union(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, list := range [][]string{a, b} {
		for _, v := range list {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Strings(out)
	return out
}
