package dialog

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/looplab/fsm"

	"github.com/iabalyuk/dailytracker/session"
)

const stateSelecting = "selecting"

var deleteParameterEvents = fsm.Events{
	{Name: "select", Src: []string{stateSelecting}, Dst: stateDone},
}

// DeleteParameter removes one tracked parameter. An unknown name ends the
// dialog without touching storage.
type DeleteParameter struct {
	env Env
}

func NewDeleteParameter(env Env) *DeleteParameter {
	return &DeleteParameter{env: env.withDefaults()}
}

func (d *DeleteParameter) Kind() session.Kind { return session.KindDeleteParameter }

func (d *DeleteParameter) Start(ctx context.Context, userID int64) Outcome {
	params, err := d.env.Store.GetParameters(ctx, userID)
	if err != nil {
		return failed(d.Kind(), userID, err)
	}
	if len(params) == 0 {
		return finished(textReply("No parameters to delete.", SettingsMenu))
	}
	s := &session.Session{
		UserID:  userID,
		Kind:    d.Kind(),
		State:   stateSelecting,
		Scratch: session.Scratch{Parameters: params},
	}
	return stay(s, textReply("🗑️ Select parameter to delete:", deleteMenu(params)))
}

func (d *DeleteParameter) Step(ctx context.Context, s *session.Session, input string) Outcome {
	if _, err := transition(ctx, deleteParameterEvents, s.State, "select"); err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	current, err := d.env.Store.GetParameters(ctx, s.UserID)
	if err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	remaining, err := removeParameter(current, input)
	if errors.Is(err, ErrParameterNotFound) {
		return finished(textReply("Parameter not found.", SettingsMenu))
	}
	if err := d.env.Store.SetParameters(ctx, s.UserID, remaining); err != nil {
		return failed(d.Kind(), s.UserID, err)
	}
	return finished(textReply(fmt.Sprintf("✅ Deleted parameter '%s'.", input), SettingsMenu))
}

func removeParameter(params []string, name string) ([]string, error) {
	i := slices.Index(params, name)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrParameterNotFound, name)
	}
	return slices.Delete(slices.Clone(params), i, i+1), nil
}
