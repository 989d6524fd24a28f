package nav

import (
	"fmt"
	"strings"

	"github.com/iabalyuk/dailytracker/session"
)

// ActionKind is the routing decision for one message
type ActionKind int

const (
	// ActionReject: no dialog is active and the text means nothing globally
	ActionReject ActionKind = iota
	// ActionContinue: forward the text to the active dialog's step
	ActionContinue
	// ActionStart: begin a fresh dialog
	ActionStart
	// ActionNavigate: leave any dialog and show a menu
	ActionNavigate
)

// Action is the Resolver's output
type Action struct {
	Kind    ActionKind
	Token   Token            // navigation target for ActionNavigate, entry token for ActionStart
	Dialog  session.Kind     // dialog to start for ActionStart
	Session *session.Session // active session for ActionContinue
	Text    string           // trimmed input for ActionContinue
	// Preempted is the dialog that was discarded, KindNone if there was none
	Preempted session.Kind
}

// Resolver routes inbound text. Navigation is checked before any dialog sees
// the input, and the active session is destroyed before the caller builds a
// reply, so a navigation press never produces a dialog-local message.
type Resolver struct {
	sessions session.Store
}

// NewResolver creates a resolver over the session store
func NewResolver(sessions session.Store) *Resolver {
	return &Resolver{sessions: sessions}
}

// Resolve decides what to do with text from userID
func (r *Resolver) Resolve(userID int64, text string) (Action, error) {
	current, err := r.sessions.Load(userID)
	if err != nil {
		return Action{}, fmt.Errorf("failed to load session for user %d: %w", userID, err)
	}

	token := Parse(text)
	if token != TokenNone {
		action := Action{Kind: ActionNavigate, Token: token}
		if kind := token.Entry(); kind != session.KindNone {
			action.Kind = ActionStart
			action.Dialog = kind
		}
		if current.Active() {
			action.Preempted = current.Kind
			if err := r.sessions.Delete(userID); err != nil {
				return Action{}, fmt.Errorf("failed to discard session for user %d: %w", userID, err)
			}
		}
		return action, nil
	}

	if current.Active() {
		return Action{Kind: ActionContinue, Session: current, Text: strings.TrimSpace(text)}, nil
	}
	return Action{Kind: ActionReject}, nil
}
