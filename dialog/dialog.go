// Package dialog implements the multi-step conversations of the tracker.
//
// Every dialog is an explicit state machine: Start opens a session and Step
// maps (session, input) to the next session and a reply. The session is the
// only continuation, so a step can be replayed from storage after a restart.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/looplab/fsm"

	"github.com/iabalyuk/dailytracker/localtime"
	"github.com/iabalyuk/dailytracker/report"
	"github.com/iabalyuk/dailytracker/session"
	"github.com/iabalyuk/dailytracker/storage"
)

var (
	// ErrInvalidInput marks malformed dialog input; the dialog re-prompts
	ErrInvalidInput = errors.New("invalid input")
	// ErrParameterNotFound marks a delete of a parameter the user does not track
	ErrParameterNotFound = errors.New("parameter not found")
)

// Terminal state shared by every dialog machine
const stateDone = "done"

// Outcome is the result of starting or stepping a dialog. A nil Next means
// the dialog is over and the session must be destroyed.
type Outcome struct {
	Reply Reply
	Next  *session.Session
}

// Dialog is the contract shared by all conversations
type Dialog interface {
	Kind() session.Kind
	Start(ctx context.Context, userID int64) Outcome
	Step(ctx context.Context, s *session.Session, input string) Outcome
}

// Renderer produces report files for the export dialog
type Renderer interface {
	Render(format report.Format, columns []string, rows [][]string) ([]byte, error)
}

// Env carries the collaborators dialogs depend on
type Env struct {
	Store    storage.Gateway
	Renderer Renderer
	Now      func() time.Time // defaults to time.Now
	Rand     func() float64   // defaults to math/rand
	Debug    bool
}

func (e Env) withDefaults() Env {
	if e.Now == nil {
		e.Now = time.Now
	}
	if e.Rand == nil {
		e.Rand = rand.Float64
	}
	if e.Renderer == nil {
		e.Renderer = report.NewRenderer()
	}
	return e
}

// localDay returns today's date in the user's timezone
func (e Env) localDay(ctx context.Context, userID int64) (string, error) {
	zone, err := e.Store.GetTimezone(ctx, userID)
	if err != nil {
		return "", err
	}
	return localtime.Day(e.Now(), localtime.Location(zone)), nil
}

// transition fires event on a machine positioned at from and returns the new state
func transition(ctx context.Context, events fsm.Events, from, event string) (string, error) {
	m := fsm.NewFSM(from, events, fsm.Callbacks{})
	if err := m.Event(ctx, event); err != nil {
		return from, fmt.Errorf("transition %q from %q: %w", event, from, err)
	}
	return m.Current(), nil
}

// finished ends a dialog with reply
func finished(reply Reply) Outcome {
	return Outcome{Reply: reply}
}

// failed ends a dialog after a storage or state failure
func failed(kind session.Kind, userID int64, err error) Outcome {
	log.Printf("Dialog: %s failed for user %d: %v", kind, userID, err)
	if storage.IsStorageError(err) {
		return finished(textReply("❌ Could not save your data right now. Please try again later.", MainMenu))
	}
	return finished(textReply("❌ Something went wrong. Please start again.", MainMenu))
}

// stay keeps the dialog where it is and re-prompts
func stay(s *session.Session, reply Reply) Outcome {
	return Outcome{Reply: reply, Next: s}
}
