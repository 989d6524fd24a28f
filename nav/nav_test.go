package nav

import (
	"errors"
	"testing"

	"github.com/iabalyuk/dailytracker/session"
)

func TestParse(t *testing.T) {
	cases := map[string]Token{
		"Cancel":                TokenCancel,
		"  Settings \n":         TokenSettings,
		"Back to Main":          TokenBackToMain,
		"Estimate":              TokenEstimate,
		"Export results":        TokenExport,
		"Add parameter":         TokenAddParameter,
		"Delete parameter":      TokenDeleteParameter,
		"Set timezone":          TokenSetTimezone,
		"Set reminders":         TokenSetReminders,
		"/start":                TokenStart,
		"/start@daily_trackbot": TokenStart,
		"/help":                 TokenHelp,
		"/cancel":               TokenCancel,
		"Donate":                TokenDonate,
		"settings":              TokenNone,
		"7":                     TokenNone,
		"Mood":                  TokenNone,
		"":                      TokenNone,
	}
	for in, want := range cases {
		if got := Parse(in); got != want {
			t.Errorf("Parse(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEntryTokens(t *testing.T) {
	entries := map[Token]session.Kind{
		TokenEstimate:        session.KindRateParameters,
		TokenExport:          session.KindExport,
		TokenAddParameter:    session.KindAddParameter,
		TokenDeleteParameter: session.KindDeleteParameter,
		TokenSetTimezone:     session.KindSetTimezone,
		TokenSetReminders:    session.KindSetReminders,
	}
	for tok, kind := range entries {
		if tok.Entry() != kind {
			t.Errorf("%v.Entry() = %v, want %v", tok, tok.Entry(), kind)
		}
	}
	for _, tok := range []Token{TokenCancel, TokenSettings, TokenBackToMain, TokenStart, TokenHelp, TokenDonate, TokenNone} {
		if tok.Entry() != session.KindNone {
			t.Errorf("%v should not start a dialog", tok)
		}
	}
}

func TestResolveNavigationPreemptsDialog(t *testing.T) {
	store := session.NewMemoryStore()
	_ = store.Save(&session.Session{UserID: 1, Kind: session.KindRateParameters, State: "awaiting_rating",
		Scratch: session.Scratch{Parameters: []string{"Mood"}}})
	r := NewResolver(store)

	action, err := r.Resolve(1, "Settings")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if action.Kind != ActionNavigate || action.Token != TokenSettings {
		t.Fatalf("unexpected action %+v", action)
	}
	if action.Preempted != session.KindRateParameters {
		t.Fatalf("preempted = %v", action.Preempted)
	}
	if got, _ := store.Load(1); got != nil {
		t.Fatalf("session must be destroyed before the reply, got %+v", got)
	}
}

func TestResolveEntryStartsFresh(t *testing.T) {
	store := session.NewMemoryStore()
	_ = store.Save(&session.Session{UserID: 1, Kind: session.KindAddParameter, State: "collecting",
		Scratch: session.Scratch{Queue: []string{"Mood"}}})
	r := NewResolver(store)

	action, err := r.Resolve(1, "Estimate")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if action.Kind != ActionStart || action.Dialog != session.KindRateParameters {
		t.Fatalf("unexpected action %+v", action)
	}
	if got, _ := store.Load(1); got != nil {
		t.Fatalf("old scratch must not leak into the new dialog: %+v", got)
	}
}

func TestResolveContinueAndReject(t *testing.T) {
	store := session.NewMemoryStore()
	r := NewResolver(store)

	action, _ := r.Resolve(1, "hello")
	if action.Kind != ActionReject {
		t.Fatalf("idle text should be rejected, got %+v", action)
	}

	_ = store.Save(&session.Session{UserID: 1, Kind: session.KindSetReminders, State: "awaiting_time"})
	action, _ = r.Resolve(1, " 09:30 ")
	if action.Kind != ActionContinue || action.Text != "09:30" || action.Session == nil {
		t.Fatalf("expected continue with trimmed text, got %+v", action)
	}
	if got, _ := store.Load(1); got == nil {
		t.Fatalf("continue must not touch the session")
	}
}

type brokenStore struct{ session.Store }

func (brokenStore) Load(int64) (*session.Session, error) { return nil, errors.New("disk gone") }

func TestResolveStoreError(t *testing.T) {
	r := NewResolver(brokenStore{})
	if _, err := r.Resolve(1, "Settings"); err == nil {
		t.Fatalf("expected error")
	}
}
