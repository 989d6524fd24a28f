package dialog

import (
	"context"
	"log"
	"sync"

	"github.com/iabalyuk/dailytracker/nav"
	"github.com/iabalyuk/dailytracker/session"
)

const (
	welcomeText = "👋 Welcome to Daily Parameter Tracker!\nTrack your daily metrics like mood, energy, motivation, etc."
	helpText    = "📖 How it works:\n" +
		"• Settings → Add parameter to choose what you track\n" +
		"• Estimate to rate each parameter from 1 to 10\n" +
		"• Settings → Set reminders for a daily nudge\n" +
		"• Export results for CSV, XLSX or PDF\n\n" +
		"Press Cancel or Back to Main at any time to leave a dialog."
	rejectText = "Please use the menu buttons:"
	brokenText = "❌ Something went wrong. Please try again."
)

// Handler turns one inbound message into one reply. Messages of the same
// user are handled one at a time; different users proceed concurrently.
type Handler struct {
	resolver *nav.Resolver
	sessions session.Store
	dialogs  map[session.Kind]Dialog
	locks    userLocks
	debug    bool
}

// NewHandler wires the six dialogs over the given stores
func NewHandler(sessions session.Store, env Env) *Handler {
	h := &Handler{
		resolver: nav.NewResolver(sessions),
		sessions: sessions,
		dialogs:  make(map[session.Kind]Dialog),
		debug:    env.Debug,
	}
	for _, d := range []Dialog{
		NewRateParameters(env),
		NewAddParameter(env),
		NewDeleteParameter(env),
		NewSetTimezone(env),
		NewSetReminders(env),
		NewExport(env),
	} {
		h.dialogs[d.Kind()] = d
	}
	return h
}

// HandleMessage processes text sent by userID
func (h *Handler) HandleMessage(ctx context.Context, userID int64, text string) Reply {
	unlock := h.locks.lock(userID)
	defer unlock()

	action, err := h.resolver.Resolve(userID, text)
	if err != nil {
		log.Printf("Dialog: session lookup failed for user %d: %v", userID, err)
		return textReply(brokenText, MainMenu)
	}
	if h.debug {
		log.Printf("[Trace Dialog] user %d: action=%d token=%s dialog=%s preempted=%s",
			userID, action.Kind, action.Token, action.Dialog, action.Preempted)
	}

	switch action.Kind {
	case nav.ActionNavigate:
		return navigationReply(action)
	case nav.ActionStart:
		return h.apply(userID, h.dialogs[action.Dialog].Start(ctx, userID))
	case nav.ActionContinue:
		d, ok := h.dialogs[action.Session.Kind]
		if !ok {
			log.Printf("Dialog: user %d has a session of unknown kind %d", userID, action.Session.Kind)
			h.discard(userID)
			return textReply(brokenText, MainMenu)
		}
		return h.apply(userID, d.Step(ctx, action.Session, action.Text))
	default:
		return textReply(rejectText, MainMenu)
	}
}

// apply stores the outcome's next session, or destroys the session when the dialog ended
func (h *Handler) apply(userID int64, out Outcome) Reply {
	if out.Next == nil {
		h.discard(userID)
		return out.Reply
	}
	if err := h.sessions.Save(out.Next); err != nil {
		log.Printf("Dialog: failed to save session for user %d: %v", userID, err)
		h.discard(userID)
		return textReply(brokenText, MainMenu)
	}
	return out.Reply
}

func (h *Handler) discard(userID int64) {
	if err := h.sessions.Delete(userID); err != nil {
		log.Printf("Dialog: failed to delete session for user %d: %v", userID, err)
	}
}

func navigationReply(action nav.Action) Reply {
	switch action.Token {
	case nav.TokenSettings:
		return textReply("⚙️ Settings Menu", SettingsMenu)
	case nav.TokenBackToMain:
		return textReply("↩️ Back to main menu", MainMenu)
	case nav.TokenCancel:
		if action.Preempted == session.KindNone {
			return textReply("↩️ Back to main menu", MainMenu)
		}
		return textReply("❌ Action cancelled.", MainMenu)
	case nav.TokenStart:
		return textReply(welcomeText, MainMenu)
	case nav.TokenHelp:
		return textReply(helpText, MainMenu)
	case nav.TokenDonate:
		return textReply(donationText, MainMenu)
	default:
		return textReply(rejectText, MainMenu)
	}
}

// userLocks is a keyed mutex; entries are dropped once nobody holds or waits on them
type userLocks struct {
	mu    sync.Mutex
	locks map[int64]*userLock
}

type userLock struct {
	sync.Mutex
	refs int
}

func (l *userLocks) lock(userID int64) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[int64]*userLock)
	}
	ul, ok := l.locks[userID]
	if !ok {
		ul = &userLock{}
		l.locks[userID] = ul
	}
	ul.refs++
	l.mu.Unlock()

	ul.Lock()
	return func() {
		ul.Unlock()
		l.mu.Lock()
		ul.refs--
		if ul.refs == 0 {
			delete(l.locks, userID)
		}
		l.mu.Unlock()
	}
}
