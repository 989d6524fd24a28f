// Package session keeps the per-user scratch state of an in-progress dialog.
package session

import "time"

// Kind identifies the dialog a session belongs to
type Kind int

const (
	KindNone Kind = iota
	KindRateParameters
	KindAddParameter
	KindDeleteParameter
	KindSetTimezone
	KindSetReminders
	KindExport
)

func (k Kind) String() string {
	switch k {
	case KindRateParameters:
		return "rate_parameters"
	case KindAddParameter:
		return "add_parameter"
	case KindDeleteParameter:
		return "delete_parameter"
	case KindSetTimezone:
		return "set_timezone"
	case KindSetReminders:
		return "set_reminders"
	case KindExport:
		return "export"
	default:
		return "none"
	}
}

// Session is the position and working data of one user's dialog
type Session struct {
	UserID    int64     `json:"user_id"`
	Kind      Kind      `json:"kind"`
	State     string    `json:"state"` // dialog machine state
	Step      int       `json:"step"`
	Scratch   Scratch   `json:"scratch"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Rating is one answered parameter of the rating dialog
type Rating struct {
	Parameter string `json:"parameter"`
	Value     int    `json:"value"`
}

// Scratch holds the dialog-local working data
type Scratch struct {
	Parameters         []string `json:"parameters,omitempty"` // snapshot taken at dialog start
	Ratings            []Rating `json:"ratings,omitempty"`
	Queue              []string `json:"queue,omitempty"` // parameter names waiting for Finish
	AwaitingCustomName bool     `json:"awaiting_custom_name,omitempty"`
}

// Active reports whether s is an in-progress dialog
func (s *Session) Active() bool {
	return s != nil && s.Kind != KindNone
}

// Clone returns a deep copy, so a step can build the next session without
// touching the stored one.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Scratch.Parameters = append([]string(nil), s.Scratch.Parameters...)
	c.Scratch.Ratings = append([]Rating(nil), s.Scratch.Ratings...)
	c.Scratch.Queue = append([]string(nil), s.Scratch.Queue...)
	return &c
}

// Store persists at most one session per user
type Store interface {
	// Load returns the user's session or nil when there is none
	Load(userID int64) (*Session, error)
	// Save replaces the user's session
	Save(s *Session) error
	// Delete removes the user's session; deleting a missing session is not an error
	Delete(userID int64) error
}
