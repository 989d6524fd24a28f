// Package nav decides whether an inbound message is global navigation or an
// answer for the active dialog.
package nav

import (
	"strings"

	"github.com/iabalyuk/dailytracker/session"
)

// Token is the closed set of reserved inputs. Parse decodes raw text once;
// everything downstream switches on the token.
type Token int

const (
	TokenNone Token = iota
	TokenCancel
	TokenSettings
	TokenBackToMain
	TokenEstimate
	TokenExport
	TokenAddParameter
	TokenDeleteParameter
	TokenSetTimezone
	TokenSetReminders
	TokenStart
	TokenHelp
	TokenDonate
)

// Button labels shown on the reply keyboards
const (
	LabelCancel          = "Cancel"
	LabelSettings        = "Settings"
	LabelBackToMain      = "Back to Main"
	LabelEstimate        = "Estimate"
	LabelExport          = "Export results"
	LabelAddParameter    = "Add parameter"
	LabelDeleteParameter = "Delete parameter"
	LabelSetTimezone     = "Set timezone"
	LabelSetReminders    = "Set reminders"
	LabelDonate          = "Donate"
)

var vocabulary = map[string]Token{
	LabelCancel:          TokenCancel,
	"/cancel":            TokenCancel,
	LabelSettings:        TokenSettings,
	"/settings":          TokenSettings,
	LabelBackToMain:      TokenBackToMain,
	LabelEstimate:        TokenEstimate,
	"/estimate":          TokenEstimate,
	LabelExport:          TokenExport,
	"/export":            TokenExport,
	LabelAddParameter:    TokenAddParameter,
	LabelDeleteParameter: TokenDeleteParameter,
	LabelSetTimezone:     TokenSetTimezone,
	LabelSetReminders:    TokenSetReminders,
	"/start":             TokenStart,
	"/help":              TokenHelp,
	LabelDonate:          TokenDonate,
	"/donate":            TokenDonate,
}

// Parse maps raw text to a token. Matching is exact after trimming
// surrounding whitespace; a "/command@botname" suffix is ignored.
func Parse(text string) Token {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "/") {
		if at := strings.IndexByte(text, '@'); at > 0 {
			text = text[:at]
		}
	}
	return vocabulary[text]
}

// Entry returns the dialog a token starts, or KindNone
func (t Token) Entry() session.Kind {
	switch t {
	case TokenEstimate:
		return session.KindRateParameters
	case TokenExport:
		return session.KindExport
	case TokenAddParameter:
		return session.KindAddParameter
	case TokenDeleteParameter:
		return session.KindDeleteParameter
	case TokenSetTimezone:
		return session.KindSetTimezone
	case TokenSetReminders:
		return session.KindSetReminders
	default:
		return session.KindNone
	}
}

func (t Token) String() string {
	switch t {
	case TokenCancel:
		return "cancel"
	case TokenSettings:
		return "settings"
	case TokenBackToMain:
		return "back_to_main"
	case TokenEstimate:
		return "estimate"
	case TokenExport:
		return "export"
	case TokenAddParameter:
		return "add_parameter"
	case TokenDeleteParameter:
		return "delete_parameter"
	case TokenSetTimezone:
		return "set_timezone"
	case TokenSetReminders:
		return "set_reminders"
	case TokenStart:
		return "start"
	case TokenHelp:
		return "help"
	case TokenDonate:
		return "donate"
	default:
		return "none"
	}
}
