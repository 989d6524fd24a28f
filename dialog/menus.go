package dialog

import "github.com/iabalyuk/dailytracker/nav"

// Dialog-local button labels. These are answers, not navigation, so the
// resolver forwards them to the active dialog.
const (
	labelCustomParameter = "Custom Parameter"
	labelFinish          = "Finish"
	labelBackToMenu      = "Back to Menu"
	labelOtherZone       = "Other"
)

// PresetParameters are offered on the add-parameter keyboard
var PresetParameters = []string{
	"Mood", "Energy", "Sleep Quality", "Stress", "Motivation", "Focus", "Productivity",
}

type cityZone struct {
	City string
	Zone string
}

var presetZones = []cityZone{
	{"New York", "America/New_York"},
	{"London", "Europe/London"},
	{"Berlin", "Europe/Berlin"},
	{"Tokyo", "Asia/Tokyo"},
	{"Moscow", "Europe/Moscow"},
	{"Sydney", "Australia/Sydney"},
	{"Los Angeles", "America/Los_Angeles"},
}

func presetZone(city string) (string, bool) {
	for _, p := range presetZones {
		if p.City == city {
			return p.Zone, true
		}
	}
	return "", false
}

var (
	// MainMenu is the idle keyboard
	MainMenu = &Keyboard{Rows: [][]string{
		{nav.LabelEstimate, nav.LabelExport},
		{nav.LabelSettings},
	}}

	// SettingsMenu lists the settings dialogs
	SettingsMenu = &Keyboard{Rows: [][]string{
		{nav.LabelSetTimezone, nav.LabelSetReminders},
		{nav.LabelAddParameter, nav.LabelDeleteParameter},
		{nav.LabelBackToMain},
	}}

	parameterMenu = &Keyboard{Rows: [][]string{
		{"Mood", "Energy", "Sleep Quality"},
		{"Stress", "Focus", "Motivation"},
		{"Productivity", labelCustomParameter},
		{labelFinish, nav.LabelCancel},
	}, OneTime: true}

	customNameMenu = &Keyboard{Rows: [][]string{{labelBackToMenu, nav.LabelCancel}}}

	ratingPad = &Keyboard{Rows: [][]string{
		{"1", "2", "3", "4", "5"},
		{"6", "7", "8", "9", "10"},
		{nav.LabelCancel, nav.LabelSettings, nav.LabelBackToMain},
	}, OneTime: true}

	exportMenu = &Keyboard{Rows: [][]string{{"CSV", "XLSX", "PDF"}, {nav.LabelCancel}}, OneTime: true}

	timezoneMenu = &Keyboard{Rows: [][]string{
		{"New York", "London", "Berlin", "Tokyo"},
		{"Moscow", "Sydney", "Los Angeles", labelOtherZone},
		{nav.LabelCancel},
	}}

	cancelMenu = &Keyboard{Rows: [][]string{{nav.LabelCancel, nav.LabelBackToMain}}}
)

// deleteMenu shows one parameter per row
func deleteMenu(parameters []string) *Keyboard {
	rows := make([][]string, 0, len(parameters)+1)
	for _, p := range parameters {
		rows = append(rows, []string{p})
	}
	rows = append(rows, []string{nav.LabelCancel, nav.LabelBackToMain})
	return &Keyboard{Rows: rows, OneTime: true}
}
