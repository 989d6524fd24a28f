// Package localtime answers the per-user wall-clock questions shared by the
// dialogs and the reminder scheduler: which zone names exist, what the user's
// calendar day is, and whether a reminder time is well formed.
package localtime

//go:generate go run ./internal/genzones -out zones_gen.go

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
	_ "time/tzdata" // zone data must not depend on the host

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultZone is used for users who never picked a timezone.
const DefaultZone = "UTC"

// DayLayout is the calendar-day format stored with every entry.
const DayLayout = "2006-01-02"

// suggestCutoff is the minimum similarity ratio for a suggestion.
const suggestCutoff = 0.6

// ErrInvalidClock is returned by ParseClock for anything but a strict HH:MM value.
var ErrInvalidClock = errors.New("time must be in HH:MM format")

var zoneSet = func() map[string]struct{} {
	set := make(map[string]struct{}, len(zoneNames))
	for _, name := range zoneNames {
		set[name] = struct{}{}
	}
	return set
}()

// Zones returns a copy of the known zone identifiers, sorted.
func Zones() []string {
	out := make([]string, len(zoneNames))
	copy(out, zoneNames)
	return out
}

// Known reports whether name is exactly a known zone identifier.
// The comparison is case- and whitespace-sensitive.
func Known(name string) bool {
	_, ok := zoneSet[name]
	return ok
}

type scored struct {
	name  string
	score float64
}

// Suggest returns up to n known zones most similar to input, best first.
// Similarity is the SequenceMatcher ratio over characters; candidates under
// the cutoff are dropped.
func Suggest(input string, n int) []string {
	if n <= 0 || input == "" {
		return nil
	}
	target := strings.Split(input, "")
	m := difflib.NewMatcher(nil, target)

	var matches []scored
	for _, name := range zoneNames {
		m.SetSeq1(strings.Split(name, ""))
		if m.RealQuickRatio() < suggestCutoff || m.QuickRatio() < suggestCutoff {
			continue
		}
		if r := m.Ratio(); r >= suggestCutoff {
			matches = append(matches, scored{name: name, score: r})
		}
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].score != matches[j].score {
			return matches[i].score > matches[j].score
		}
		return matches[i].name > matches[j].name
	})
	if len(matches) > n {
		matches = matches[:n]
	}
	out := make([]string, len(matches))
	for i, s := range matches {
		out[i] = s.name
	}
	return out
}

// Location loads the zone, falling back to UTC for empty or unknown names.
func Location(zone string) *time.Location {
	if zone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		log.Printf("Warning: unknown timezone %q, using %s: %v", zone, DefaultZone, err)
		return time.UTC
	}
	return loc
}

// Day returns the calendar day of t in loc.
func Day(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// ParseClock parses a strict two-digit "HH:MM" value (00:00 to 23:59).
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	hour, ok1 := twoDigits(s[0:2])
	minute, ok2 := twoDigits(s[3:5])
	if !ok1 || !ok2 || hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return hour, minute, nil
}

func twoDigits(s string) (int, bool) {
	if s[0] < '0' || s[0] > '9' || s[1] < '0' || s[1] > '9' {
		return 0, false
	}
	return int(s[0]-'0')*10 + int(s[1]-'0'), true
}

// At returns the instant on the same local calendar day as now at hour:minute:00.
func At(now time.Time, hour, minute int) time.Time {
	y, mo, d := now.Date()
	return time.Date(y, mo, d, hour, minute, 0, 0, now.Location())
}
