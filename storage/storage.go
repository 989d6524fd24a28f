package storage

import (
	"context"
	"sort"
	"sync"
)

// Storage represents a thread-safe in-memory Gateway.
// It also keeps the reminder dispatch log so it can stand in for SQLiteStorage.
type Storage struct {
	mu         sync.RWMutex
	entries    []Entry
	profiles   map[int64]*profile
	dispatches map[int64]map[string]string // user -> reminder time -> day
}

type profile struct {
	parameters []string
	timezone   string
	reminders  []string
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		profiles:   make(map[int64]*profile),
		dispatches: make(map[int64]map[string]string),
	}
}

func (s *Storage) profileLocked(userID int64) *profile {
	p, ok := s.profiles[userID]
	if !ok {
		p = &profile{timezone: defaultTimezone}
		s.profiles[userID] = p
	}
	return p
}

// AppendEntry stores one rating
func (s *Storage) AppendEntry(_ context.Context, userID int64, date, parameter string, value int) error {
	if value < 1 || value > 10 {
		return wrap("append entry", ErrInvalidValue)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, Entry{UserID: userID, Date: date, Parameter: parameter, Value: value})
	return nil
}

// ListEntries returns the user's entries ordered by date descending
func (s *Storage) ListEntries(_ context.Context, userID int64, startDate, endDate string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []Entry
	for _, e := range s.entries {
		if e.UserID != userID {
			continue
		}
		if startDate != "" && e.Date < startDate {
			continue
		}
		if endDate != "" && e.Date > endDate {
			continue
		}
		result = append(result, e)
	}
	// Stable keeps insertion order within a day, like the SQL rowid order.
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date > result[j].Date })
	return result, nil
}

// GetParameters returns the tracked parameter names
func (s *Storage) GetParameters(_ context.Context, userID int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), p.parameters...), nil
}

// SetParameters replaces the tracked parameter set
func (s *Storage) SetParameters(_ context.Context, userID int64, parameters []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profileLocked(userID).parameters = normalizeSet(parameters)
	return nil
}

// GetTimezone returns the zone identifier
func (s *Storage) GetTimezone(_ context.Context, userID int64) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.profiles[userID]; ok && p.timezone != "" {
		return p.timezone, nil
	}
	return defaultTimezone, nil
}

// SetTimezone stores the zone identifier
func (s *Storage) SetTimezone(_ context.Context, userID int64, zone string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profileLocked(userID).timezone = zone
	return nil
}

// GetReminderTimes returns the reminder times
func (s *Storage) GetReminderTimes(_ context.Context, userID int64) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[userID]
	if !ok {
		return nil, nil
	}
	return append([]string(nil), p.reminders...), nil
}

// SetReminderTimes replaces the reminder time set
func (s *Storage) SetReminderTimes(_ context.Context, userID int64, times []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profileLocked(userID).reminders = normalizeSet(times)
	return nil
}

// ListUsersWithReminders returns every user with at least one reminder time
func (s *Storage) ListUsersWithReminders(_ context.Context) ([]UserReminders, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []UserReminders
	for userID, p := range s.profiles {
		if len(p.reminders) == 0 {
			continue
		}
		result = append(result, UserReminders{
			UserID:   userID,
			Timezone: p.timezone,
			Times:    append([]string(nil), p.reminders...),
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UserID < result[j].UserID })
	return result, nil
}

// LastSent returns the day a reminder was last delivered, "" if never
func (s *Storage) LastSent(_ context.Context, userID int64, reminderTime string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.dispatches[userID][reminderTime], nil
}

// MarkSent records a delivered reminder
func (s *Storage) MarkSent(_ context.Context, userID int64, reminderTime, day string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dispatches[userID]; !ok {
		s.dispatches[userID] = make(map[string]string)
	}
	s.dispatches[userID][reminderTime] = day
	return nil
}

const defaultTimezone = "UTC"

// normalizeSet drops empty names and duplicates and sorts the rest
func normalizeSet(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		result = append(result, item)
	}
	sort.Strings(result)
	return result
}
