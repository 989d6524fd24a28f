package storage

import "context"

// Gateway defines the persistence operations the tracker needs
type Gateway interface {
	// AppendEntry stores one rating. Ratings are never updated; a second rating
	// for the same parameter and day is an additional row.
	AppendEntry(ctx context.Context, userID int64, date, parameter string, value int) error

	// ListEntries returns the user's entries ordered by date descending.
	// Empty bounds are ignored; bounds are inclusive YYYY-MM-DD days.
	ListEntries(ctx context.Context, userID int64, startDate, endDate string) ([]Entry, error)

	// GetParameters returns the tracked parameter names, sorted and deduplicated
	GetParameters(ctx context.Context, userID int64) ([]string, error)

	// SetParameters replaces the tracked parameter set
	SetParameters(ctx context.Context, userID int64, parameters []string) error

	// GetTimezone returns the zone identifier, "UTC" when unset
	GetTimezone(ctx context.Context, userID int64) (string, error)

	// SetTimezone stores the zone identifier
	SetTimezone(ctx context.Context, userID int64, zone string) error

	// GetReminderTimes returns the HH:MM reminder times
	GetReminderTimes(ctx context.Context, userID int64) ([]string, error)

	// SetReminderTimes replaces the reminder time set
	SetReminderTimes(ctx context.Context, userID int64, times []string) error

	// ListUsersWithReminders returns every user with at least one reminder time
	ListUsersWithReminders(ctx context.Context) ([]UserReminders, error)
}

// Entry is one stored rating
type Entry struct {
	UserID    int64
	Date      string // YYYY-MM-DD, user-local calendar day
	Parameter string
	Value     int // 1..10
}

// UserReminders is the scheduler's view of a user profile
type UserReminders struct {
	UserID   int64
	Timezone string
	Times    []string
}
