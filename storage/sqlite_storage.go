package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStorage represents a persistent Gateway using SQLite
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dbPath == "" {
		dbPath = "mood_tracker.db" // Default database file
	}

	if dir := filepath.Dir(dbPath); dir != "." && dir != "/" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer; a single connection also keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := migrateSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dbPath}, nil
}

// createTables creates the necessary tables in the database
func createTables(db *sql.DB) error {
	// chat_id keeps the column name used by databases from the first bot version
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS entries (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			chat_id INTEGER,
			date TEXT,
			parameter TEXT,
			value INTEGER
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create entries table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS user_settings (
			user_id INTEGER PRIMARY KEY,
			timezone TEXT DEFAULT 'UTC',
			reminders TEXT,
			parameters TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create user_settings table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS reminder_dispatches (
			user_id INTEGER NOT NULL,
			reminder_time TEXT NOT NULL,
			day TEXT NOT NULL,
			sent_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (user_id, reminder_time)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create reminder_dispatches table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_entries_chat_date ON entries(chat_id, date)`)
	if err != nil {
		// Log warning but continue, queries still work without it
		log.Printf("Warning: failed to create entries index: %v", err)
	}

	return nil
}

// migrateSchema checks for and applies necessary schema changes
func migrateSchema(db *sql.DB) error {
	exists, err := columnExists(db, "entries", "created_at")
	if err != nil {
		return err
	}
	if !exists {
		log.Println("Schema migration: Adding 'created_at' column to 'entries' table...")
		// SQLite refuses non-constant defaults in ALTER TABLE, so old rows stay NULL.
		if _, err := db.Exec("ALTER TABLE entries ADD COLUMN created_at TIMESTAMP"); err != nil {
			return fmt.Errorf("failed to add created_at column: %w", err)
		}
	}
	return nil
}

// columnExists looks the column up with PRAGMA table_info
func columnExists(db *sql.DB, table, column string) (bool, error) {
	rows, err := db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("failed to query table info for %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var cid, notnull, pk int
		var name, typeName string
		var dfltValue sql.NullString
		if err := rows.Scan(&cid, &name, &typeName, &notnull, &dfltValue, &pk); err != nil {
			return false, fmt.Errorf("failed to scan table info row: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("error iterating table info rows: %w", err)
	}
	return false, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// AppendEntry stores one rating
func (s *SQLiteStorage) AppendEntry(ctx context.Context, userID int64, date, parameter string, value int) error {
	if value < 1 || value > 10 {
		return wrap("append entry", ErrInvalidValue)
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO entries (chat_id, date, parameter, value, created_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)",
		userID, date, parameter, value,
	)
	return wrap("append entry", err)
}

// ListEntries returns the user's entries ordered by date descending
func (s *SQLiteStorage) ListEntries(ctx context.Context, userID int64, startDate, endDate string) ([]Entry, error) {
	query := "SELECT date, parameter, value FROM entries WHERE chat_id = ?"
	args := []any{userID}
	if startDate != "" {
		query += " AND date >= ?"
		args = append(args, startDate)
	}
	if endDate != "" {
		query += " AND date <= ?"
		args = append(args, endDate)
	}
	query += " ORDER BY date DESC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrap("list entries", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e := Entry{UserID: userID}
		if err := rows.Scan(&e.Date, &e.Parameter, &e.Value); err != nil {
			return nil, wrap("list entries", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list entries", err)
	}
	return entries, nil
}

// GetParameters returns the tracked parameter names
func (s *SQLiteStorage) GetParameters(ctx context.Context, userID int64) ([]string, error) {
	list, err := s.getList(ctx, userID, "parameters")
	if err != nil {
		return nil, wrap("get parameters", err)
	}
	return normalizeSet(list), nil
}

// SetParameters replaces the tracked parameter set
func (s *SQLiteStorage) SetParameters(ctx context.Context, userID int64, parameters []string) error {
	return wrap("set parameters", s.setList(ctx, userID, "parameters", normalizeSet(parameters)))
}

// GetTimezone returns the zone identifier
func (s *SQLiteStorage) GetTimezone(ctx context.Context, userID int64) (string, error) {
	var zone sql.NullString
	err := s.db.QueryRowContext(ctx, "SELECT timezone FROM user_settings WHERE user_id = ?", userID).Scan(&zone)
	if errors.Is(err, sql.ErrNoRows) {
		return defaultTimezone, nil
	}
	if err != nil {
		return "", wrap("get timezone", err)
	}
	if !zone.Valid || zone.String == "" {
		return defaultTimezone, nil
	}
	return zone.String, nil
}

// SetTimezone stores the zone identifier
func (s *SQLiteStorage) SetTimezone(ctx context.Context, userID int64, zone string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, timezone) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET timezone = excluded.timezone
	`, userID, zone)
	return wrap("set timezone", err)
}

// GetReminderTimes returns the reminder times
func (s *SQLiteStorage) GetReminderTimes(ctx context.Context, userID int64) ([]string, error) {
	list, err := s.getList(ctx, userID, "reminders")
	if err != nil {
		return nil, wrap("get reminder times", err)
	}
	return list, nil
}

// SetReminderTimes replaces the reminder time set
func (s *SQLiteStorage) SetReminderTimes(ctx context.Context, userID int64, times []string) error {
	return wrap("set reminder times", s.setList(ctx, userID, "reminders", normalizeSet(times)))
}

// ListUsersWithReminders returns every user with at least one reminder time
func (s *SQLiteStorage) ListUsersWithReminders(ctx context.Context) ([]UserReminders, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, timezone, reminders FROM user_settings
		WHERE reminders IS NOT NULL AND reminders != '' AND reminders != '[]'
		ORDER BY user_id
	`)
	if err != nil {
		return nil, wrap("list users with reminders", err)
	}
	defer rows.Close()

	var result []UserReminders
	for rows.Next() {
		var u UserReminders
		var zone sql.NullString
		var raw string
		if err := rows.Scan(&u.UserID, &zone, &raw); err != nil {
			return nil, wrap("list users with reminders", err)
		}
		if err := json.Unmarshal([]byte(raw), &u.Times); err != nil {
			// One corrupt row must not hide every other user's reminders
			log.Printf("Warning: skipping user %d with unreadable reminders %q: %v", u.UserID, raw, err)
			continue
		}
		if len(u.Times) == 0 {
			continue
		}
		u.Timezone = defaultTimezone
		if zone.Valid && zone.String != "" {
			u.Timezone = zone.String
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list users with reminders", err)
	}
	return result, nil
}

// LastSent returns the day a reminder was last delivered, "" if never
func (s *SQLiteStorage) LastSent(ctx context.Context, userID int64, reminderTime string) (string, error) {
	var day string
	err := s.db.QueryRowContext(ctx,
		"SELECT day FROM reminder_dispatches WHERE user_id = ? AND reminder_time = ?",
		userID, reminderTime,
	).Scan(&day)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", wrap("last sent", err)
	}
	return day, nil
}

// MarkSent records a delivered reminder
func (s *SQLiteStorage) MarkSent(ctx context.Context, userID int64, reminderTime, day string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reminder_dispatches (user_id, reminder_time, day, sent_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, reminder_time) DO UPDATE SET day = excluded.day, sent_at = excluded.sent_at
	`, userID, reminderTime, day)
	return wrap("mark sent", err)
}

// getList reads a JSON list column from user_settings
func (s *SQLiteStorage) getList(ctx context.Context, userID int64, column string) ([]string, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM user_settings WHERE user_id = ?", column), userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && (!raw.Valid || raw.String == "")) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var list []string
	if err := json.Unmarshal([]byte(raw.String), &list); err != nil {
		log.Printf("Warning: unreadable %s for user %d, treating as empty: %v", column, userID, err)
		return nil, nil
	}
	return list, nil
}

// setList upserts a JSON list column in user_settings, leaving the other columns alone
func (s *SQLiteStorage) setList(ctx context.Context, userID int64, column string, list []string) error {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", column, err)
	}
	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO user_settings (user_id, %[1]s) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET %[1]s = excluded.%[1]s
	`, column), userID, string(data))
	return err
}
