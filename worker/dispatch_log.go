package worker

import (
	"context"
	"sync"
)

// DispatchLog remembers the last local day each reminder was sent.
// storage.SQLiteStorage implements it durably.
type DispatchLog interface {
	// LastSent returns the day of the last dispatch, "" if never sent
	LastSent(ctx context.Context, userID int64, reminderTime string) (string, error)
	MarkSent(ctx context.Context, userID int64, reminderTime, day string) error
}

// MemoryDispatchLog is a process-local DispatchLog; it forgets everything on restart
type MemoryDispatchLog struct {
	mu   sync.Mutex
	sent map[int64]map[string]string
}

func NewMemoryDispatchLog() *MemoryDispatchLog {
	return &MemoryDispatchLog{sent: make(map[int64]map[string]string)}
}

func (l *MemoryDispatchLog) LastSent(_ context.Context, userID int64, reminderTime string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sent[userID][reminderTime], nil
}

func (l *MemoryDispatchLog) MarkSent(_ context.Context, userID int64, reminderTime, day string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	byTime, ok := l.sent[userID]
	if !ok {
		byTime = make(map[string]string)
		l.sent[userID] = byTime
	}
	byTime[reminderTime] = day
	return nil
}
