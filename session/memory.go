package session

import (
	"errors"
	"sync"
	"time"
)

var errNilSession = errors.New("session: nil session")

// MemoryStore keeps sessions in process memory; they are lost on restart
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[int64]*Session),
		now:      time.Now,
	}
}

func (m *MemoryStore) Load(userID int64) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.sessions[userID].Clone(), nil
}

func (m *MemoryStore) Save(s *Session) error {
	if s == nil {
		return errNilSession
	}
	if !s.Active() {
		return m.Delete(s.UserID)
	}
	c := s.Clone()
	c.UpdatedAt = m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.UserID] = c
	return nil
}

func (m *MemoryStore) Delete(userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, userID)
	return nil
}

// Len returns the number of active sessions
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.sessions)
}
