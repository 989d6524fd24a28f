package session

import (
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/peterbourgon/diskv/v3"
)

// DiskStore keeps one JSON file per user so dialogs survive a restart
type DiskStore struct {
	d   *diskv.Diskv
	now func() time.Time
}

// NewDiskStore creates a store rooted at basePath
func NewDiskStore(basePath string) *DiskStore {
	return &DiskStore{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			TempDir:      basePath + ".tmp", // outside BasePath so Keys never sees partial writes
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		now: time.Now,
	}
}

func key(userID int64) string {
	return strconv.FormatInt(userID, 10)
}

func (s *DiskStore) Load(userID int64) (*Session, error) {
	k := key(userID)
	if !s.d.Has(k) {
		return nil, nil
	}
	data, err := s.d.Read(k)
	if err != nil {
		return nil, fmt.Errorf("failed to read session %s: %w", k, err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A broken file would otherwise pin the user in an unusable dialog
		log.Printf("Warning: discarding unreadable session %s: %v", k, err)
		_ = s.d.Erase(k)
		return nil, nil
	}
	if !sess.Active() {
		return nil, nil
	}
	return &sess, nil
}

func (s *DiskStore) Save(sess *Session) error {
	if sess == nil {
		return errNilSession
	}
	if !sess.Active() {
		return s.Delete(sess.UserID)
	}
	c := sess.Clone()
	c.UpdatedAt = s.now()
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.d.Write(key(sess.UserID), data); err != nil {
		return fmt.Errorf("failed to write session %d: %w", sess.UserID, err)
	}
	return nil
}

func (s *DiskStore) Delete(userID int64) error {
	k := key(userID)
	if !s.d.Has(k) {
		return nil
	}
	if err := s.d.Erase(k); err != nil {
		return fmt.Errorf("failed to erase session %s: %w", k, err)
	}
	return nil
}

// Prune removes sessions untouched for longer than maxAge and returns how many it removed
func (s *DiskStore) Prune(maxAge time.Duration) int {
	cancel := make(chan struct{})
	defer close(cancel)

	cutoff := s.now().Add(-maxAge)
	var stale []string
	for k := range s.d.Keys(cancel) {
		data, err := s.d.Read(k)
		if err != nil {
			continue
		}
		var sess Session
		if err := json.Unmarshal(data, &sess); err != nil || sess.UpdatedAt.Before(cutoff) {
			stale = append(stale, k)
		}
	}

	removed := 0
	for _, k := range stale {
		if err := s.d.Erase(k); err != nil {
			log.Printf("Warning: failed to prune session %s: %v", k, err)
			continue
		}
		removed++
	}
	return removed
}
