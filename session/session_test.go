package session

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func stores(t *testing.T) map[string]Store {
	return map[string]Store{
		"memory": NewMemoryStore(),
		"disk":   NewDiskStore(filepath.Join(t.TempDir(), "sessions")),
	}
}

func TestStoreRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			got, err := store.Load(1)
			if err != nil || got != nil {
				t.Fatalf("expected no session, got %+v, %v", got, err)
			}

			s := &Session{
				UserID: 1,
				Kind:   KindRateParameters,
				State:  "awaiting_rating",
				Step:   1,
				Scratch: Scratch{
					Parameters: []string{"Energy", "Mood"},
					Ratings:    []Rating{{Parameter: "Energy", Value: 4}},
				},
			}
			if err := store.Save(s); err != nil {
				t.Fatalf("save: %v", err)
			}
			got, err = store.Load(1)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if got.Kind != KindRateParameters || got.Step != 1 || got.State != "awaiting_rating" {
				t.Fatalf("unexpected session %+v", got)
			}
			if len(got.Scratch.Ratings) != 1 || got.Scratch.Ratings[0].Value != 4 {
				t.Fatalf("scratch not preserved: %+v", got.Scratch)
			}
			if got.UpdatedAt.IsZero() {
				t.Fatalf("UpdatedAt not stamped")
			}

			if err := store.Delete(1); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if err := store.Delete(1); err != nil {
				t.Fatalf("second delete should be a no-op: %v", err)
			}
			if got, _ := store.Load(1); got != nil {
				t.Fatalf("session survived delete: %+v", got)
			}
		})
	}
}

func TestStoreOneSessionPerUser(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_ = store.Save(&Session{UserID: 3, Kind: KindAddParameter, State: "collecting"})
			_ = store.Save(&Session{UserID: 3, Kind: KindExport, State: "choosing_format"})
			got, _ := store.Load(3)
			if got.Kind != KindExport {
				t.Fatalf("second save should replace the first, got %v", got.Kind)
			}
			// Saving an inactive session clears the slot
			_ = store.Save(&Session{UserID: 3, Kind: KindNone})
			if got, _ := store.Load(3); got != nil {
				t.Fatalf("inactive save should delete, got %+v", got)
			}
			if err := store.Save(nil); err == nil {
				t.Fatalf("nil save should fail")
			}
		})
	}
}

func TestMemoryStoreIsolation(t *testing.T) {
	store := NewMemoryStore()
	s := &Session{UserID: 1, Kind: KindAddParameter, Scratch: Scratch{Queue: []string{"Mood"}}}
	_ = store.Save(s)
	s.Scratch.Queue[0] = "mutated"

	got, _ := store.Load(1)
	if got.Scratch.Queue[0] != "Mood" {
		t.Fatalf("store shares memory with caller")
	}
	got.Scratch.Queue[0] = "mutated again"
	again, _ := store.Load(1)
	if again.Scratch.Queue[0] != "Mood" {
		t.Fatalf("Load returned shared memory")
	}
	if store.Len() != 1 {
		t.Fatalf("Len = %d", store.Len())
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := &Session{Kind: KindRateParameters, Scratch: Scratch{
		Parameters: []string{"A"},
		Ratings:    []Rating{{Parameter: "A", Value: 1}},
		Queue:      []string{"B"},
	}}
	c := s.Clone()
	c.Scratch.Parameters[0] = "x"
	c.Scratch.Ratings[0].Value = 9
	c.Scratch.Queue[0] = "y"
	if s.Scratch.Parameters[0] != "A" || s.Scratch.Ratings[0].Value != 1 || s.Scratch.Queue[0] != "B" {
		t.Fatalf("clone shares slices: %+v", s.Scratch)
	}
	var nilSession *Session
	if nilSession.Clone() != nil || nilSession.Active() {
		t.Fatalf("nil session handling")
	}
}

func TestDiskStoreSurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sessions")
	first := NewDiskStore(dir)
	if err := first.Save(&Session{UserID: 77, Kind: KindSetTimezone, State: "awaiting_zone_name"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := NewDiskStore(dir)
	got, err := second.Load(77)
	if err != nil || got == nil {
		t.Fatalf("load after reopen: %+v, %v", got, err)
	}
	if got.State != "awaiting_zone_name" {
		t.Fatalf("state = %q", got.State)
	}
}

func TestDiskStoreDiscardsCorruptFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sessions")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "5"), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	store := NewDiskStore(dir)
	got, err := store.Load(5)
	if err != nil || got != nil {
		t.Fatalf("corrupt session should load as none, got %+v, %v", got, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "5")); !os.IsNotExist(err) {
		t.Fatalf("corrupt file should be removed, stat err = %v", err)
	}
}

func TestDiskStorePrune(t *testing.T) {
	store := NewDiskStore(filepath.Join(t.TempDir(), "sessions"))
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return base.Add(-48 * time.Hour) }
	_ = store.Save(&Session{UserID: 1, Kind: KindExport})
	store.now = func() time.Time { return base.Add(-time.Hour) }
	_ = store.Save(&Session{UserID: 2, Kind: KindExport})

	store.now = func() time.Time { return base }
	if removed := store.Prune(24 * time.Hour); removed != 1 {
		t.Fatalf("removed = %d, want 1", removed)
	}
	if got, _ := store.Load(1); got != nil {
		t.Fatalf("stale session kept")
	}
	if got, _ := store.Load(2); got == nil {
		t.Fatalf("fresh session pruned")
	}
}

func TestKindString(t *testing.T) {
	if KindNone.String() != "none" || KindExport.String() != "export" || Kind(99).String() != "none" {
		t.Fatalf("unexpected kind names")
	}
}
