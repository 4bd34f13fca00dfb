package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rcanty/pulsefeed/internal/event"
)

// snapshotFile is the single durable artifact holding the full event
// collection of the most recent successful run.
const snapshotFile = "events.json"

// ErrNoSnapshot is returned by Load when no run has ever persisted a
// snapshot. Callers typically react by triggering a synchronous run.
var ErrNoSnapshot = errors.New("no snapshot available")

// Store is the single owner of the event snapshot. Writers replace the
// whole collection atomically (temp file + rename, then an in-memory
// pointer swap under the write lock); readers always observe either the
// fully-old or fully-new collection, never a partial one.
type Store struct {
	path string

	mu     sync.RWMutex
	events []event.Event
	loaded bool
}

// New creates a Store rooted at dataDir, creating the directory if
// needed.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{
		path: filepath.Join(dataDir, snapshotFile),
	}, nil
}

// Load returns the current event collection. The snapshot file is read
// once and cached; Replace keeps the cache in sync. Returns ErrNoSnapshot
// when no snapshot has ever been written.
//
// Callers must treat the returned slice as read-only.
func (s *Store) Load() ([]event.Event, error) {
	s.mu.RLock()
	if s.loaded {
		events := s.events
		s.mu.RUnlock()
		return events, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.events, nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var events []event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	s.events = events
	s.loaded = true
	return events, nil
}

// Replace atomically swaps the persisted snapshot for the given event
// collection. The new collection is written to a temp file in the same
// directory and renamed over the old snapshot, so a write failure leaves
// the previous snapshot intact and authoritative.
func (s *Store) Replace(events []event.Event) error {
	if events == nil {
		events = []event.Event{}
	}

	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".events-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp snapshot: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting snapshot permissions: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	s.mu.Lock()
	s.events = events
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Path returns the snapshot file location.
func (s *Store) Path() string {
	return s.path
}
