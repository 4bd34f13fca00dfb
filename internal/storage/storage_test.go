package storage

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rcanty/pulsefeed/internal/event"
)

func testEvents() []event.Event {
	return []event.Event{
		{
			ID:    1,
			Title: "Bass Night",
			Date:  "2099-04-12",
			Venue: event.Venue{ID: 1, Name: "Public Works", City: "San Francisco", Region: "Bay Area"},
			Tags:  []string{"house", "dnb"},
			Links: map[string]string{"Event Link": "https://tickets.example.com/1"},
		},
		{
			ID:    2,
			Title: "Open Decks",
			Date:  "weekly, check site",
			Venue: event.Venue{ID: 2, Name: "Warehouse X", City: "Unknown", Region: "Bay Area"},
		},
	}
}

func TestLoadWithoutSnapshot(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err = store.Load()
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("expected ErrNoSnapshot, got %v", err)
	}
}

func TestReplaceAndLoad(t *testing.T) {
	dir := t.TempDir()
	store, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	events := testEvents()
	if err := store.Replace(events); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Title != "Bass Night" || got[1].Title != "Open Decks" {
		t.Errorf("event order not preserved: %q, %q", got[0].Title, got[1].Title)
	}

	// No leftover temp artifacts after the rename.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 || entries[0].Name() != "events.json" {
		t.Errorf("expected only events.json in data dir, got %v", entries)
	}
}

func TestReplaceOverwritesWholesale(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if err := store.Replace(testEvents()); err != nil {
		t.Fatalf("first Replace failed: %v", err)
	}
	replacement := []event.Event{{ID: 1, Title: "Only Event", Date: "2099-01-01"}}
	if err := store.Replace(replacement); err != nil {
		t.Fatalf("second Replace failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Only Event" {
		t.Errorf("prior snapshot leaked through: %v", got)
	}
}

func TestLoadReadsExistingFile(t *testing.T) {
	// A fresh Store must pick up a snapshot written by a previous process.
	dir := t.TempDir()
	data, err := json.Marshal(testEvents())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "events.json"), data, 0o644); err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	store, err := New(dir)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 events from disk, got %d", len(got))
	}
	if got[0].Links["Event Link"] != "https://tickets.example.com/1" {
		t.Errorf("links did not round-trip: %v", got[0].Links)
	}
}

func TestReplaceNilBecomesEmpty(t *testing.T) {
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := store.Replace(nil); err != nil {
		t.Fatalf("Replace(nil) failed: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty collection, got %v", got)
	}
}
