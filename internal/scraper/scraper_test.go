package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/rcanty/pulsefeed/internal/event"
)

func fixtureServer(t *testing.T, fixture string) *httptest.Server {
	t.Helper()
	data, err := os.ReadFile("testdata/fixtures/" + fixture)
	if err != nil {
		t.Fatalf("failed to load test fixture: %v", err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRunMergesSourcesInOrder(t *testing.T) {
	classic := fixtureServer(t, "classic.html")
	compact := fixtureServer(t, "compact.html")

	sources := []Source{
		{Region: "Bay Area", URL: classic.URL, Layout: LayoutClassic},
		{Region: "Seattle", URL: compact.URL, Layout: LayoutCompact},
	}
	s := New(NewFetcher(5*time.Second), sources, 2)

	events := s.Run(context.Background())

	// classic fixture: 4 extractable rows, one dropped by the past-date
	// filter; compact fixture: 2 rows.
	if len(events) != 5 {
		t.Fatalf("expected 5 events, got %d", len(events))
	}

	for i, evt := range events {
		if evt.ID != i+1 {
			t.Errorf("event %d has id %d, want sequential ids from 1", i, evt.ID)
		}
	}

	// Merge order follows source order regardless of fetch completion.
	if events[0].Venue.Region != "Bay Area" {
		t.Errorf("first event region = %q, want Bay Area", events[0].Venue.Region)
	}
	if events[len(events)-1].Venue.Region != "Seattle" {
		t.Errorf("last event region = %q, want Seattle", events[len(events)-1].Venue.Region)
	}
}

func TestRunSkipsFailingSource(t *testing.T) {
	classic := fixtureServer(t, "classic.html")
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer failing.Close()

	sources := []Source{
		{Region: "Bay Area", URL: failing.URL, Layout: LayoutClassic},
		{Region: "Seattle", URL: classic.URL, Layout: LayoutClassic},
	}
	s := New(NewFetcher(5*time.Second), sources, 1)

	events := s.Run(context.Background())

	if len(events) == 0 {
		t.Fatal("healthy source should still produce events when a sibling fails")
	}
	for _, evt := range events {
		if evt.Venue.Region != "Seattle" {
			t.Errorf("unexpected region %q from failed source", evt.Venue.Region)
		}
	}
	// Ids restart from 1 even when the first source contributed nothing.
	if events[0].ID != 1 {
		t.Errorf("first id = %d, want 1", events[0].ID)
	}
}

func TestRunAllSourcesFailing(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusServiceUnavailable)
	}))
	defer failing.Close()

	s := New(NewFetcher(5*time.Second), []Source{
		{Region: "Bay Area", URL: failing.URL, Layout: LayoutClassic},
	}, 1)

	events := s.Run(context.Background())
	if events == nil || len(events) != 0 {
		t.Errorf("a fully-failing run should complete with an empty slice, got %v", events)
	}
}

type memoryWriter struct {
	replaced [][]event.Event
}

func (m *memoryWriter) Replace(events []event.Event) error {
	m.replaced = append(m.replaced, events)
	return nil
}

func TestRunAndStore(t *testing.T) {
	classic := fixtureServer(t, "classic.html")
	s := New(NewFetcher(5*time.Second), []Source{
		{Region: "Bay Area", URL: classic.URL, Layout: LayoutClassic},
	}, 1)

	w := &memoryWriter{}
	count, err := s.RunAndStore(context.Background(), w)
	if err != nil {
		t.Fatalf("RunAndStore failed: %v", err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}
	if len(w.replaced) != 1 || len(w.replaced[0]) != 3 {
		t.Errorf("snapshot writer saw %v replacements", len(w.replaced))
	}
}

func TestFetchError(t *testing.T) {
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer failing.Close()

	f := NewFetcher(5 * time.Second)
	_, err := f.Fetch(context.Background(), Source{Region: "Bay Area", URL: failing.URL})
	if err == nil {
		t.Fatal("expected fetch error")
	}
	fe, ok := err.(*FetchError)
	if !ok {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fe.Status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", fe.Status)
	}
	if fe.Region != "Bay Area" {
		t.Errorf("region = %q", fe.Region)
	}
}

func TestEventURLInvariant(t *testing.T) {
	classic := fixtureServer(t, "classic.html")
	s := New(NewFetcher(5*time.Second), []Source{
		{Region: "Bay Area", URL: classic.URL, Layout: LayoutClassic},
	}, 1)

	for _, evt := range s.Run(context.Background()) {
		if evt.EventURL == "" {
			continue
		}
		found := false
		for _, url := range evt.Links {
			if url == evt.EventURL {
				found = true
			}
		}
		if !found {
			t.Errorf("event %d: eventUrl %q not among links %v", evt.ID, evt.EventURL, evt.Links)
		}
	}
}
