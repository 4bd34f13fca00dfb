package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rcanty/pulsefeed/internal/event"
	"github.com/rcanty/pulsefeed/internal/logger"
)

// ErrRunInProgress is returned when a scrape run is requested while
// another run holds the single-writer lock. Runs are serialized, never
// queued; callers are expected to skip.
var ErrRunInProgress = errors.New("scrape run already in progress")

// Layout identifies the table shape of a listing page.
type Layout int

const (
	// LayoutClassic pages carry six cells per row:
	// date, venue, title, age, price, links.
	LayoutClassic Layout = iota

	// LayoutCompact pages carry four cells per row:
	// date, title, comma-separated venue, combined info cell.
	LayoutCompact
)

// minColumns is the row-shape expectation for each layout; shorter rows
// are dropped at extraction.
func (l Layout) minColumns() int {
	if l == LayoutCompact {
		return 4
	}
	return 6
}

// Source is one region listing page to scrape.
type Source struct {
	Region string
	URL    string
	Layout Layout
}

// SnapshotWriter persists the final event collection of a run,
// replacing any prior snapshot.
type SnapshotWriter interface {
	Replace(events []event.Event) error
}

// Scraper runs the fetch-extract-normalize-filter pipeline across the
// configured sources.
type Scraper struct {
	fetcher     *Fetcher
	sources     []Source
	concurrency int

	runMu sync.Mutex
}

// New creates a Scraper. Sources are fetched with at most concurrency
// in-flight requests; a non-positive value means sequential fetching.
func New(fetcher *Fetcher, sources []Source, concurrency int) *Scraper {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Scraper{
		fetcher:     fetcher,
		sources:     sources,
		concurrency: concurrency,
	}
}

// Run executes one pipeline pass and returns the normalized, future-
// filtered events. Each source is independent: a fetch or parse failure
// is logged and skipped, so a run that fails for every source still
// completes with an empty result rather than an error.
//
// Fetching and extraction fan out across sources; normalization happens
// at merge time, in source order, so event ids are sequential across
// the whole run and output order is deterministic.
func (s *Scraper) Run(ctx context.Context) []event.Event {
	started := time.Now().UTC()

	results := make([][]row, len(s.sources))
	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup
	for i, src := range s.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			body, err := s.fetcher.Fetch(ctx, src)
			if err != nil {
				logger.Warn("source fetch failed, skipping", logger.Fields{
					"region": src.Region,
					"url":    src.URL,
					"error":  err.Error(),
				})
				logger.IncrCounter("scrape.fetch_errors")
				return
			}

			rows, err := extractRows(body, src.Layout.minColumns())
			if err != nil {
				logger.Warn("source parse failed, skipping", logger.Fields{
					"region": src.Region,
					"error":  err.Error(),
				})
				logger.IncrCounter("scrape.parse_errors")
				return
			}
			results[i] = rows
		}(i, src)
	}
	wg.Wait()

	norm := newNormalizer(started)
	events := make([]event.Event, 0)
	for i, src := range s.sources {
		kept := 0
		for _, r := range results[i] {
			if evt, keep := norm.Event(r, src); keep {
				events = append(events, evt)
				kept++
			}
		}
		logger.Debug("source normalized", logger.Fields{
			"region": src.Region,
			"rows":   len(results[i]),
			"kept":   kept,
		})
	}

	logger.RecordTiming("scrape.run", time.Since(started))
	logger.Info("scrape run complete", logger.Fields{
		"sources": len(s.sources),
		"events":  len(events),
	})
	return events
}

// RunAndStore executes one serialized run and atomically replaces the
// stored snapshot with its output. Returns the number of events written.
// If another run is in progress it returns ErrRunInProgress without
// touching the snapshot; a persistence failure leaves the previous
// snapshot authoritative.
func (s *Scraper) RunAndStore(ctx context.Context, store SnapshotWriter) (int, error) {
	if !s.runMu.TryLock() {
		return 0, ErrRunInProgress
	}
	defer s.runMu.Unlock()

	events := s.Run(ctx)
	if err := store.Replace(events); err != nil {
		return 0, fmt.Errorf("replacing snapshot: %w", err)
	}
	return len(events), nil
}
