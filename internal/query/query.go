// Package query implements the filter and pagination engine over the
// event snapshot.
//
// A Criteria value carries the optional predicates of one request; all
// active predicates are AND-combined and string comparisons are
// case-insensitive. Queries are stateless reads: applying the same
// criteria to an unmodified snapshot twice yields identical ordered
// output.
package query

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rcanty/pulsefeed/internal/event"
)

// DefaultPageSize is used when a request supplies no page size.
const DefaultPageSize = 20

// Criteria represents the optional event filtering predicates of one
// request. Zero values mean "not filtered".
type Criteria struct {
	// Exact match (case-insensitive)
	Region         string
	City           string
	AgeRestriction string

	// Substring containment (case-insensitive) against venue name, any
	// tag, any organizer
	Venue     string
	Tag       string
	Organizer string

	// Numeric bounds against the value extracted from the free-text
	// price field
	MinPrice *float64
	MaxPrice *float64

	// Inclusive bounds against the event's date, re-parsed from the
	// stored string
	DateFrom *time.Time
	DateTo   *time.Time
}

// IsEmpty checks if the criteria has any active predicate. Empty
// criteria match all events.
func (c *Criteria) IsEmpty() bool {
	return c.Region == "" &&
		c.City == "" &&
		c.AgeRestriction == "" &&
		c.Venue == "" &&
		c.Tag == "" &&
		c.Organizer == "" &&
		c.MinPrice == nil &&
		c.MaxPrice == nil &&
		c.DateFrom == nil &&
		c.DateTo == nil
}

// Matches checks if an event satisfies all active predicates.
func (c *Criteria) Matches(evt *event.Event) bool {
	if c.Region != "" && !strings.EqualFold(evt.Venue.Region, c.Region) {
		return false
	}
	if c.City != "" && !strings.EqualFold(evt.Venue.City, c.City) {
		return false
	}
	if c.AgeRestriction != "" && !strings.EqualFold(evt.AgeRestriction, c.AgeRestriction) {
		return false
	}

	if c.Venue != "" && !containsFold(evt.Venue.Name, c.Venue) {
		return false
	}
	if c.Tag != "" && !anyContainsFold(evt.Tags, c.Tag) {
		return false
	}
	if c.Organizer != "" && !anyContainsFold(evt.Organizers, c.Organizer) {
		return false
	}

	// Price bounds are asymmetric on purpose: an event with no parsable
	// numeric price fails a minimum bound but passes a maximum bound
	// (no price may mean free).
	if c.MinPrice != nil {
		price, ok := PriceValue(evt.Price)
		if !ok || price < *c.MinPrice {
			return false
		}
	}
	if c.MaxPrice != nil {
		if price, ok := PriceValue(evt.Price); ok && price > *c.MaxPrice {
			return false
		}
	}

	if c.DateFrom != nil || c.DateTo != nil {
		date, ok := event.ParseStored(evt.Date)
		if !ok {
			return false
		}
		if c.DateFrom != nil && date.Before(*c.DateFrom) {
			return false
		}
		if c.DateTo != nil && date.After(*c.DateTo) {
			return false
		}
	}

	return true
}

// Apply filters events down to those matching all active predicates,
// preserving snapshot order. Empty criteria return the input unchanged.
func Apply(events []event.Event, c *Criteria) []event.Event {
	if c == nil || c.IsEmpty() {
		return events
	}
	filtered := make([]event.Event, 0)
	for i := range events {
		if c.Matches(&events[i]) {
			filtered = append(filtered, events[i])
		}
	}
	return filtered
}

// Page is one page of query results plus the totals needed by clients
// to render pagination controls.
type Page struct {
	Events     []event.Event
	Total      int
	Number     int
	Size       int
	TotalPages int
}

// Paginate slices events into a 1-indexed page. A page number below 1 is
// normalized to 1 and a non-positive size falls back to DefaultPageSize;
// a page beyond the available data yields an empty slice with the
// correct totals.
func Paginate(events []event.Event, page, size int) Page {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}

	total := len(events)
	totalPages := (total + size - 1) / size

	start := (page - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page{
		Events:     events[start:end],
		Total:      total,
		Number:     page,
		Size:       size,
		TotalPages: totalPages,
	}
}

var nonNumeric = regexp.MustCompile(`[^0-9.]`)

// PriceValue extracts a numeric value from a free-text price field by
// stripping every non-numeric character and parsing the remainder as a
// decimal. Returns false for prices with no digits ("Free", "donation")
// and for empty prices.
func PriceValue(price string) (float64, bool) {
	stripped := nonNumeric.ReplaceAllString(price, "")
	if stripped == "" {
		return 0, false
	}
	value, err := strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func anyContainsFold(values []string, needle string) bool {
	for _, v := range values {
		if containsFold(v, needle) {
			return true
		}
	}
	return false
}
