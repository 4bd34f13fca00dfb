package api

import (
	"net/url"
	"strconv"
	"time"

	"github.com/rcanty/pulsefeed/internal/event"
	"github.com/rcanty/pulsefeed/internal/query"
)

// criteriaFromQuery maps request query parameters onto filter criteria.
// Malformed numeric or date values are ignored rather than rejected; a
// dropped predicate widens the result instead of failing the request.
func criteriaFromQuery(values url.Values) *query.Criteria {
	c := &query.Criteria{
		Region:         values.Get("region"),
		City:           values.Get("city"),
		Venue:          values.Get("venue"),
		Tag:            values.Get("tag"),
		Organizer:      values.Get("organizer"),
		AgeRestriction: values.Get("age_restriction"),
	}

	if v := values.Get("min_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.MinPrice = &f
		}
	}
	if v := values.Get("max_price"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.MaxPrice = &f
		}
	}

	if t, ok := parseDateParam(values.Get("date_from")); ok {
		c.DateFrom = &t
	}
	if t, ok := parseDateParam(values.Get("date_to")); ok {
		c.DateTo = &t
	}

	return c
}

func parseDateParam(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(event.ISODate, v)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// paginationFromQuery extracts page and page_size, normalizing anything
// malformed or out of range to safe defaults.
func paginationFromQuery(values url.Values, defaultSize, maxSize int) (int, int) {
	page := 1
	if v := values.Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			page = n
		}
	}
	if page < 1 {
		page = 1
	}

	size := defaultSize
	if v := values.Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			size = n
		}
	}
	if size > maxSize {
		size = maxSize
	}

	return page, size
}
