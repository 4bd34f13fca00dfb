package scraper

import (
	"regexp"
	"strings"
	"time"

	"github.com/rcanty/pulsefeed/internal/event"
)

// unknownCity is the fallback when venue text carries no city component.
const unknownCity = "Unknown"

var (
	// "Fri 04/12/2025 @ 10:00 PM" -> date part, time part
	dateTimePattern = regexp.MustCompile(`^(.*?)\s+@\s+(.*)$`)

	// "Public Works (San Francisco)" -> name, city
	venueCityPattern = regexp.MustCompile(`^(.*)\s+\((.*)\)$`)

	// Embedded title markers: #hashtags become tags, (parens) become
	// tags, [brackets] become organizers.
	hashtagPattern = regexp.MustCompile(`#(\w+)`)
	parenPattern   = regexp.MustCompile(`\((.*?)\)`)
	bracketPattern = regexp.MustCompile(`\[(.*?)\]`)

	// Combined info cells carry price and age as loose tokens:
	// "$10-$15, 21+, tickets at the door".
	pricePattern = regexp.MustCompile(`\$[\d.]+(?:\s*-\s*\$[\d.]+)?`)
	agePattern   = regexp.MustCompile(`\b\d+\+`)

	// Known genre vocabulary, matched whole-word against the raw title.
	genrePattern = regexp.MustCompile(`(?i)\b(house|techno|trance|dubstep|dnb|drum and bass|bass|electronic|edm|hip-hop|disco|funk)\b`)

	spaceRuns = regexp.MustCompile(`\s{2,}`)
)

// rowFields is a row after layout-specific cell mapping but before the
// layout-independent normalization steps.
type rowFields struct {
	DateText  string
	VenueName string
	VenueCity string
	TitleText string
	AgeText   string
	PriceText string
	Anchors   []anchor
}

// normalizer converts rows into canonical events, assigning sequential
// event and venue ids. One instance spans a whole run so that ids are
// process-wide-sequential across sources; ids restart from 1 every run.
type normalizer struct {
	ref         time.Time
	nextEventID int
	nextVenueID int
}

func newNormalizer(ref time.Time) *normalizer {
	return &normalizer{ref: ref, nextEventID: 1, nextVenueID: 1}
}

// Event normalizes one row. The second return value is false when the
// row was dropped by the future-date filter. Every individual field
// falls back to an absent or default value when its pattern does not
// match; a row never fails mid-normalization.
func (n *normalizer) Event(r row, src Source) (event.Event, bool) {
	var f rowFields
	switch src.Layout {
	case LayoutCompact:
		f = mapCompactRow(r)
	default:
		f = mapClassicRow(r)
	}

	dateText, timeText := splitDateTime(f.DateText)

	// Future-date inclusion: a resolvable date must be on-or-after the
	// run's reference timestamp; ambiguous dates are kept unconditionally
	// so that format drift never causes silent data loss.
	dateField := dateText
	if resolved, ok := event.Resolve(dateText, n.ref); ok {
		if !event.IsFuture(resolved, n.ref) {
			return event.Event{}, false
		}
		dateField = resolved.Format(event.ISODate)
	}

	title, tags, organizers := extractTitleMarkers(f.TitleText)
	tags = appendGenreTags(tags, f.TitleText)

	links, primary := collectLinks(f.Anchors)

	evt := event.Event{
		ID:             n.nextEventID,
		Title:          title,
		Date:           dateField,
		Time:           timeText,
		Price:          f.PriceText,
		AgeRestriction: f.AgeText,
		Venue: event.Venue{
			ID:     n.nextVenueID,
			Name:   f.VenueName,
			City:   f.VenueCity,
			Region: src.Region,
		},
		Tags:       tags,
		Organizers: organizers,
		Links:      links,
		EventURL:   primary,
	}
	n.nextEventID++
	n.nextVenueID++
	return evt, true
}

// mapClassicRow maps the six-cell layout: date, venue, title, age,
// price, links.
func mapClassicRow(r row) rowFields {
	name, city := splitVenue(r.Cells[1])
	f := rowFields{
		DateText:  r.Cells[0],
		VenueName: name,
		VenueCity: city,
		TitleText: r.Cells[2],
		AgeText:   r.Cells[3],
		PriceText: r.Cells[4],
	}
	if len(r.CellAnchors) > 5 {
		f.Anchors = r.CellAnchors[5]
	}
	return f
}

// mapCompactRow maps the four-cell layout: date, title, comma-separated
// venue, combined info cell holding price, age and ticket links.
func mapCompactRow(r row) rowFields {
	name, city := splitVenueList(r.Cells[2])
	f := rowFields{
		DateText:  r.Cells[0],
		TitleText: r.Cells[1],
		VenueName: name,
		VenueCity: city,
	}
	info := r.Cells[3]
	if price, ok := extractPrice(info); ok {
		f.PriceText = price
	}
	if age, ok := extractAge(info); ok {
		f.AgeText = age
	}
	if len(r.CellAnchors) > 3 {
		f.Anchors = r.CellAnchors[3]
	}
	return f
}

// splitDateTime splits a date cell on the "@" delimiter. Without the
// delimiter the whole cell is the date and the time is empty.
func splitDateTime(text string) (string, string) {
	if m := dateTimePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return strings.TrimSpace(text), ""
}

// splitVenue splits "Name (City)" venue text. Without the pattern the
// whole text is the name and the city is unknown.
func splitVenue(text string) (string, string) {
	if m := venueCityPattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	return strings.TrimSpace(text), unknownCity
}

// splitVenueList splits "Name, City" venue text used by the compact
// layout.
func splitVenueList(text string) (string, string) {
	parts := strings.SplitN(text, ",", 2)
	name := strings.TrimSpace(parts[0])
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		return name, unknownCity
	}
	return name, strings.TrimSpace(parts[1])
}

// extractTitleMarkers pulls embedded tags and organizers out of title
// text and returns the cleaned display title. Hashtags and parenthesized
// segments become lowercase tags (deduplicated); bracketed segments
// become organizers in source order, not deduplicated.
func extractTitleMarkers(title string) (string, []string, []string) {
	tags := []string{}
	seen := make(map[string]bool)
	addTag := func(raw string) {
		tag := strings.ToLower(strings.TrimSpace(raw))
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	for _, m := range hashtagPattern.FindAllStringSubmatch(title, -1) {
		addTag(m[1])
	}
	for _, m := range parenPattern.FindAllStringSubmatch(title, -1) {
		addTag(m[1])
	}

	organizers := []string{}
	for _, m := range bracketPattern.FindAllStringSubmatch(title, -1) {
		if org := strings.TrimSpace(m[1]); org != "" {
			organizers = append(organizers, org)
		}
	}

	clean := hashtagPattern.ReplaceAllString(title, "")
	clean = bracketPattern.ReplaceAllString(clean, "")
	clean = parenPattern.ReplaceAllString(clean, "")
	clean = strings.TrimSpace(spaceRuns.ReplaceAllString(clean, " "))

	return clean, tags, organizers
}

// appendGenreTags scans the raw title for known genre keywords and
// appends any not already present in tags.
func appendGenreTags(tags []string, title string) []string {
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		seen[t] = true
	}
	for _, m := range genrePattern.FindAllString(title, -1) {
		genre := strings.ToLower(m)
		if seen[genre] {
			continue
		}
		seen[genre] = true
		tags = append(tags, genre)
	}
	return tags
}

// extractPrice finds a currency amount or range in a combined info cell.
func extractPrice(info string) (string, bool) {
	if m := pricePattern.FindString(info); m != "" {
		return m, true
	}
	return "", false
}

// extractAge finds a trailing "N+" age token in a combined info cell.
func extractAge(info string) (string, bool) {
	if m := agePattern.FindString(info); m != "" {
		return m, true
	}
	return "", false
}

// collectLinks builds the label-to-URL map from a cell's anchors and
// picks the primary event URL: an exact "Event Link" label wins, then an
// exact "Facebook Page" label, then the first collected link in
// encounter order. Later duplicate labels overwrite earlier ones; the
// primary URL is always a value of the returned map.
func collectLinks(anchors []anchor) (map[string]string, string) {
	links := make(map[string]string)
	firstLabel := ""
	for _, a := range anchors {
		if a.Label == "" || a.Href == "" {
			continue
		}
		if firstLabel == "" {
			firstLabel = a.Label
		}
		links[a.Label] = a.Href
	}
	if len(links) == 0 {
		return links, ""
	}
	for _, label := range []string{"Event Link", "Facebook Page"} {
		if url, ok := links[label]; ok {
			return links, url
		}
	}
	return links, links[firstLabel]
}
