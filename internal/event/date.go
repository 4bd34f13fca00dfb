package event

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ISODate is the serialization format for resolved event dates.
const ISODate = "2006-01-02"

var (
	// Numeric dates like "04/12", "4/12/2025", optionally embedded in
	// surrounding text ("Fri 04/12/2025").
	numericDatePattern = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}))?\b`)

	// Named-month dates like "Apr 12", "April 12, 2025", "Sat: May 3".
	namedDatePattern = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:,?\s+(\d{4}))?\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Resolve attempts to pin free-text date text to a calendar day relative
// to the run's reference timestamp. Listings are prospective, so when the
// source omits the year the reference year is assumed and a date that has
// already passed rolls forward one year. A date with an explicit year is
// taken as-is even if it is in the past.
//
// The second return value reports whether any date pattern matched.
func Resolve(text string, ref time.Time) (time.Time, bool) {
	if m := numericDatePattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return time.Time{}, false
		}
		return assemble(time.Month(month), day, m[3], ref), true
	}

	if m := namedDatePattern.FindStringSubmatch(text); m != nil {
		month, ok := monthsByPrefix[strings.ToLower(m[1])[:3]]
		if !ok {
			return time.Time{}, false
		}
		day, _ := strconv.Atoi(m[2])
		if day < 1 || day > 31 {
			return time.Time{}, false
		}
		return assemble(month, day, m[3], ref), true
	}

	return time.Time{}, false
}

// assemble builds a midnight UTC date, applying the year-assumption and
// roll-forward rules when the source text carried no year.
func assemble(month time.Month, day int, yearText string, ref time.Time) time.Time {
	if yearText != "" {
		year, _ := strconv.Atoi(yearText)
		return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	}
	resolved := time.Date(ref.Year(), month, day, 0, 0, 0, 0, time.UTC)
	if resolved.Before(ref) {
		resolved = resolved.AddDate(1, 0, 0)
	}
	return resolved
}

// ParseStored parses the Date field of a stored event for query-time
// comparisons. Resolved dates round-trip through the ISO form; events
// that kept their original free text get one more best-effort parse with
// no roll-forward (the snapshot is not re-aged after being written).
func ParseStored(text string) (time.Time, bool) {
	if t, err := time.Parse(ISODate, strings.TrimSpace(text)); err == nil {
		return t, true
	}

	if m := numericDatePattern.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			year := time.Now().UTC().Year()
			if m[3] != "" {
				year, _ = strconv.Atoi(m[3])
			}
			return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
		}
	}
	if m := namedDatePattern.FindStringSubmatch(text); m != nil {
		if month, ok := monthsByPrefix[strings.ToLower(m[1])[:3]]; ok {
			day, _ := strconv.Atoi(m[2])
			if day >= 1 && day <= 31 {
				year := time.Now().UTC().Year()
				if m[3] != "" {
					year, _ = strconv.Atoi(m[3])
				}
				return time.Date(year, month, day, 0, 0, 0, 0, time.UTC), true
			}
		}
	}

	return time.Time{}, false
}

// IsFuture reports whether an event resolved to date should be kept by
// the future-date filter: on-or-after the reference timestamp.
func IsFuture(resolved time.Time, ref time.Time) bool {
	return !resolved.Before(ref)
}
