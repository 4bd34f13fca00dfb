// Package scraper fetches region event-listing pages and turns them
// into canonical events.
//
// The pipeline is fetch, extract, normalize, future-filter. Extraction
// is purely structural (table rows to trimmed cells and anchors) and
// drops malformed rows silently; normalization is a chain of heuristic
// text transforms where every step has an explicit fallback, so format
// drift on the third-party pages degrades individual fields instead of
// aborting a run. Two page layouts are supported, the six-cell classic
// tables and the four-cell compact tables.
package scraper
