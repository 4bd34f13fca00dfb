// Package event provides the canonical event record and the date
// heuristics shared by the scrape pipeline and the query engine.
//
// Listing pages publish dates as loose free text ("Fri 04/12", "Sat: May
// 3 2026"). Resolve pins that text to a calendar day at scrape time,
// assuming the current year and rolling forward when the source omits
// the year; ParseStored re-parses a persisted date string at query time.
// Text no pattern matches is carried through opaque rather than dropped.
package event
