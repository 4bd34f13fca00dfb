// Package storage provides JSON-based persistence for the event
// snapshot.
//
// One file (events.json) holds the full ordered event collection from
// the most recent successful scrape run. Every run replaces it
// wholesale via a temp-file-and-rename swap; there is no versioning and
// no mutation path besides full replacement.
package storage
