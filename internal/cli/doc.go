// Package cli implements the command-line interface for pulsefeed.
//
// The cli package provides the Cobra-based CLI with two commands:
// scrape runs the pipeline once and replaces the snapshot, serve runs
// the HTTP query API with cron-driven snapshot refresh. It coordinates
// the scraper, storage, api and schedule packages.
package cli
