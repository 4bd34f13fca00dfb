// Package config loads pulsefeed configuration from environment
// variables. All variables carry the PULSEFEED_ prefix and every field
// has a working default, so a bare process starts against the public
// listing site.
package config

import (
	"fmt"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/rcanty/pulsefeed/internal/scraper"
)

// Config holds all application-level configuration.
type Config struct {
	// HTTP
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// Storage
	DataDir string `env:"DATA_DIR" envDefault:"data"`

	// Scraper
	BaseURL          string        `env:"BASE_URL" envDefault:"https://19hz.info"`
	Regions          []string      `env:"REGIONS" envDefault:"BayArea,LosAngeles,Seattle,SanDiego"`
	FetchTimeout     time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	FetchConcurrency int           `env:"FETCH_CONCURRENCY" envDefault:"3"`

	// Scheduler: standard 5-field cron expression. The default matches
	// the listing site's update cadence, twice a day.
	RefreshCron string `env:"REFRESH_CRON" envDefault:"0 */12 * * *"`

	// Query
	DefaultPageSize int `env:"DEFAULT_PAGE_SIZE" envDefault:"20"`
	MaxPageSize     int `env:"MAX_PAGE_SIZE" envDefault:"100"`

	// Logging
	LogLevel string `env:"LOG_LEVEL" envDefault:"INFO"`
}

// Load reads configuration from PULSEFEED_-prefixed environment
// variables, falling back to defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "PULSEFEED_"}); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.DefaultPageSize < 1 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize < cfg.DefaultPageSize {
		cfg.MaxPageSize = cfg.DefaultPageSize
	}
	return &cfg, nil
}

// Sources expands the configured region slugs into scrape sources. The
// listing site serves one classic-layout page per region at
// /eventlisting_<Region>.php.
func (c *Config) Sources() []scraper.Source {
	sources := make([]scraper.Source, 0, len(c.Regions))
	for _, slug := range c.Regions {
		sources = append(sources, scraper.Source{
			Region: displayName(slug),
			URL:    fmt.Sprintf("%s/eventlisting_%s.php", c.BaseURL, slug),
			Layout: scraper.LayoutClassic,
		})
	}
	return sources
}

var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// displayName turns a region slug like "BayArea" into the display form
// "Bay Area" used in event records and filters.
func displayName(slug string) string {
	return camelBoundary.ReplaceAllString(slug, "$1 $2")
}
