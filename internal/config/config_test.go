package config

import (
	"testing"

	"github.com/rcanty/pulsefeed/internal/scraper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if cfg.RefreshCron != "0 */12 * * *" {
		t.Errorf("RefreshCron = %q", cfg.RefreshCron)
	}
	if len(cfg.Regions) != 4 {
		t.Errorf("expected 4 default regions, got %v", cfg.Regions)
	}
	if cfg.DefaultPageSize != 20 || cfg.MaxPageSize != 100 {
		t.Errorf("page sizes = %d/%d", cfg.DefaultPageSize, cfg.MaxPageSize)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PULSEFEED_LISTEN_ADDR", ":9999")
	t.Setenv("PULSEFEED_REGIONS", "BayArea,Seattle")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr = %q", cfg.ListenAddr)
	}
	if len(cfg.Regions) != 2 {
		t.Errorf("Regions = %v", cfg.Regions)
	}
}

func TestSources(t *testing.T) {
	cfg := &Config{
		BaseURL: "https://19hz.info",
		Regions: []string{"BayArea", "Seattle"},
	}

	sources := cfg.Sources()
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Region != "Bay Area" {
		t.Errorf("region = %q, want %q", sources[0].Region, "Bay Area")
	}
	if sources[0].URL != "https://19hz.info/eventlisting_BayArea.php" {
		t.Errorf("url = %q", sources[0].URL)
	}
	if sources[0].Layout != scraper.LayoutClassic {
		t.Errorf("layout = %v", sources[0].Layout)
	}
	if sources[1].Region != "Seattle" {
		t.Errorf("region = %q, want %q", sources[1].Region, "Seattle")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		slug string
		want string
	}{
		{"BayArea", "Bay Area"},
		{"LosAngeles", "Los Angeles"},
		{"Seattle", "Seattle"},
		{"SanDiego", "San Diego"},
	}
	for _, tt := range tests {
		if got := displayName(tt.slug); got != tt.want {
			t.Errorf("displayName(%q) = %q, want %q", tt.slug, got, tt.want)
		}
	}
}
