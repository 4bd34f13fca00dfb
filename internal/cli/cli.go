package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rcanty/pulsefeed/internal/api"
	"github.com/rcanty/pulsefeed/internal/config"
	"github.com/rcanty/pulsefeed/internal/logger"
	"github.com/rcanty/pulsefeed/internal/schedule"
	"github.com/rcanty/pulsefeed/internal/scraper"
	"github.com/rcanty/pulsefeed/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "pulsefeed",
		Short: "Aggregate electronic music event listings into a queryable feed",
		Long: `pulsefeed scrapes region event-listing pages, normalizes them into a
canonical event schema, persists a snapshot, and serves a filterable,
paginated query API.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run the scrape pipeline once and replace the snapshot",
		RunE:  runScrape,
	}
	scrapeCmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the query API and refresh the snapshot on a schedule",
		RunE:  runServe,
	}

	root.AddCommand(scrapeCmd, serveCmd)
	return root
}

// setup loads configuration and wires the store and scraper shared by
// both commands.
func setup() (*config.Config, *storage.Store, *scraper.Scraper, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	level := logger.ParseLevel(cfg.LogLevel)
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, os.Stdout))

	store, err := storage.New(cfg.DataDir)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing storage: %w", err)
	}

	fetcher := scraper.NewFetcher(cfg.FetchTimeout)
	sc := scraper.New(fetcher, cfg.Sources(), cfg.FetchConcurrency)
	return cfg, store, sc, nil
}

// runScrape is the one-off pipeline command
func runScrape(cmd *cobra.Command, args []string) error {
	if flagFormat != "text" && flagFormat != "json" {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	_, store, sc, err := setup()
	if err != nil {
		return err
	}

	count, err := sc.RunAndStore(cmd.Context(), store)
	if err != nil {
		return fmt.Errorf("scrape run: %w", err)
	}

	if flagFormat == "json" {
		out := map[string]interface{}{
			"scraped_at":  time.Now().UTC().Format(time.RFC3339),
			"event_count": count,
			"snapshot":    store.Path(),
		}
		return json.NewEncoder(os.Stdout).Encode(out)
	}
	fmt.Printf("Scraped %d events to %s\n", count, store.Path())
	return nil
}

// runServe wires the HTTP API, runs one scrape at startup, and keeps
// the snapshot fresh on the configured cron cadence until interrupted.
func runServe(cmd *cobra.Command, args []string) error {
	cfg, store, sc, err := setup()
	if err != nil {
		return err
	}

	refresh := func() {
		if _, err := sc.RunAndStore(context.Background(), store); err != nil {
			if errors.Is(err, scraper.ErrRunInProgress) {
				logger.Warn("scheduled run skipped, previous run still going", nil)
				return
			}
			logger.Error("scheduled run failed", nil, err)
		}
	}

	sched, err := schedule.New(cfg.RefreshCron, refresh)
	if err != nil {
		return err
	}

	handler := api.NewHandler(store, sc, cfg.DefaultPageSize, cfg.MaxPageSize)
	server := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: handler.Routes(),
	}

	// Initial run in the background so the listener comes up immediately;
	// a read arriving before it finishes triggers its own run or waits on
	// the snapshot.
	go refresh()
	sched.Start()
	defer sched.Stop()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", logger.Fields{"addr": cfg.ListenAddr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
