package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// UserAgent identifies the scraper to listing sites.
	UserAgent = "pulsefeed/1.0 (github.com/rcanty/pulsefeed)"

	// DefaultTimeout bounds a single page fetch. There are no retries;
	// each source gets one best-effort attempt per run.
	DefaultTimeout = 30 * time.Second
)

// FetchError reports a failed page fetch for one source. A fetch failure
// skips that source for the current run; other sources are unaffected.
type FetchError struct {
	Region string
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetching %s (%s): unexpected status code %d", e.Region, e.URL, e.Status)
	}
	return fmt.Sprintf("fetching %s (%s): %v", e.Region, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher retrieves raw listing pages over HTTP.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher whose requests time out after the given
// duration. A non-positive timeout falls back to DefaultTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Fetch retrieves the raw page content for one source. Network errors,
// timeouts and non-2xx responses all surface as a *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, &FetchError{Region: src.Region, URL: src.URL, Err: err}
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{Region: src.Region, URL: src.URL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Region: src.Region, URL: src.URL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Region: src.Region, URL: src.URL, Err: err}
	}
	return body, nil
}
