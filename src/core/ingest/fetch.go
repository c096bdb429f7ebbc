package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"skynet/src/log"
)

const (
	// DefaultCacheDir is where fetched article pages are kept between runs.
	DefaultCacheDir = "models/raw_html"

	fetchUserAgent = "SpaceApps/1.0 (email@you.org)"
	fetchTimeout   = 15 * time.Second
	fetchDelay     = 500 * time.Millisecond
)

// Fetcher downloads publication pages with an on-disk cache and a
// politeness delay after every live request.
type Fetcher struct {
	client   *http.Client
	cacheDir string
	delay    time.Duration
}

// NewFetcher creates a Fetcher caching pages under cacheDir. A nil client
// gets a default one with the standard timeout.
func NewFetcher(cacheDir string, client *http.Client) *Fetcher {
	if cacheDir == "" {
		cacheDir = DefaultCacheDir
	}
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}
	return &Fetcher{
		client:   client,
		cacheDir: cacheDir,
		delay:    fetchDelay,
	}
}

// Fetch returns the HTML of a publication page, served from the cache
// when present. Live fetches are written to the cache before returning.
func (f *Fetcher) Fetch(ctx context.Context, url, pmcid string) (string, error) {
	cachePath := filepath.Join(f.cacheDir, pmcid+".html")
	if data, err := os.ReadFile(cachePath); err == nil {
		log.Debug("serving page from cache", "pmcid", pmcid)
		return string(data), nil
	}

	if err := os.MkdirAll(f.cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create cache directory %s: %w", f.cacheDir, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	log.Info("fetching publication page", "pmcid", pmcid, "url", url)
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s returned status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response for %s: %w", url, err)
	}

	if err := os.WriteFile(cachePath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to cache page %s: %w", cachePath, err)
	}

	time.Sleep(f.delay)
	return string(data), nil
}
