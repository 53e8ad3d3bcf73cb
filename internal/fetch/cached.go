package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultCacheTTL is how long a cached page is considered fresh.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Page is a fetched page as stored in the page cache.
type Page struct {
	URL        string
	HTML       string
	Title      string
	Text       string
	StatusCode int
	Rendered   bool // fetched through the headless browser
	FetchedAt  time.Time
}

// PageStore persists fetched pages.
type PageStore interface {
	// GetFreshPage returns the cached page for url if it is younger than ttl, or nil.
	GetFreshPage(ctx context.Context, url string, ttl time.Duration) (*Page, error)
	// UpsertPage stores or replaces the cached page.
	UpsertPage(ctx context.Context, page *Page) error
}

// RenderFunc renders a URL in a browser and returns its HTML.
type RenderFunc func(ctx context.Context, url string, timeout time.Duration) (string, error)

// CachedFetcher wraps URL fetching with an optional page cache and headless
// browser fallback.
type CachedFetcher struct {
	store      PageStore
	options    *Options
	cacheTTL   time.Duration
	skipCache  bool
	useBrowser bool
	render     RenderFunc
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL   time.Duration
	SkipCache  bool
	UseBrowser bool
	Options    *Options
	Render     RenderFunc // defaults to WithBrowser
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL: DefaultCacheTTL,
		Options:  DefaultOptions(),
	}
}

// NewCachedFetcher creates a new cached fetcher. store may be nil.
func NewCachedFetcher(store PageStore, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	options := config.Options
	if options == nil {
		options = DefaultOptions()
	}
	ttl := config.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	render := config.Render
	if render == nil {
		render = WithBrowser
	}
	return &CachedFetcher{
		store:      store,
		options:    options,
		cacheTTL:   ttl,
		skipCache:  config.SkipCache,
		useBrowser: config.UseBrowser,
		render:     render,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool
	Rendered  bool
}

// Fetch retrieves a URL, using the cache if available and fresh. Fresh
// content is extracted with the selectors for the page's site and cached.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	if !f.skipCache && f.store != nil {
		cached, err := f.store.GetFreshPage(ctx, urlStr, f.cacheTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to check cache: %w", err)
		}
		if cached != nil {
			return &CachedResult{
				Result: &Result{
					URL:        cached.URL,
					HTML:       cached.HTML,
					StatusCode: cached.StatusCode,
					Document:   Document{Title: cached.Title, Text: cached.Text},
				},
				FromCache: true,
				Rendered:  cached.Rendered,
			}, nil
		}
	}

	result, httpErr := URL(ctx, urlStr, f.options)

	rendered := false
	if f.useBrowser && (httpErr != nil || ShouldUseBrowser(result.Text)) {
		html, err := f.render(ctx, urlStr, DefaultBrowserTimeout)
		if err != nil {
			slog.WarnContext(ctx, "browser fallback failed", "url", urlStr, "error", err)
		} else if doc, err := Extract(html, DetectSite(urlStr)); err == nil {
			result = &Result{URL: urlStr, HTML: html, StatusCode: 200, Document: *doc}
			httpErr = nil
			rendered = true
		}
	}
	if httpErr != nil {
		return nil, httpErr
	}

	if f.store != nil {
		page := &Page{
			URL:        urlStr,
			HTML:       result.HTML,
			Title:      result.Title,
			Text:       result.Text,
			StatusCode: result.StatusCode,
			Rendered:   rendered,
			FetchedAt:  time.Now().UTC(),
		}
		if err := f.store.UpsertPage(ctx, page); err != nil {
			slog.WarnContext(ctx, "failed to cache page", "url", urlStr, "error", err)
		}
	}

	return &CachedResult{
		Result:   result,
		Rendered: rendered,
	}, nil
}

// FetchText returns only the extracted text of a page.
func (f *CachedFetcher) FetchText(ctx context.Context, urlStr string) (string, error) {
	result, err := f.Fetch(ctx, urlStr)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}
