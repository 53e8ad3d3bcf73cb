package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	mu    sync.Mutex
	pages map[string]*Page
	err   error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{pages: make(map[string]*Page)}
}

func (m *memoryStore) GetFreshPage(_ context.Context, url string, ttl time.Duration) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	page, ok := m.pages[url]
	if !ok || time.Since(page.FetchedAt) > ttl {
		return nil, nil
	}
	return page, nil
}

func (m *memoryStore) UpsertPage(_ context.Context, page *Page) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page.URL] = page
	return nil
}

func longParagraph() string {
	return "<p>" + strings.Repeat("Ada Lovelace wrote about the Analytical Engine. ", 20) + "</p>"
}

func TestDefaultCachedFetcherConfig(t *testing.T) {
	config := DefaultCachedFetcherConfig()
	require.NotNil(t, config)
	assert.Equal(t, DefaultCacheTTL, config.CacheTTL)
	assert.False(t, config.SkipCache)
	assert.False(t, config.UseBrowser)
	assert.NotNil(t, config.Options)
}

func TestNewCachedFetcher_EmptyConfig(t *testing.T) {
	fetcher := NewCachedFetcher(nil, &CachedFetcherConfig{})
	require.NotNil(t, fetcher)
	assert.Equal(t, DefaultCacheTTL, fetcher.cacheTTL)
	assert.NotNil(t, fetcher.options)
	assert.NotNil(t, fetcher.render)
}

func TestCachedFetcher_FetchStoresAndReusesPage(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("<html><head><title>Ada Lovelace</title></head><body><main>" + longParagraph() + "</main></body></html>"))
	}))
	defer server.Close()

	store := newMemoryStore()
	fetcher := NewCachedFetcher(store, nil)

	first, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.False(t, first.FromCache)
	assert.Contains(t, first.Text, "Analytical Engine")
	require.Contains(t, store.pages, server.URL)

	second, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, second.FromCache)
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, "Ada Lovelace", second.Title)
	assert.Equal(t, int32(1), hits.Load())
}

func TestCachedFetcher_SkipCache(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		_, _ = w.Write([]byte("<html><body>hello</body></html>"))
	}))
	defer server.Close()

	store := newMemoryStore()
	fetcher := NewCachedFetcher(store, &CachedFetcherConfig{SkipCache: true})

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	_, err = fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, int32(2), hits.Load())
}

func TestCachedFetcher_StoreError(t *testing.T) {
	store := newMemoryStore()
	store.err = errors.New("connection refused")
	fetcher := NewCachedFetcher(store, nil)

	_, err := fetcher.Fetch(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to check cache")
}

func TestCachedFetcher_BrowserFallbackForShortPages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div id="root"></div></body></html>`))
	}))
	defer server.Close()

	var renderedURL string
	fetcher := NewCachedFetcher(nil, &CachedFetcherConfig{
		UseBrowser: true,
		Render: func(_ context.Context, url string, _ time.Duration) (string, error) {
			renderedURL = url
			return "<html><body><main>" + longParagraph() + "</main></body></html>", nil
		},
	})

	result, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, result.Rendered)
	assert.Equal(t, server.URL, renderedURL)
	assert.Contains(t, result.Text, "Analytical Engine")
}

func TestCachedFetcher_BrowserFallbackAfterHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	fetcher := NewCachedFetcher(nil, &CachedFetcherConfig{
		UseBrowser: true,
		Render: func(context.Context, string, time.Duration) (string, error) {
			return "", errors.New("chrome not installed")
		},
	})

	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "403")
}

func TestCachedFetcher_FetchText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body><article>Profile body</article></body></html>"))
	}))
	defer server.Close()

	text, err := NewCachedFetcher(nil, nil).FetchText(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Profile body", text)
}
