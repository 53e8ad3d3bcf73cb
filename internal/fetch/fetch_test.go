package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastOptions retries without waiting
func fastOptions() *Options {
	opts := DefaultOptions()
	opts.RetryDelay = time.Millisecond
	return opts
}

func TestURL_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Ada Lovelace</title></head><body><main><h1>Test</h1></main></body></html>`))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, server.URL, result.URL)
	assert.Contains(t, result.HTML, "<h1>Test</h1>")
	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, "Ada Lovelace", result.Title)
	assert.Equal(t, "Test", result.Text)
}

func TestURL_InvalidURL(t *testing.T) {
	_, err := URL(context.Background(), "not-a-valid-url", nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "invalid URL")
}

func TestURL_HTTPError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, fastOptions())
	require.Error(t, err)
	require.NotNil(t, result, "result is returned even on error")
	assert.Equal(t, http.StatusNotFound, result.StatusCode)
	assert.Empty(t, result.Text)
	assert.Equal(t, int32(1), calls.Load(), "404 is not retried")

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
	assert.Contains(t, err.Error(), "404")
}

func TestURL_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`<html><body><p>Recovered</p></body></html>`))
	}))
	defer server.Close()

	result, err := URL(context.Background(), server.URL, fastOptions())
	require.NoError(t, err)
	assert.Equal(t, "Recovered", result.Text)
	assert.Equal(t, int32(2), calls.Load())
}

func TestURL_ServerErrorIsRetryable(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	opts := fastOptions()
	opts.Retries = 2
	_, err := URL(context.Background(), server.URL, opts)
	require.Error(t, err)

	var fetchErr *Error
	require.ErrorAs(t, err, &fetchErr)
	assert.True(t, fetchErr.Retryable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestURL_SetsUserAgentAndHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, DefaultUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "de", r.Header.Get("Accept-Language"))
		_, _ = w.Write([]byte("<html></html>"))
	}))
	defer server.Close()

	opts := DefaultOptions()
	opts.Headers = map[string]string{"Accept-Language": "de"}
	_, err := URL(context.Background(), server.URL, opts)
	require.NoError(t, err)
}

func TestExtract_MainElement(t *testing.T) {
	html := `
	<html>
		<body>
			<nav>Navigation</nav>
			<main>
				<h1>Main Content</h1>
				<p>This is the important text.</p>
			</main>
			<footer>Footer</footer>
		</body>
	</html>`

	doc, err := Extract(html, SiteUnknown)
	require.NoError(t, err)
	assert.Contains(t, doc.Text, "Main Content")
	assert.Contains(t, doc.Text, "important text")
	assert.NotContains(t, doc.Text, "Navigation")
	assert.NotContains(t, doc.Text, "Footer")
}

func TestExtract_FallbackToBody(t *testing.T) {
	doc, err := Extract(`<html><body><div>Some content here.</div></body></html>`, SiteUnknown)
	require.NoError(t, err)
	assert.Equal(t, "Some content here.", doc.Text)
	assert.Empty(t, doc.Title)
}

func TestExtract_Wikipedia(t *testing.T) {
	html := `
	<html>
		<head><title>Ada Lovelace - Wikipedia</title></head>
		<body>
			<div id="mw-content-text">
				<div class="mw-parser-output">
					<p>   </p>
					<p>Augusta Ada King was an English mathematician.<sup class="reference">[1]</sup></p>
					<span class="mw-editsection">edit</span>
					<div class="navbox">Computing pioneers</div>
				</div>
			</div>
		</body>
	</html>`

	doc, err := Extract(html, SiteWikipedia)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", doc.Title)
	assert.Equal(t, "Augusta Ada King was an English mathematician.", doc.Description)
	assert.Contains(t, doc.Text, "English mathematician.")
	assert.NotContains(t, doc.Text, "[1]")
	assert.NotContains(t, doc.Text, "edit")
	assert.NotContains(t, doc.Text, "Computing pioneers")
}

func TestExtract_LinkedInMeta(t *testing.T) {
	html := `
	<html>
		<head>
			<title>ignored</title>
			<meta property="og:title" content="Will Bryk - Exa | LinkedIn">
			<meta name="description" content="CEO at Exa. San Francisco.">
		</head>
		<body><main>Experience</main><div class="authwall-join-form">Join now</div></body>
	</html>`

	doc, err := Extract(html, SiteLinkedIn)
	require.NoError(t, err)
	assert.Equal(t, "Will Bryk - Exa", doc.Title)
	assert.Equal(t, "CEO at Exa. San Francisco.", doc.Description)
	assert.Equal(t, "Experience", doc.Text)
}
