// Package fetch provides URL fetching and HTML-to-text processing for the
// profile pages a search returns.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 30 * time.Second
	// DefaultUserAgent is the user agent string for HTTP requests.
	DefaultUserAgent = "Mozilla/5.0 (compatible; PersonResearcher/1.0)"
	// DefaultRetries is how many times a retryable failure is retried.
	DefaultRetries = 1
	// DefaultRetryDelay is the pause before a retry, doubled on each attempt.
	DefaultRetryDelay = 500 * time.Millisecond

	maxBodyBytes = 5 << 20
)

// Result holds the raw and processed content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
	Document
}

// Document is the readable part of a page.
type Document struct {
	Title       string
	Description string
	Text        string
}

// Error represents an error during URL fetching.
type Error struct {
	URL       string
	Message   string
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetch behavior.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	Headers    map[string]string
	Retries    int
	RetryDelay time.Duration
	Client     *http.Client // built from Timeout when nil
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:    DefaultTimeout,
		UserAgent:  DefaultUserAgent,
		Headers:    map[string]string{"Accept-Language": "en-US,en;q=0.9"},
		Retries:    DefaultRetries,
		RetryDelay: DefaultRetryDelay,
	}
}

// URL retrieves a page and extracts its readable text using the selectors
// for the page's site. Retryable failures are retried with backoff. On an
// HTTP error status the partial Result is returned along with the error.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}

	delay := opts.RetryDelay
	for attempt := 0; ; attempt++ {
		result, err := get(ctx, client, urlStr, opts)
		if err == nil || attempt >= opts.Retries || !isRetryable(err) {
			if result != nil && result.StatusCode == http.StatusOK {
				if doc, extractErr := Extract(result.HTML, DetectSite(urlStr)); extractErr == nil {
					result.Document = *doc
				}
			}
			return result, err
		}

		slog.DebugContext(ctx, "retrying fetch", "url", urlStr, "attempt", attempt+1, "error", err)
		select {
		case <-ctx.Done():
			return nil, &Error{URL: urlStr, Message: "canceled", Cause: ctx.Err()}
		case <-time.After(delay):
		}
		delay *= 2
	}
}

func isRetryable(err error) bool {
	var fetchErr *Error
	return errors.As(err, &fetchErr) && fetchErr.Retryable
}

// get performs a single request
func get(ctx context.Context, client *http.Client, urlStr string, opts *Options) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", opts.UserAgent)
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Retryable: ctx.Err() == nil, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Retryable: true, Cause: err}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:       urlStr,
			Message:   fmt.Sprintf("HTTP status %d", resp.StatusCode),
			Retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	return result, nil
}

// Extract parses HTML and returns the page title, description and main text.
// Noise elements are removed first, then the first matching content selector
// for site is used, falling back to the body element.
func Extract(html string, site Site) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := &Document{
		Title:       cleanTitle(firstNonEmpty(metaContent(doc, "og:title"), doc.Find("title").First().Text()), site),
		Description: firstNonEmpty(metaContent(doc, "og:description"), metaContent(doc, "description")),
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()
	doc.Find(strings.Join(SiteNoiseSelectors(site), ", ")).Remove()

	var mainContent *goquery.Selection
	for _, selector := range SiteContentSelectors(site) {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}
	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	result.Text = cleanWhitespace(mainContent.Text())
	if result.Description == "" && site == SiteWikipedia {
		// The lead paragraph stands in for a description
		mainContent.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
			result.Description = strings.TrimSpace(p.Text())
			return result.Description == ""
		})
	}
	return result, nil
}

// metaContent returns the content of a <meta> tag matched by property or name
func metaContent(doc *goquery.Document, key string) string {
	selector := fmt.Sprintf(`meta[property=%q], meta[name=%q]`, key, key)
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

// cleanTitle strips the site suffix such as " - Wikipedia" or " | LinkedIn"
func cleanTitle(title string, site Site) string {
	title = strings.TrimSpace(title)
	for _, suffix := range SiteTitleSuffixes(site) {
		title = strings.TrimSuffix(title, suffix)
	}
	return strings.TrimSpace(title)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// cleanWhitespace trims every line and drops empty ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
