package search

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// maxGoogleResults is the Custom Search API page size limit.
const maxGoogleResults = 10

// PageFetcher returns the readable text of a page.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// GoogleClient implements Provider over Google Custom Search. It cannot find
// similar pages or run research tasks.
type GoogleClient struct {
	svc   *customsearch.Service
	cx    string
	pages PageFetcher
}

// NewGoogleClient creates a Custom Search client. pages may be nil, in which
// case result text is the search snippet.
func NewGoogleClient(ctx context.Context, apiKey, cx string, pages PageFetcher, opts ...option.ClientOption) (client *GoogleClient, err error) {
	if apiKey == "" || cx == "" {
		err = errors.New("google API key and search engine ID are required")
		return client, err
	}

	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	var svc *customsearch.Service
	svc, err = customsearch.NewService(ctx, opts...)
	if err != nil {
		err = errors.Wrap(err, "failed to create customsearch service")
		return client, err
	}

	client = &GoogleClient{svc: svc, cx: cx, pages: pages}
	return client, err
}

// Name returns the provider name.
func (c *GoogleClient) Name() string {
	return "google"
}

// categorySites maps search categories onto sites Custom Search can restrict to.
var categorySites = map[string]string{
	CategoryLinkedInProfile: "linkedin.com/in",
}

// Search runs a Custom Search query. Domain filters become site restrictions
// and a requested summary is derived from the result title.
func (c *GoogleClient) Search(ctx context.Context, q Query) (results []Result, err error) {
	text := q.Text
	sites := append([]string{}, q.IncludeDomains...)
	if site, ok := categorySites[q.Category]; ok {
		sites = append(sites, site)
	}

	call := c.svc.Cse.List().Cx(c.cx).Context(ctx)
	switch len(sites) {
	case 0:
	case 1:
		call = call.SiteSearch(sites[0]).SiteSearchFilter("i")
	default:
		clauses := make([]string, 0, len(sites))
		for _, site := range sites {
			clauses = append(clauses, "site:"+site)
		}
		text += " (" + strings.Join(clauses, " OR ") + ")"
	}
	if len(q.IncludeText) > 0 {
		call = call.ExactTerms(strings.Join(q.IncludeText, " "))
	}

	num := q.NumResults
	if num <= 0 || num > maxGoogleResults {
		num = maxGoogleResults
	}

	var resp *customsearch.Search
	resp, err = call.Q(text).Num(int64(num)).Do()
	if err != nil {
		err = errors.Wrap(err, "google search failed")
		return results, err
	}

	results = make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		result := Result{
			ID:    item.CacheId,
			Title: item.Title,
			URL:   item.Link,
			Text:  item.Snippet,
		}
		if result.ID == "" {
			result.ID = item.Link
		}
		if q.Contents.Text && c.pages != nil {
			if body, fetchErr := c.pages.FetchText(ctx, item.Link); fetchErr == nil && body != "" {
				result.Text = body
			} else if fetchErr != nil {
				slog.DebugContext(ctx, "page text unavailable, using snippet", "url", item.Link, "error", fetchErr)
			}
		}
		if q.Contents.Summary != nil {
			result.Summary = summarizeTitle(item.Title, item.Snippet)
		}
		results = append(results, result)
	}
	return results, err
}

// FindSimilar is not offered by Custom Search.
func (c *GoogleClient) FindSimilar(ctx context.Context, q SimilarQuery) ([]Result, error) {
	return nil, ErrUnsupported
}

// summarizeTitle derives a {name, headline} JSON summary from a page title
// such as "Ada Lovelace - Mathematician - Analytical Engine | LinkedIn" or
// "Ada Lovelace - Wikipedia".
func summarizeTitle(title, snippet string) string {
	if idx := strings.LastIndex(title, " | "); idx >= 0 {
		title = title[:idx]
	}
	title = strings.TrimSuffix(title, " - Wikipedia")
	title = strings.TrimSuffix(title, " - LinkedIn")

	name, headline, _ := strings.Cut(title, " - ")
	headline = strings.TrimSpace(headline)
	if headline == "" {
		headline = firstSentence(snippet)
	}

	data, _ := json.Marshal(map[string]string{
		"name":     strings.TrimSpace(name),
		"headline": headline,
	})
	return string(data)
}

func firstSentence(text string) string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\n", " "))
	if idx := strings.Index(text, ". "); idx >= 0 {
		return text[:idx+1]
	}
	return text
}
