package research

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/jonathan/person-researcher/internal/prompts"
	"github.com/jonathan/person-researcher/internal/search"
	"github.com/jonathan/person-researcher/internal/types"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const (
	profileResults = 10
	webResults     = 10
	similarResults = 15
	youtubeResults = 10
)

var (
	similarDomains    = []string{"linkedin.com", "wikipedia.org"}
	wikipediaDomains  = []string{"en.wikipedia.org"}
	crunchbaseDomains = []string{"crunchbase.com"}
	youtubeDomains    = []string{"youtube.com"}
)

// LinkedInProfiles searches for LinkedIn member profiles matching query.
func (s *Service) LinkedInProfiles(ctx context.Context, query string) (profiles []types.Profile, err error) {
	if query == "" {
		return nil, &RequiredError{Field: "searchQuery"}
	}
	ctx, op := s.start(ctx, "linkedin_profiles", attribute.String("query", query))
	defer func() { op.End(ctx, err) }()

	results, err := s.search.Search(ctx, search.Query{
		Text:       query,
		Type:       search.TypeKeyword,
		NumResults: profileResults,
		Category:   search.CategoryLinkedInProfile,
		Contents: search.Contents{
			Text: true,
			Summary: &search.Summary{
				Query:  prompts.MustGet(prompts.ResearchFile, prompts.KeyLinkedInSummaryQuery),
				Schema: s.profileSummarySchema,
			},
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "linkedin search failed", "query", query, "error", err)
		return nil, fail(MsgSearch, err)
	}

	profiles = linkedInProfiles(results)
	slog.InfoContext(ctx, "linkedin search complete", "query", query, "results", len(results), "profiles", len(profiles))
	return profiles, nil
}

// WikipediaProfiles searches English Wikipedia for articles about people
// matching query.
func (s *Service) WikipediaProfiles(ctx context.Context, query string) (profiles []types.Profile, err error) {
	if query == "" {
		return nil, &RequiredError{Field: "searchQuery"}
	}
	ctx, op := s.start(ctx, "wikipedia_profiles", attribute.String("query", query))
	defer func() { op.End(ctx, err) }()

	results, err := s.search.Search(ctx, search.Query{
		Text:           query,
		Type:           search.TypeKeyword,
		NumResults:     profileResults,
		IncludeDomains: wikipediaDomains,
		Contents: search.Contents{
			Text: true,
			Summary: &search.Summary{
				Query:  prompts.MustGet(prompts.ResearchFile, prompts.KeyWikipediaSummaryQuery),
				Schema: s.profileSummarySchema,
			},
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "wikipedia search failed", "query", query, "error", err)
		return nil, fail(MsgWikipediaSearch, err)
	}

	profiles = wikipediaProfiles(results)
	slog.InfoContext(ctx, "wikipedia search complete", "query", query, "results", len(results), "profiles", len(profiles))
	return profiles, nil
}

// SearchProfiles runs the LinkedIn and Wikipedia searches concurrently. A
// failing source is reported in Errors and does not fail the other; only a
// failure of both sources is returned as an error.
func (s *Service) SearchProfiles(ctx context.Context, query string) (*types.ProfileCandidates, error) {
	if query == "" {
		return nil, &RequiredError{Field: "searchQuery"}
	}

	candidates := &types.ProfileCandidates{}
	var (
		mu   sync.Mutex
		errs []error
	)
	record := func(source string, err error) {
		mu.Lock()
		defer mu.Unlock()
		errs = append(errs, err)
		if candidates.Errors == nil {
			candidates.Errors = make(map[string]string)
		}
		candidates.Errors[source] = err.Error()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profiles, err := s.LinkedInProfiles(gctx, query)
		if err != nil {
			record(string(types.SourceLinkedIn), err)
			return nil
		}
		mu.Lock()
		candidates.LinkedIn = profiles
		mu.Unlock()
		return nil
	})
	g.Go(func() error {
		profiles, err := s.WikipediaProfiles(gctx, query)
		if err != nil {
			record(string(types.SourceWikipedia), err)
			return nil
		}
		mu.Lock()
		candidates.Wikipedia = profiles
		mu.Unlock()
		return nil
	})
	_ = g.Wait()

	if len(errs) == 2 {
		return nil, fail(MsgSearch, errors.Join(errs...))
	}
	return candidates, nil
}

// WebSearch runs the contextual keyword search used to build the context prompt.
func (s *Service) WebSearch(ctx context.Context, query string) (results []search.Result, err error) {
	if query == "" {
		return nil, &RequiredError{Field: "searchQuery"}
	}
	ctx, op := s.start(ctx, "web_search", attribute.String("query", query))
	defer func() { op.End(ctx, err) }()

	results, err = s.search.Search(ctx, search.Query{
		Text:       query,
		Type:       search.TypeKeyword,
		NumResults: webResults,
		Contents:   search.Contents{Text: true},
	})
	if err != nil {
		slog.ErrorContext(ctx, "web search failed", "query", query, "error", err)
		return nil, fail(MsgWikipediaSearch, err)
	}
	return results, nil
}

// SimilarProfiles finds up to ten LinkedIn or Wikipedia profiles similar to
// profileURL, excluding anyone named profileName.
func (s *Service) SimilarProfiles(ctx context.Context, profileURL, profileName string) (profiles []types.Profile, err error) {
	if profileURL == "" {
		return nil, &RequiredError{Field: "profileUrl"}
	}
	ctx, op := s.start(ctx, "similar_profiles", attribute.String("url", profileURL))
	defer func() { op.End(ctx, err) }()

	results, err := s.search.FindSimilar(ctx, search.SimilarQuery{
		URL:            profileURL,
		NumResults:     similarResults,
		IncludeDomains: similarDomains,
		Contents: search.Contents{
			Text: true,
			Summary: &search.Summary{
				Query:  prompts.MustGet(prompts.ResearchFile, prompts.KeySimilarSummaryQuery),
				Schema: s.profileSummarySchema,
			},
		},
	})
	if err != nil {
		slog.ErrorContext(ctx, "similar search failed", "url", profileURL, "error", err)
		return nil, fail(MsgSimilar, err)
	}

	profiles = similarProfiles(results, profileName)
	slog.InfoContext(ctx, "found similar profiles", "url", profileURL, "profiles", len(profiles))
	return profiles, nil
}

// CrunchbasePages finds the Crunchbase page that mentions websiteURL.
func (s *Service) CrunchbasePages(ctx context.Context, websiteURL string) (results []search.Result, err error) {
	if websiteURL == "" {
		return nil, &RequiredError{Field: "websiteurl"}
	}
	ctx, op := s.start(ctx, "crunchbase_pages", attribute.String("url", websiteURL))
	defer func() { op.End(ctx, err) }()

	results, err = s.search.Search(ctx, search.Query{
		Text:           websiteURL + " crunchbase page:",
		Type:           search.TypeKeyword,
		NumResults:     1,
		IncludeDomains: crunchbaseDomains,
		IncludeText:    []string{websiteURL},
	})
	if err != nil {
		slog.ErrorContext(ctx, "crunchbase search failed", "url", websiteURL, "error", err)
		return nil, fail(MsgSearch, err)
	}
	return results, nil
}

// YouTubeVideos finds YouTube videos that mention websiteURL.
func (s *Service) YouTubeVideos(ctx context.Context, websiteURL string) (results []search.Result, err error) {
	if websiteURL == "" {
		return nil, &RequiredError{Field: "websiteurl"}
	}
	ctx, op := s.start(ctx, "youtube_videos", attribute.String("url", websiteURL))
	defer func() { op.End(ctx, err) }()

	results, err = s.search.Search(ctx, search.Query{
		Text:           websiteURL,
		Type:           search.TypeKeyword,
		NumResults:     youtubeResults,
		IncludeDomains: youtubeDomains,
		IncludeText:    []string{websiteURL},
	})
	if err != nil {
		slog.ErrorContext(ctx, "youtube search failed", "url", websiteURL, "error", err)
		return nil, fail(MsgSearch, err)
	}
	return results, nil
}
