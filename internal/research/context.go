package research

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/person-researcher/internal/prompts"
	"github.com/jonathan/person-researcher/internal/search"
	"github.com/jonathan/person-researcher/internal/types"
)

// ToSearchResults keeps the fields of each hit that go into a context prompt.
func ToSearchResults(results []search.Result) []types.SearchResult {
	out := make([]types.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, types.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Text:    r.Text,
			Summary: r.Summary,
		})
	}
	return out
}

// BuildContextPrompt assembles the text every enrichment section is generated
// from: the query, the selected profile and the web search results as JSON.
func BuildContextPrompt(query string, profile types.Profile, results []types.SearchResult) (string, error) {
	if results == nil {
		results = []types.SearchResult{}
	}
	resultsJSON, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode search results: %w", err)
	}

	return prompts.Render(prompts.KeyContextPrompt, map[string]string{
		"SearchQuery": query,
		"Name":        profile.Name,
		"Headline":    profile.Headline,
		"Source":      string(profile.Source),
		"Text":        profile.Text,
		"Results":     string(resultsJSON),
	})
}

// ProfilePrompt describes a single profile for prompts that do not use the
// full context prompt.
func ProfilePrompt(profile *types.Profile) (string, error) {
	return prompts.Render(prompts.KeyProfilePrompt, map[string]string{
		"Name":     profile.Name,
		"Headline": profile.Headline,
		"URL":      profile.URL,
		"Source":   string(profile.Source),
		"Text":     profile.Text,
	})
}
