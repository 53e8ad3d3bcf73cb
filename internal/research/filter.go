package research

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/jonathan/person-researcher/internal/search"
	"github.com/jonathan/person-researcher/internal/types"
)

const (
	linkedInProfilePath = "linkedin.com/in/"
	wikipediaArticle    = "wikipedia.org/wiki/"
	maxSimilarProfiles  = 10
)

// parseSummary decodes the {name, headline} summary attached to a result.
// An unparseable summary yields empty fields.
func parseSummary(r search.Result) types.ProfileSummary {
	var summary types.ProfileSummary
	if r.Summary == "" {
		return summary
	}
	if err := json.Unmarshal([]byte(r.Summary), &summary); err != nil {
		slog.Debug("unparseable profile summary", "url", r.URL, "error", err)
		return types.ProfileSummary{}
	}
	summary.Name = strings.TrimSpace(summary.Name)
	summary.Headline = strings.TrimSpace(summary.Headline)
	return summary
}

func toProfile(r search.Result, source types.Source) types.Profile {
	summary := parseSummary(r)
	return types.Profile{
		ID:       r.ID,
		Name:     summary.Name,
		Headline: summary.Headline,
		URL:      r.URL,
		Text:     r.Text,
		Source:   source,
	}
}

// linkedInProfiles keeps results that are LinkedIn member profiles.
func linkedInProfiles(results []search.Result) []types.Profile {
	profiles := make([]types.Profile, 0, len(results))
	for _, r := range results {
		if !strings.Contains(r.URL, linkedInProfilePath) {
			continue
		}
		profiles = append(profiles, toProfile(r, types.SourceLinkedIn))
	}
	return profiles
}

// wikipediaProfiles keeps Wikipedia articles whose summary names a person.
func wikipediaProfiles(results []search.Result) []types.Profile {
	profiles := make([]types.Profile, 0, len(results))
	for _, r := range results {
		if !strings.Contains(r.URL, wikipediaArticle) {
			continue
		}
		p := toProfile(r, types.SourceWikipedia)
		if p.Name == "" || p.Headline == "" {
			continue
		}
		profiles = append(profiles, p)
	}
	return profiles
}

// similarProfiles drops nameless results and the person being researched,
// capped at maxSimilarProfiles.
func similarProfiles(results []search.Result, excludeName string) []types.Profile {
	exclude := strings.ToLower(strings.TrimSpace(excludeName))
	profiles := make([]types.Profile, 0, maxSimilarProfiles)
	for _, r := range results {
		p := toProfile(r, types.SourceFromURL(r.URL))
		if p.Name == "" {
			continue
		}
		if exclude != "" && strings.ToLower(p.Name) == exclude {
			continue
		}
		profiles = append(profiles, p)
		if len(profiles) == maxSimilarProfiles {
			break
		}
	}
	return profiles
}
