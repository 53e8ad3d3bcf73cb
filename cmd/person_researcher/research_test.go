package main

import (
	"testing"

	"github.com/jonathan/person-researcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickProfile(t *testing.T) {
	candidates := &types.ProfileCandidates{
		LinkedIn: []types.Profile{
			{Name: "Ada Lovelace", URL: "https://www.linkedin.com/in/ada/", Source: types.SourceLinkedIn},
		},
		Wikipedia: []types.Profile{
			{Name: "Ada Lovelace", URL: "https://en.wikipedia.org/wiki/Ada_Lovelace", Source: types.SourceWikipedia},
		},
	}

	tests := []struct {
		name       string
		candidates *types.ProfileCandidates
		url        string
		prefer     types.Source
		wantURL    string
	}{
		{name: "first candidate", candidates: candidates, wantURL: "https://www.linkedin.com/in/ada/"},
		{name: "preferred source", candidates: candidates, prefer: types.SourceWikipedia, wantURL: "https://en.wikipedia.org/wiki/Ada_Lovelace"},
		{name: "by url ignoring trailing slash", candidates: candidates, url: "https://www.linkedin.com/in/ada", wantURL: "https://www.linkedin.com/in/ada/"},
		{name: "unknown url", candidates: candidates, url: "https://example.com"},
		{name: "preferred source missing falls back", candidates: &types.ProfileCandidates{LinkedIn: candidates.LinkedIn}, prefer: types.SourceWikipedia, wantURL: "https://www.linkedin.com/in/ada/"},
		{name: "no candidates", candidates: &types.ProfileCandidates{}},
		{name: "nil candidates"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pickProfile(tt.candidates, tt.url, tt.prefer)
			if tt.wantURL == "" {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantURL, got.URL)
		})
	}
}

func TestPickProfile_DoesNotAliasCandidates(t *testing.T) {
	candidates := &types.ProfileCandidates{
		LinkedIn: make([]types.Profile, 1, 4),
	}
	candidates.LinkedIn[0] = types.Profile{Name: "Ada", URL: "https://www.linkedin.com/in/ada"}
	candidates.Wikipedia = []types.Profile{{Name: "Ada", URL: "https://en.wikipedia.org/wiki/Ada"}}

	got := pickProfile(candidates, "", "")
	require.NotNil(t, got)
	got.Name = "changed"

	assert.Equal(t, "Ada", candidates.LinkedIn[0].Name)
	assert.Len(t, candidates.LinkedIn, 1)
}
