package research

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jonathan/person-researcher/internal/search"
	"github.com/jonathan/person-researcher/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildContextPrompt(t *testing.T) {
	profile := types.Profile{
		Name:     "Ada Lovelace",
		Headline: "Mathematician",
		Source:   types.SourceWikipedia,
		Text:     "Countess of Lovelace",
	}
	results := ToSearchResults([]search.Result{
		{ID: "x", Title: "Ada", URL: "https://example.com/ada", Text: "About Ada", Summary: "Short", Author: "ignored"},
	})

	prompt, err := BuildContextPrompt("ada lovelace", profile, results)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(prompt, "## Search Query\nada lovelace"))
	assert.Contains(t, prompt, "Name: Ada Lovelace")
	assert.Contains(t, prompt, "Headline: Mathematician")
	assert.Contains(t, prompt, "Source: wikipedia")
	assert.Contains(t, prompt, "Countess of Lovelace")

	idx := strings.Index(prompt, "## Search Results\n")
	require.GreaterOrEqual(t, idx, 0)
	var decoded []types.SearchResult
	require.NoError(t, json.Unmarshal([]byte(prompt[idx+len("## Search Results\n"):]), &decoded))
	assert.Equal(t, []types.SearchResult{{Title: "Ada", URL: "https://example.com/ada", Text: "About Ada", Summary: "Short"}}, decoded)
	assert.NotContains(t, prompt, "ignored")
}

func TestBuildContextPrompt_NoResults(t *testing.T) {
	prompt, err := BuildContextPrompt("ada", types.Profile{Name: "Ada"}, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(prompt, "## Search Results\n[]"))
}

func TestBuildContextPrompt_ValuesAreNotExpanded(t *testing.T) {
	prompt, err := BuildContextPrompt("{{.Name}}", types.Profile{Name: "Ada"}, nil)
	require.NoError(t, err)
	assert.Contains(t, prompt, "## Search Query\n{{.Name}}")
}

func TestProfilePrompt(t *testing.T) {
	prompt, err := ProfilePrompt(&types.Profile{Name: "Ada", URL: "https://en.wikipedia.org/wiki/Ada_Lovelace", Source: types.SourceWikipedia})
	require.NoError(t, err)
	assert.Contains(t, prompt, "URL: https://en.wikipedia.org/wiki/Ada_Lovelace")
	assert.Contains(t, prompt, "Source: wikipedia")
}
