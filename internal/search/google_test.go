package search

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type stubPages struct {
	text map[string]string
}

func (s stubPages) FetchText(ctx context.Context, url string) (string, error) {
	if text, ok := s.text[url]; ok {
		return text, nil
	}
	return "", errors.New("not cached")
}

func TestSummarizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		snippet  string
		wantName string
		wantHead string
	}{
		{
			name:     "linkedin title",
			title:    "Ada Lovelace - Mathematician - Analytical Engine | LinkedIn",
			wantName: "Ada Lovelace",
			wantHead: "Mathematician - Analytical Engine",
		},
		{
			name:     "wikipedia title uses snippet",
			title:    "Ada Lovelace - Wikipedia",
			snippet:  "Augusta Ada King was an English mathematician. She is chiefly known for her work.",
			wantName: "Ada Lovelace",
			wantHead: "Augusta Ada King was an English mathematician.",
		},
		{
			name:     "bare name",
			title:    "Ada Lovelace",
			wantName: "Ada Lovelace",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got map[string]string
			require.NoError(t, json.Unmarshal([]byte(summarizeTitle(tt.title, tt.snippet)), &got))
			assert.Equal(t, tt.wantName, got["name"])
			assert.Equal(t, tt.wantHead, got["headline"])
		})
	}
}

func TestNewGoogleClient_RequiresCredentials(t *testing.T) {
	_, err := NewGoogleClient(context.Background(), "", "cx", nil)
	assert.Error(t, err)
	_, err = NewGoogleClient(context.Background(), "key", "", nil)
	assert.Error(t, err)
}

func TestGoogleClient_Search(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"items":[
			{"title":"Ada Lovelace - Mathematician | LinkedIn","link":"https://www.linkedin.com/in/ada","snippet":"Snippet text"},
			{"title":"Grace Hopper - Rear Admiral | LinkedIn","link":"https://www.linkedin.com/in/grace","snippet":"Other snippet"}
		]}`)
	}))
	defer srv.Close()

	pages := stubPages{text: map[string]string{"https://www.linkedin.com/in/ada": "Full page text"}}
	client, err := NewGoogleClient(context.Background(), "key", "engine", pages, option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	results, err := client.Search(context.Background(), Query{
		Text:       "ada lovelace",
		NumResults: 25,
		Category:   CategoryLinkedInProfile,
		Contents:   Contents{Text: true, Summary: &Summary{}},
	})
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, []string{"engine"}, query["cx"])
	assert.Equal(t, []string{"linkedin.com/in"}, query["siteSearch"])
	assert.Equal(t, []string{"10"}, query["num"])

	assert.Equal(t, "Full page text", results[0].Text)
	assert.Equal(t, "Other snippet", results[1].Text)
	assert.Equal(t, "https://www.linkedin.com/in/ada", results[0].ID)
	assert.Contains(t, results[0].Summary, `"name":"Ada Lovelace"`)
}

func TestGoogleClient_Search_MultipleDomains(t *testing.T) {
	var q string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q = r.URL.Query().Get("q")
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	client, err := NewGoogleClient(context.Background(), "key", "engine", nil, option.WithEndpoint(srv.URL+"/"))
	require.NoError(t, err)

	results, err := client.Search(context.Background(), Query{
		Text:           "ada",
		IncludeDomains: []string{"linkedin.com", "wikipedia.org"},
	})
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, "ada (site:linkedin.com OR site:wikipedia.org)", q)
}

func TestGoogleClient_FindSimilarUnsupported(t *testing.T) {
	client := &GoogleClient{}
	_, err := client.FindSimilar(context.Background(), SimilarQuery{URL: "https://example.com"})
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{Provider: ProviderExa, ExaAPIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "exa", p.Name())
	_, isResearcher := p.(Researcher)
	assert.True(t, isResearcher)

	p, err = NewProvider(context.Background(), Config{ExaAPIKey: "k"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "exa", p.Name())

	_, err = NewProvider(context.Background(), Config{Provider: ProviderExa}, nil)
	assert.Error(t, err)

	_, err = NewProvider(context.Background(), Config{Provider: "bing"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported search provider")
}
