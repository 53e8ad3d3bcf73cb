// Package search wraps the third-party web search APIs used to find people
// and the pages written about them.
package search

import (
	"context"
	"encoding/json"
)

// Type selects the search backend's retrieval mode.
type Type string

// Search types understood by the providers
const (
	TypeAuto    Type = "auto"
	TypeKeyword Type = "keyword"
	TypeNeural  Type = "neural"
)

// Categories that narrow a search to a kind of page
const (
	CategoryLinkedInProfile = "linkedin profile"
)

// Summary asks the provider to summarize each result, optionally as JSON
// matching Schema.
type Summary struct {
	Query  string
	Schema json.RawMessage
}

// Contents controls what is returned for each result besides title and URL.
type Contents struct {
	Text    bool
	Summary *Summary
}

// Query is a web search request.
type Query struct {
	Text           string
	Type           Type
	NumResults     int
	Category       string
	IncludeDomains []string
	IncludeText    []string
	Contents       Contents
}

// SimilarQuery finds pages similar to URL.
type SimilarQuery struct {
	URL            string
	NumResults     int
	IncludeDomains []string
	Contents       Contents
}

// Result is a single search hit. Summary holds whatever the provider produced
// for Contents.Summary, which is a JSON document when a schema was requested.
type Result struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	URL           string `json:"url"`
	PublishedDate string `json:"publishedDate,omitempty"`
	Author        string `json:"author,omitempty"`
	Text          string `json:"text,omitempty"`
	Summary       string `json:"summary,omitempty"`
}

// ResearchTask is an asynchronous research job whose output must match Schema.
type ResearchTask struct {
	Instructions string
	Schema       json.RawMessage
	Model        string
}

// Provider is implemented by every search backend.
type Provider interface {
	Name() string
	Search(ctx context.Context, q Query) ([]Result, error)
	FindSimilar(ctx context.Context, q SimilarQuery) ([]Result, error)
}

// Researcher is implemented by backends that can run research tasks.
type Researcher interface {
	Research(ctx context.Context, task ResearchTask) (json.RawMessage, error)
}
