// Package types provides type definitions for structured data used throughout the person-researcher system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Source identifies where a profile was found
type Source string

const (
	// SourceLinkedIn marks profiles found on linkedin.com/in/
	SourceLinkedIn Source = "linkedin"
	// SourceWikipedia marks profiles found on wikipedia.org/wiki/
	SourceWikipedia Source = "wikipedia"
)

// SourceFromURL infers the profile source from its URL. Anything that is not
// a Wikipedia page is treated as LinkedIn.
func SourceFromURL(url string) Source {
	if strings.Contains(url, "wikipedia.org") {
		return SourceWikipedia
	}
	return SourceLinkedIn
}

// Profile is a candidate person returned by a profile search
type Profile struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Headline string `json:"headline"`
	URL      string `json:"url"`
	Text     string `json:"text,omitempty"`
	Source   Source `json:"source,omitempty"`
}

// SearchResult is the slice of a web search hit that is fed into the context prompt
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Text    string `json:"text"`
	Summary string `json:"summary"`
}

// ProfileSummary is the structured name/headline summary the search API attaches to each hit
type ProfileSummary struct {
	Name     string `json:"name"`
	Headline string `json:"headline"`
}

// ProfileCandidates holds the results of searching both profile sources at once.
// A source that failed has a nil slice and an entry in Errors.
type ProfileCandidates struct {
	LinkedIn  []Profile         `json:"linkedin"`
	Wikipedia []Profile         `json:"wikipedia"`
	Errors    map[string]string `json:"errors,omitempty"`
}
