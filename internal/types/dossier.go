package types

import "time"

// TimelineEvent is a single position or milestone in a career timeline
type TimelineEvent struct {
	Title       string `json:"title"`
	DateRange   string `json:"dateRange"`
	Description string `json:"description"`
}

// Career holds skills and a reverse-chronological timeline
type Career struct {
	Skills   []string        `json:"skills"`
	Timeline []TimelineEvent `json:"timeline"`
}

// IsEmpty reports whether the career lacks either skills or timeline entries
func (c *Career) IsEmpty() bool {
	return c == nil || len(c.Skills) == 0 || len(c.Timeline) == 0
}

// FunFact is one lesser-known fact with optional attribution
type FunFact struct {
	Fact      string `json:"fact"`
	Source    string `json:"source,omitempty"`
	SourceURL string `json:"sourceUrl,omitempty"`
}

// FunFacts wraps the list of facts the way the API returns it
type FunFacts struct {
	FunFacts []FunFact `json:"funFacts"`
}

// Section names of a dossier. They double as SSE event payload keys.
const (
	SectionContext  = "context"
	SectionSummary  = "summary"
	SectionFunFacts = "funFacts"
	SectionCareer   = "career"
	SectionRoast    = "roast"
	SectionPraise   = "praise"
	SectionSimilar  = "similar"
)

// EnrichmentSections lists the sections fanned out once the context prompt is ready
func EnrichmentSections() []string {
	return []string{
		SectionSummary,
		SectionFunFacts,
		SectionCareer,
		SectionRoast,
		SectionPraise,
		SectionSimilar,
	}
}

// Dossier is the assembled one-page research result for a selected profile.
// Sections that failed are left empty and described in Errors.
type Dossier struct {
	ID            string            `json:"id"`
	SearchQuery   string            `json:"searchQuery"`
	Profile       Profile           `json:"profile"`
	ContextPrompt string            `json:"contextPrompt,omitempty"`
	Summary       string            `json:"summary,omitempty"`
	FunFacts      []FunFact         `json:"funFacts,omitempty"`
	Career        *Career           `json:"career,omitempty"`
	Roast         string            `json:"roast,omitempty"`
	Praise        string            `json:"praise,omitempty"`
	Similar       []Profile         `json:"similar,omitempty"`
	Errors        map[string]string `json:"errors,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// SectionEvent reports a single settled dossier section
type SectionEvent struct {
	Section string `json:"section"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}
