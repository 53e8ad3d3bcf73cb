package db

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// DossierSummary is a lightweight view of a stored dossier for listing
type DossierSummary struct {
	ID          uuid.UUID `json:"id"`
	SearchQuery string    `json:"searchQuery"`
	ProfileName string    `json:"profileName"`
	ProfileURL  string    `json:"profileUrl"`
	Failed      []string  `json:"failedSections,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// DossierFilters holds optional filters for listing dossiers
type DossierFilters struct {
	Query      string // substring of the search query or profile name
	ProfileURL string
	Limit      int
}

// Listing limits
const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

func (f DossierFilters) limit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

// CrawledPage represents a cached web page
type CrawledPage struct {
	ID             uuid.UUID  `json:"id"`
	URL            string     `json:"url"`
	RawHTML        *string    `json:"-"` // Don't serialize (large)
	Title          *string    `json:"title,omitempty"`
	ParsedText     *string    `json:"parsed_text,omitempty"`
	ContentHash    *string    `json:"content_hash,omitempty"`
	HTTPStatus     *int       `json:"http_status,omitempty"`
	Rendered       bool       `json:"rendered"`
	FetchedAt      time.Time  `json:"fetched_at"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	LastAccessedAt time.Time  `json:"last_accessed_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// DefaultPageCacheTTL is the default time-to-live for cached pages (7 days)
const DefaultPageCacheTTL = 7 * 24 * time.Hour

// HashContent computes SHA-256 hash of content for change detection
func HashContent(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}

// IsExpired returns true if the page cache has expired
func (p *CrawledPage) IsExpired() bool {
	if p.ExpiresAt == nil {
		return false // No expiry set, never expires
	}
	return time.Now().After(*p.ExpiresAt)
}

// IsFresh returns true if the page was fetched within maxAge
func (p *CrawledPage) IsFresh(maxAge time.Duration) bool {
	return time.Since(p.FetchedAt) < maxAge
}
