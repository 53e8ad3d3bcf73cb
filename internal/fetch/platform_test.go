package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSite(t *testing.T) {
	tests := []struct {
		url      string
		expected Site
	}{
		{"https://www.linkedin.com/in/ada-lovelace", SiteLinkedIn},
		{"https://linkedin.com/in/ada", SiteLinkedIn},
		{"https://en.wikipedia.org/wiki/Ada_Lovelace", SiteWikipedia},
		{"https://www.crunchbase.com/organization/exa", SiteCrunchbase},
		{"https://www.youtube.com/watch?v=abc", SiteYouTube},
		{"https://youtu.be/abc", SiteYouTube},
		{"https://notlinkedin.com/in/ada", SiteUnknown},
		{"https://example.com", SiteUnknown},
		{"://bad", SiteUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.expected, DetectSite(tt.url))
		})
	}
}

func TestSiteContentSelectors(t *testing.T) {
	assert.Equal(t, "#mw-content-text .mw-parser-output", SiteContentSelectors(SiteWikipedia)[0])
	assert.Contains(t, SiteContentSelectors(SiteLinkedIn), "main")
	assert.Equal(t, DefaultTextSelectors(), SiteContentSelectors(SiteUnknown))
}

func TestSiteNoiseSelectors(t *testing.T) {
	common := SiteNoiseSelectors(SiteUnknown)
	assert.Contains(t, common, "form")

	wiki := SiteNoiseSelectors(SiteWikipedia)
	assert.Contains(t, wiki, ".mw-editsection")
	assert.Greater(t, len(wiki), len(common))

	linkedin := SiteNoiseSelectors(SiteLinkedIn)
	assert.Contains(t, linkedin, ".authwall-join-form")
}

func TestSiteTitleSuffixes(t *testing.T) {
	assert.Equal(t, []string{" - Wikipedia"}, SiteTitleSuffixes(SiteWikipedia))
	assert.Equal(t, []string{" | LinkedIn"}, SiteTitleSuffixes(SiteLinkedIn))
	assert.Nil(t, SiteTitleSuffixes(SiteUnknown))
}
