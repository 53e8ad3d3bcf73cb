package fetch

import (
	"net/url"
	"strings"
)

// Site is a known source of profile pages.
type Site string

const (
	// SiteLinkedIn is a LinkedIn public profile
	SiteLinkedIn Site = "linkedin"
	// SiteWikipedia is a Wikipedia article
	SiteWikipedia Site = "wikipedia"
	// SiteCrunchbase is a Crunchbase organization or person page
	SiteCrunchbase Site = "crunchbase"
	// SiteYouTube is a YouTube video or channel page
	SiteYouTube Site = "youtube"
	// SiteUnknown is any other site
	SiteUnknown Site = "unknown"
)

// DetectSite identifies the profile site from a URL.
func DetectSite(urlStr string) Site {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return SiteUnknown
	}

	host := strings.ToLower(parsed.Host)
	switch {
	case hostMatches(host, "linkedin.com"):
		return SiteLinkedIn
	case hostMatches(host, "wikipedia.org"):
		return SiteWikipedia
	case hostMatches(host, "crunchbase.com"):
		return SiteCrunchbase
	case hostMatches(host, "youtube.com"), hostMatches(host, "youtu.be"):
		return SiteYouTube
	default:
		return SiteUnknown
	}
}

func hostMatches(host, domain string) bool {
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// DefaultTextSelectors returns standard selectors for general web content.
func DefaultTextSelectors() []string {
	return []string{"main", "article", ".content", "#content", ".main-content", "#main-content"}
}

// SiteContentSelectors returns content selectors optimized for a specific site.
func SiteContentSelectors(site Site) []string {
	switch site {
	case SiteWikipedia:
		return []string{
			"#mw-content-text .mw-parser-output",
			"#mw-content-text",
			"#bodyContent",
		}
	case SiteLinkedIn:
		return []string{
			"main .core-rail",
			".top-card-layout",
			"main",
		}
	case SiteCrunchbase:
		return []string{
			"profile-section",
			".main-content",
			"main",
		}
	default:
		return DefaultTextSelectors()
	}
}

// SiteTitleSuffixes returns the suffixes a site appends to page titles.
func SiteTitleSuffixes(site Site) []string {
	switch site {
	case SiteWikipedia:
		return []string{" - Wikipedia"}
	case SiteLinkedIn:
		return []string{" | LinkedIn"}
	case SiteCrunchbase:
		return []string{" - Crunchbase Person Profile", " - Crunchbase Company Profile & Funding"}
	case SiteYouTube:
		return []string{" - YouTube"}
	default:
		return nil
	}
}

// SiteNoiseSelectors returns noise exclusion selectors for a specific site.
func SiteNoiseSelectors(site Site) []string {
	common := []string{
		".social-share",
		".share-buttons",
		".cookie-consent",
		".gdpr-notice",
		"form",
	}

	switch site {
	case SiteWikipedia:
		return append(common,
			".mw-editsection",
			".reference",
			".reflist",
			".navbox",
			".infobox",
			"#toc",
			".hatnote",
		)
	case SiteLinkedIn:
		return append(common,
			".join-form",
			".sign-in-modal",
			".authwall-join-form",
			".contextual-sign-in-modal",
		)
	default:
		return common
	}
}
