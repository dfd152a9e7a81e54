// Pick a capture strategy for a posting URL
// Keep the host -> source tag table in one place

package scraper

import (
	"net/url"
	"strings"

	"go-jobtracker-capture/internal/models"
)

// Kind is the closed set of capture strategies.
type Kind int

const (
	KindGeneric Kind = iota
	KindLinkedIn
	KindLinkedInFallback
	KindIndeed
	KindGlassdoor
)

// Strategy is the result of selection: which path to run and the source tag
// its result carries.
type Strategy struct {
	Kind       Kind
	Name       string
	SourceType models.SourceType
}

// Specialized reports whether the strategy tries a lightweight fetch before
// rendering.
func (s Strategy) Specialized() bool {
	return s.Kind == KindLinkedIn
}

// ExtractDomain returns the lower-cased hostname, or "" if rawURL does not parse.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// Select evaluates the host/path table in order; first match wins.
func Select(rawURL string) Strategy {
	domain := ExtractDomain(rawURL)

	switch {
	case strings.Contains(domain, "linkedin.com"):
		if strings.Contains(rawURL, "/jobs/view/") {
			return Strategy{Kind: KindLinkedIn, Name: "LinkedIn API", SourceType: models.SourceLinkedIn}
		}
		return Strategy{Kind: KindLinkedInFallback, Name: "LinkedIn Fallback", SourceType: models.SourceLinkedInFallback}
	case strings.Contains(domain, "indeed.com"):
		return Strategy{Kind: KindIndeed, Name: "Indeed Browser", SourceType: models.SourceIndeed}
	case strings.Contains(domain, "glassdoor.com"):
		return Strategy{Kind: KindGlassdoor, Name: "Glassdoor Browser", SourceType: models.SourceGlassdoor}
	default:
		return Strategy{Kind: KindGeneric, Name: "Standard Browser", SourceType: models.SourceGeneric}
	}
}

// SourceTypeForHost derives the display tag from the hostname alone.
func SourceTypeForHost(host string) models.SourceType {
	host = strings.ToLower(host)
	switch {
	case strings.Contains(host, "linkedin.com"):
		return models.SourceLinkedIn
	case strings.Contains(host, "indeed.com"):
		return models.SourceIndeed
	case strings.Contains(host, "glassdoor.com"):
		return models.SourceGlassdoor
	default:
		return models.SourceGeneric
	}
}
