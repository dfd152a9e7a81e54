package scraper

import (
	"testing"

	"go-jobtracker-capture/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name string
		url  string
		kind Kind
		tag  models.SourceType
	}{
		{"linkedin posting", "https://www.linkedin.com/jobs/view/3812345678/", KindLinkedIn, models.SourceLinkedIn},
		{"linkedin upper case host", "https://WWW.LINKEDIN.COM/jobs/view/42", KindLinkedIn, models.SourceLinkedIn},
		{"linkedin search page", "https://www.linkedin.com/jobs/search/?keywords=go", KindLinkedInFallback, models.SourceLinkedInFallback},
		{"indeed", "https://uk.indeed.com/viewjob?jk=abc", KindIndeed, models.SourceIndeed},
		{"glassdoor", "https://www.glassdoor.com/job-listing/go-dev", KindGlassdoor, models.SourceGlassdoor},
		{"company site", "https://careers.example.com/jobs/1", KindGeneric, models.SourceGeneric},
		{"path mentions linkedin", "https://example.com/linkedin.com/jobs/view/1", KindGeneric, models.SourceGeneric},
		{"unparseable", "http://[::1", KindGeneric, models.SourceGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Select(tt.url)
			assert.Equal(t, tt.kind, s.Kind)
			assert.Equal(t, tt.tag, s.SourceType)
			assert.NotEmpty(t, s.Name)
			assert.Equal(t, tt.kind == KindLinkedIn, s.Specialized())
		})
	}
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "www.indeed.com", ExtractDomain("https://WWW.Indeed.com:443/viewjob"))
	assert.Equal(t, "", ExtractDomain("http://[::1"))
	assert.Equal(t, "", ExtractDomain("not a url"))
}

func TestSourceTypeForHost(t *testing.T) {
	assert.Equal(t, models.SourceLinkedIn, SourceTypeForHost("www.linkedin.com"))
	assert.Equal(t, models.SourceIndeed, SourceTypeForHost("Indeed.com"))
	assert.Equal(t, models.SourceGlassdoor, SourceTypeForHost("glassdoor.com"))
	assert.Equal(t, models.SourceGeneric, SourceTypeForHost(""))
}
