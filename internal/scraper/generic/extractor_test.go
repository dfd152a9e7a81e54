package generic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"go-jobtracker-capture/internal/filter"
	"go-jobtracker-capture/internal/models"
)

func extract(html, pageURL string, meta models.JobMetadata) Fields {
	return NewExtractor(zap.NewNop()).Extract(html, pageURL, meta)
}

func TestCompanyFromSiteName(t *testing.T) {
	html := `<html><head>
		<meta property="og:site_name" content="Acme">
		<title>Careers</title>
	</head><body><h1>Go Developer</h1><p>Join us.</p></body></html>`

	fields := extract(html, "https://jobs.acme.example/42", models.JobMetadata{Company: "Other"})
	assert.Equal(t, "Acme", fields.Company)
}

func TestCompanyCascadeAndMetadataFallback(t *testing.T) {
	html := `<html><body>
		<div class="company-name">  Globex
			Corp </div>
	</body></html>`
	assert.Equal(t, "Globex Corp", extract(html, "https://example.com", models.JobMetadata{}).Company)

	long := `<html><body><div id="employer">` + strings.Repeat("x", 150) + `</div></body></html>`
	assert.Equal(t, "Initech", extract(long, "https://example.com", models.JobMetadata{Company: "Initech"}).Company)
}

func TestLongestDescriptionWins(t *testing.T) {
	short := strings.Repeat("s", 50)
	long := strings.Repeat("l", 500)
	html := `<html><body>
		<div class="job-description">` + short + `</div>
		<section class="description-full">` + long + `</section>
	</body></html>`

	fields := extract(html, "https://example.com/job", models.JobMetadata{})
	assert.Equal(t, long, fields.Description)
}

func TestDescriptionFallsBackToTextBlocks(t *testing.T) {
	html := `<html><body>
		<h2>About</h2>
		<p>We build things.</p>
		<p>   </p>
		<ul><li>Go</li><li>Postgres</li></ul>
	</body></html>`

	fields := extract(html, "https://example.com/job", models.JobMetadata{})
	assert.Equal(t, "About\n\nWe build things.\n\nGo\n\nPostgres", fields.Description)
}

func TestTitleCascade(t *testing.T) {
	tests := []struct {
		name string
		html string
		url  string
		meta models.JobMetadata
		want string
	}{
		{
			name: "indeed specific selector before generic h1",
			html: `<h1>Indeed</h1><div class="jobsearch-JobInfoHeader-title">Platform Engineer</div>`,
			url:  "https://www.indeed.com/viewjob?jk=1",
			want: "Platform Engineer",
		},
		{
			name: "site selectors ignored for other hosts",
			html: `<h1>Backend Engineer</h1><div class="jobsearch-JobInfoHeader-title">Wrong</div>`,
			url:  "https://careers.example.com/1",
			want: "Backend Engineer",
		},
		{
			name: "titled h1 before plain h1",
			html: `<h1>Site name</h1><h1 class="job-title">SRE</h1>`,
			url:  "https://example.com",
			want: "SRE",
		},
		{
			name: "document title",
			html: `<html><head><title> Data Engineer | Example </title></head><body></body></html>`,
			url:  "https://example.com",
			want: "Data Engineer | Example",
		},
		{
			name: "metadata only when nothing matches",
			html: `<html><body><p>nothing</p></body></html>`,
			url:  "https://example.com",
			meta: models.JobMetadata{Position: "QA Engineer"},
			want: "QA Engineer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extract(tt.html, tt.url, tt.meta).Title)
		})
	}
}

func TestLocation(t *testing.T) {
	html := `<div class="job-location">` + strings.Repeat("y", 120) + `</div>
		<span data-test="location">Berlin, Germany</span>`
	assert.Equal(t, "Berlin, Germany", extract(html, "https://example.com", models.JobMetadata{}).Location)

	assert.Empty(t, extract(`<p>remote</p>`, "https://example.com", models.JobMetadata{}).Location)
}

func TestSalary(t *testing.T) {
	tests := []struct {
		html string
		want string
	}{
		{`<div class="pay">$120,000 - $150,000 a year</div>`, "$120,000 - $150,000"},
		{`<span>Compensation: €50k–70k.</span>`, "€50k–70k"},
		{`<span>Зарплата 150 000 руб</span>`, "150 000 руб"},
		{`<span>USD 4000 per month</span>`, "USD 4000"},
		{`<p>No pay listed</p>`, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, extract(tt.html, "https://example.com", models.JobMetadata{}).Salary, tt.html)
	}
}

func TestSourceTypeAndSeniority(t *testing.T) {
	html := `<h1 class="job-title">Senior Go Engineer</h1>`

	fields := extract(html, "https://www.glassdoor.com/job-listing/1", models.JobMetadata{})
	assert.Equal(t, models.SourceGlassdoor, fields.SourceType)
	assert.Equal(t, filter.LevelMidSenior, fields.Seniority)

	fields = extract(html, "https://example.com/1", models.JobMetadata{})
	assert.Equal(t, models.SourceGeneric, fields.SourceType)
}
