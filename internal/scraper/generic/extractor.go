package generic

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"go-jobtracker-capture/internal/filter"
	"go-jobtracker-capture/internal/models"
	"go-jobtracker-capture/internal/scraper"
)

// maxShortField bounds location and company matches so a page-wide container
// is never taken for a short field.
const maxShortField = 100

var (
	linkedInTitleSelectors = []string{
		".top-card-layout__title",
		".jobs-unified-top-card__job-title",
		".jobs-details-top-card__job-title",
	}
	indeedTitleSelectors = []string{
		".jobsearch-JobInfoHeader-title",
		`[data-testid="jobsearch-JobInfoHeader-title"]`,
		"#jobsearch-ViewjobPaneWrapper h1",
	}
	glassdoorTitleSelectors = []string{
		".job-title",
		".e1tk4kwz5",
		`[data-test="job-title"]`,
	}
	genericTitleSelectors = []string{
		"h1.job-title",
		"h1.position-title",
		".job-title h1",
		".position-title h1",
		`h1[class*="title"]`,
		"h1",
	}
)

const (
	locationSelector    = `[class*="location"], [data-test="location"], [class*="LocationMetaTag"]`
	companySelector     = `[class*="company"], [class*="employer"], [id*="company"], [id*="employer"]`
	descriptionSelector = `[class*="description"], [class*="job-details"], [id*="job-description"], [class*="content"]`
	textBlockSelector   = "p, h1, h2, h3, h4, h5, h6, li"
)

// salaryRegex looks for a currency symbol or code next to a number or range
// ("$120,000 - $150,000", "€50k–70k", "150 000 руб", "USD 4000"). It runs over
// raw HTML and takes the first hit, so it is noisy by nature: script or
// style content with a currency-looking number will win over the real salary.
var salaryRegex = regexp.MustCompile(`(?i)` +
	`[$£€¥₽]\s*\d[\d\s,.]*[kк]?(?:\s*[-–—]\s*[$£€¥₽]?\s*\d[\d\s,.]*[kк]?)?` +
	`|(?:USD|EUR|GBP|RUB)\s*\d[\d\s,.]*[kк]?(?:\s*[-–—]\s*\d[\d\s,.]*[kк]?)?` +
	`|\d[\d\s,.]*[kк]?(?:\s*[-–—]\s*\d[\d\s,.]*[kк]?)?\s*(?:USD|EUR|GBP|RUB|руб)`)

// Fields is what the extractor could recover from a page. Any field may be empty.
type Fields struct {
	Title       string
	Company     string
	Location    string
	Salary      string
	Description string
	Seniority   string
	SourceType  models.SourceType
}

// Extractor pulls posting fields out of rendered HTML with selector cascades.
type Extractor struct {
	log *zap.Logger
}

func NewExtractor(log *zap.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract never fails: a field that cannot be found is left empty, or filled
// from meta when meta has a value for it.
func (e *Extractor) Extract(html, pageURL string, meta models.JobMetadata) Fields {
	host := scraper.ExtractDomain(pageURL)
	fields := Fields{
		SourceType: scraper.SourceTypeForHost(host),
		Salary:     extractSalary(html),
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		e.log.Warn("⚠️ Could not parse HTML, using job metadata only", zap.String("url", pageURL), zap.Error(err))
		fields.Title = meta.Position
		fields.Company = meta.Company
		return fields
	}

	fields.Title = extractTitle(doc, host)
	if fields.Title == "" {
		fields.Title = meta.Position
	}
	fields.Location = firstShort(doc, locationSelector)
	fields.Company = extractCompany(doc)
	if fields.Company == "" {
		fields.Company = meta.Company
	}
	fields.Description = extractDescription(doc)
	fields.Seniority = filter.InferSeniority(fields.Title, fields.Description)

	e.log.Debug("📝 Extracted fields",
		zap.String("url", pageURL),
		zap.String("title", fields.Title),
		zap.String("company", fields.Company),
		zap.String("location", fields.Location),
		zap.String("salary", fields.Salary),
		zap.Int("description_len", len(fields.Description)),
	)
	return fields
}

func titleSelectorsFor(host string) []string {
	switch scraper.SourceTypeForHost(host) {
	case models.SourceLinkedIn:
		return linkedInTitleSelectors
	case models.SourceIndeed:
		return indeedTitleSelectors
	case models.SourceGlassdoor:
		return glassdoorTitleSelectors
	default:
		return nil
	}
}

func extractTitle(doc *goquery.Document, host string) string {
	candidates := append(append([]string{}, titleSelectorsFor(host)...), genericTitleSelectors...)
	for _, sel := range candidates {
		if title := cleanLine(doc.Find(sel).First().Text()); title != "" {
			return title
		}
	}
	return cleanLine(doc.Find("title").First().Text())
}

func extractCompany(doc *goquery.Document) string {
	if site, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		if site = cleanLine(site); site != "" {
			return site
		}
	}
	return firstShort(doc, companySelector)
}

// firstShort returns the first non-empty match shorter than maxShortField.
func firstShort(doc *goquery.Document, selector string) string {
	var found string
	doc.Find(selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := cleanLine(s.Text())
		if text != "" && utf8.RuneCountInString(text) < maxShortField {
			found = text
			return false
		}
		return true
	})
	return found
}

// extractDescription keeps the longest candidate block; without one it falls
// back to every paragraph, heading and list item on the page.
func extractDescription(doc *goquery.Document) string {
	var best string
	doc.Find(descriptionSelector).Each(func(_ int, s *goquery.Selection) {
		text := cleanBlock(s.Text())
		if utf8.RuneCountInString(text) > utf8.RuneCountInString(best) {
			best = text
		}
	})
	if best != "" {
		return best
	}

	var parts []string
	doc.Find("body").Find(textBlockSelector).Each(func(_ int, s *goquery.Selection) {
		if text := cleanBlock(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(parts, "\n\n")
}

func extractSalary(html string) string {
	match := salaryRegex.FindString(html)
	return strings.TrimRight(match, " \t\r\n .,")
}

// cleanLine collapses all whitespace, for single-line fields.
func cleanLine(s string) string {
	return norm.NFC.String(strings.Join(strings.Fields(s), " "))
}

// cleanBlock trims and normalizes but keeps line structure.
func cleanBlock(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
