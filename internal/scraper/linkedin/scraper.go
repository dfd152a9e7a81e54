package linkedin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"go-jobtracker-capture/internal/browser"
	"go-jobtracker-capture/internal/models"
)

const (
	defaultGuestAPI = "https://www.linkedin.com/jobs-guest/jobs/api/jobPosting/"
	acceptHeader    = "text/html,application/xhtml+xml,application/xml"
	maxBodySize     = 5 << 20

	FallbackNote        = "Limited access to LinkedIn data. Try opening the link directly in a browser."
	FallbackDescription = "Could not fetch LinkedIn job data. Viewing the full description requires signing in."
)

// ErrNoPostingID means the URL has no /jobs/view/<digits> segment.
var ErrNoPostingID = errors.New("no linkedin posting id in url")

var postingIDRegex = regexp.MustCompile(`/jobs/view/(\d+)`)

// PostingID pulls the numeric posting id out of a job view URL.
func PostingID(rawURL string) (string, error) {
	m := postingIDRegex.FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("%w: %s", ErrNoPostingID, rawURL)
	}
	return m[1], nil
}

// Posting is one job as served by the guest API.
type Posting struct {
	HTML        string
	Title       string
	Company     string
	Location    string
	Description string
	Seniority   string
}

// GuestClient talks to LinkedIn's unauthenticated job posting endpoint. It
// never starts a browser.
type GuestClient struct {
	http    *http.Client
	baseURL string
	log     *zap.Logger
}

type GuestOption func(*GuestClient)

// WithBaseURL points the client at another endpoint; tests use an httptest server.
func WithBaseURL(u string) GuestOption {
	return func(c *GuestClient) { c.baseURL = strings.TrimSuffix(u, "/") + "/" }
}

func WithHTTPClient(h *http.Client) GuestOption {
	return func(c *GuestClient) { c.http = h }
}

func NewGuestClient(timeout time.Duration, log *zap.Logger, opts ...GuestOption) *GuestClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &GuestClient{
		http:    &http.Client{Timeout: timeout},
		baseURL: defaultGuestAPI,
		log:     log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchPosting downloads and parses one posting. Any transport error or
// non-200 answer is returned as is; the caller decides how to degrade.
func (c *GuestClient) FetchPosting(ctx context.Context, postingID string) (*Posting, error) {
	apiURL := c.baseURL + postingID
	c.log.Info("🌐 Requesting LinkedIn guest API", zap.String("api_url", apiURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", browser.RandomUserAgent())
	req.Header.Set("Accept", acceptHeader)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("guest api request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("guest api returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read guest api response: %w", err)
	}

	return ParsePosting(string(body))
}

// ParsePosting reads the fixed guest-page markup. Missing elements leave
// their field empty.
func ParsePosting(html string) (*Posting, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse guest html: %w", err)
	}

	p := &Posting{
		HTML:        html,
		Title:       text(doc.Find(".top-card-layout__title").First()),
		Company:     text(doc.Find(".topcard__org-name-link").First()),
		Location:    text(doc.Find(".topcard__flavor--bullet").First()),
		Description: strings.TrimSpace(doc.Find(".description__text").First().Text()),
	}

	doc.Find(".description__job-criteria-item").EachWithBreak(func(_ int, item *goquery.Selection) bool {
		label := text(item.Find(".description__job-criteria-subheader"))
		if strings.Contains(label, "Seniority") {
			p.Seniority = text(item.Find(".description__job-criteria-text"))
			return false
		}
		return true
	})
	return p, nil
}

// Result turns a posting into a ParseResult, filling gaps from meta. Files
// and ParsedAt are left to the caller.
func (p *Posting) Result(jobID, url string, meta models.JobMetadata) *models.ParseResult {
	return &models.ParseResult{
		JobID:       jobID,
		URL:         url,
		Title:       orDefault(p.Title, meta.Position),
		Company:     orDefault(p.Company, meta.Company),
		Location:    p.Location,
		Description: p.Description,
		Seniority:   p.Seniority,
		SourceType:  models.SourceLinkedIn,
	}
}

// FallbackText is written as content.txt when nothing could be fetched.
func FallbackText(url string) string {
	return "Could not fetch LinkedIn job data.\nOpen the link in a browser to see the full description: " + url
}

// FallbackResult is the minimal result built from caller metadata alone.
func FallbackResult(jobID, url string, meta models.JobMetadata) *models.ParseResult {
	return &models.ParseResult{
		JobID:       jobID,
		URL:         url,
		Title:       meta.Position,
		Company:     meta.Company,
		Description: FallbackDescription,
		SourceType:  models.SourceLinkedInFallback,
		Note:        FallbackNote,
	}
}

func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func orDefault(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
