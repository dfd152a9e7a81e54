package capture

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-jobtracker-capture/internal/artifact"
	"go-jobtracker-capture/internal/browser"
	"go-jobtracker-capture/internal/filter"
	"go-jobtracker-capture/internal/models"
	"go-jobtracker-capture/internal/scraper"
	"go-jobtracker-capture/internal/scraper/generic"
	"go-jobtracker-capture/internal/scraper/linkedin"
)

// Renderer is the browser backend. *browser.Renderer satisfies it.
type Renderer interface {
	Render(ctx context.Context, rawURL string) (*browser.Page, error)
	Screenshot(ctx context.Context, rawURL string) ([]byte, error)
}

// PostingFetcher fetches LinkedIn postings without a browser.
// *linkedin.GuestClient satisfies it.
type PostingFetcher interface {
	FetchPosting(ctx context.Context, postingID string) (*linkedin.Posting, error)
}

// Service runs captures: one URL in, one ParseResult plus artifacts out.
type Service struct {
	store     *artifact.Store
	renderer  Renderer
	guest     PostingFetcher
	extractor *generic.Extractor
	log       *zap.Logger

	workers      int
	delayMin     time.Duration
	delayMax     time.Duration
	now          func() time.Time
	newCaptureID func() string
}

type Option func(*Service)

func WithPostingFetcher(f PostingFetcher) Option {
	return func(s *Service) { s.guest = f }
}

// WithWorkers bounds how many captures a sweep runs at once.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithSweepDelay adds a random pause before each swept capture.
func WithSweepDelay(min, max time.Duration) Option {
	return func(s *Service) {
		s.delayMin = min
		s.delayMax = max
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(store *artifact.Store, renderer Renderer, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store:        store,
		renderer:     renderer,
		extractor:    generic.NewExtractor(log),
		log:          log,
		workers:      1,
		now:          time.Now,
		newCaptureID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.guest == nil {
		s.guest = linkedin.NewGuestClient(10*time.Second, log)
	}
	return s
}

func (s *Service) Store() *artifact.Store {
	return s.store
}

// Capture fetches rawURL, extracts the posting and persists every artifact
// under the job's directory. LinkedIn postings always produce a result; the
// other strategies return a *Error when no HTML could be obtained.
func (s *Service) Capture(ctx context.Context, rawURL, jobID string, meta models.JobMetadata) (*models.ParseResult, error) {
	if err := validateURL(rawURL); err != nil {
		return nil, &Error{Stage: StageValidate, JobID: jobID, Err: err}
	}
	if _, err := s.store.Dir(jobID); err != nil {
		return nil, &Error{Stage: StageValidate, JobID: jobID, Err: err}
	}

	unlock := s.store.Lock(jobID)
	defer unlock()

	strategy := scraper.Select(rawURL)
	log := s.log.With(
		zap.String("job_id", jobID),
		zap.String("url", rawURL),
		zap.String("strategy", strategy.Name),
	)
	log.Info("🔍 Starting capture")

	info := models.DebugInfo{
		CaptureID: s.newCaptureID(),
		JobID:     jobID,
		URL:       rawURL,
		ParsedAt:  s.now(),
		JobData:   meta,
	}
	if err := s.store.WriteDebugInfo(info); err != nil {
		return nil, &Error{Stage: StagePrepare, JobID: jobID, Err: err}
	}
	if err := s.store.Reset(jobID); err != nil {
		return nil, &Error{Stage: StagePrepare, JobID: jobID, Err: err}
	}

	var (
		result *models.ParseResult
		err    error
	)
	switch strategy.Kind {
	case scraper.KindLinkedIn:
		result, err = s.captureLinkedIn(ctx, log, rawURL, jobID, meta)
	case scraper.KindLinkedInFallback:
		result, err = s.captureRendered(ctx, log, rawURL, jobID, meta, models.SourceLinkedInFallback)
	default:
		result, err = s.captureRendered(ctx, log, rawURL, jobID, meta, "")
	}
	if err != nil {
		log.Error("❌ Capture failed", zap.Error(err))
		return nil, &Error{Stage: StageStrategy, JobID: jobID, Err: err}
	}

	log.Info("✅ Capture complete",
		zap.String("source_type", string(result.SourceType)),
		zap.String("title", result.Title),
		zap.Bool("screenshot", result.Files.Screenshot != ""),
	)
	return result, nil
}

func validateURL(rawURL string) error {
	if rawURL == "" {
		return fmt.Errorf("%w: empty", ErrInvalidURL)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %s", ErrInvalidURL, rawURL)
	}
	return nil
}

// captureRendered is the browser path. An empty tag means the tag comes from
// the page host.
func (s *Service) captureRendered(ctx context.Context, log *zap.Logger, rawURL, jobID string, meta models.JobMetadata, tag models.SourceType) (*models.ParseResult, error) {
	page, err := s.renderer.Render(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	pageURL := page.URL
	if pageURL == "" {
		pageURL = rawURL
	}
	fields := s.extractor.Extract(page.HTML, pageURL, meta)
	if tag == "" {
		tag = fields.SourceType
	}

	files, err := s.store.WriteArtifacts(jobID, artifact.Artifacts{
		HTML:       page.HTML,
		Screenshot: page.Screenshot,
		Text:       fields.Description,
	})
	if err != nil {
		return nil, err
	}

	result := &models.ParseResult{
		JobID:       jobID,
		URL:         rawURL,
		Title:       fields.Title,
		Company:     fields.Company,
		Location:    fields.Location,
		Salary:      fields.Salary,
		Description: fields.Description,
		Seniority:   fields.Seniority,
		SourceType:  tag,
		ParsedAt:    s.now(),
		Files:       files,
	}
	if err := s.store.WriteResult(result); err != nil {
		return nil, err
	}
	log.Debug("💾 Saved rendered capture", zap.String("html", files.HTML), zap.String("screenshot", files.Screenshot))
	return result, nil
}

// captureLinkedIn walks the fallback ladder: guest API, then the browser
// path, then a result built from meta alone. Only a store write failure on
// the last step is returned.
func (s *Service) captureLinkedIn(ctx context.Context, log *zap.Logger, rawURL, jobID string, meta models.JobMetadata) (*models.ParseResult, error) {
	result, err := s.captureGuestAPI(ctx, log, rawURL, jobID, meta)
	if err == nil {
		return result, nil
	}
	if errors.Is(err, linkedin.ErrNoPostingID) {
		log.Info("⚠️ No LinkedIn posting id, switching to browser")
	} else {
		log.Warn("⚠️ LinkedIn guest API failed, switching to browser", zap.Error(err))
	}

	if err := s.store.Reset(jobID); err != nil {
		return nil, err
	}
	result, err = s.captureRendered(ctx, log, rawURL, jobID, meta, models.SourceLinkedInFallback)
	if err == nil {
		return result, nil
	}
	log.Warn("⚠️ Browser fallback failed, saving minimal LinkedIn result", zap.Error(err))

	if err := s.store.Reset(jobID); err != nil {
		return nil, err
	}
	return s.captureMinimal(rawURL, jobID, meta)
}

func (s *Service) captureGuestAPI(ctx context.Context, log *zap.Logger, rawURL, jobID string, meta models.JobMetadata) (*models.ParseResult, error) {
	postingID, err := linkedin.PostingID(rawURL)
	if err != nil {
		return nil, err
	}
	log.Info("🔑 LinkedIn posting id", zap.String("posting_id", postingID))

	posting, err := s.guest.FetchPosting(ctx, postingID)
	if err != nil {
		return nil, err
	}

	screenshot, err := s.renderer.Screenshot(ctx, rawURL)
	if err != nil {
		log.Warn("⚠️ Could not take LinkedIn screenshot", zap.Error(err))
		screenshot = nil
	}

	files, err := s.store.WriteArtifacts(jobID, artifact.Artifacts{
		HTML:       posting.HTML,
		Screenshot: screenshot,
		Text:       posting.Description,
	})
	if err != nil {
		return nil, err
	}

	result := posting.Result(jobID, rawURL, meta)
	if result.Seniority == "" {
		result.Seniority = filter.InferSeniority(result.Title, result.Description)
	}
	result.ParsedAt = s.now()
	result.Files = files
	if err := s.store.WriteResult(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) captureMinimal(rawURL, jobID string, meta models.JobMetadata) (*models.ParseResult, error) {
	files, err := s.store.WriteArtifacts(jobID, artifact.Artifacts{Text: linkedin.FallbackText(rawURL)})
	if err != nil {
		return nil, err
	}

	result := linkedin.FallbackResult(jobID, rawURL, meta)
	result.ParsedAt = s.now()
	result.Files = files
	if err := s.store.WriteResult(result); err != nil {
		return nil, err
	}
	return result, nil
}
