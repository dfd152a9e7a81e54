package main

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-jobtracker-capture/internal/artifact"
	"go-jobtracker-capture/internal/capture"
	"go-jobtracker-capture/internal/database"
	"go-jobtracker-capture/internal/models"
)

// jobStore is the subset of database.Repository the API uses.
type jobStore interface {
	ListJobs(ctx context.Context) ([]models.Job, error)
	GetJobByID(ctx context.Context, jobID string) (*models.Job, error)
	MarkCaptured(ctx context.Context, jobID string, parsedAt time.Time) error
	ClearCaptured(ctx context.Context, jobID string) error
	DeleteJob(ctx context.Context, jobID string) error
}

type notifier interface {
	SendCapture(r *models.ParseResult) error
	SendSweepReport(report capture.SweepReport) error
	SendError(err error) error
}

type captureRequest struct {
	URL      string `json:"url"`
	Company  string `json:"company"`
	Position string `json:"position"`
}

type server struct {
	svc    *capture.Service
	store  *artifact.Store
	jobs   jobStore // nil without DATABASE_URL
	notify notifier // nil without a telegram token
	log    *zap.Logger

	// sweeps outlive the request that started them
	baseCtx   context.Context
	sweeping  atomic.Bool
	sweepWG   sync.WaitGroup
	mu        sync.Mutex
	lastSweep *capture.SweepReport
}

func (s *server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Job capture API is running!",
			"status":  "healthy",
		})
	})

	api := r.Group("/api")
	api.GET("/status", s.status)
	api.POST("/capture-all", s.captureAll)

	jobs := api.Group("/jobs/:id")
	jobs.DELETE("", s.deleteJob)
	jobs.POST("/capture", s.captureJob)
	jobs.DELETE("/capture", s.removeCapture)
	jobs.GET("/parsed", s.parsed)
	jobs.GET("/screenshot", s.screenshot)
	jobs.GET("/html", s.html)
	jobs.GET("/text", s.text)

	return r
}

func noCache(c *gin.Context) {
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
}

func (s *server) captureJob(c *gin.Context) {
	jobID := c.Param("id")

	var req captureRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if req.URL == "" && s.jobs != nil {
		job, err := s.jobs.GetJobByID(c.Request.Context(), jobID)
		if err != nil {
			s.respondError(c, err)
			return
		}
		req.URL = job.Link
		if req.Company == "" {
			req.Company = job.Company
		}
		if req.Position == "" {
			req.Position = job.Position
		}
	}

	meta := models.JobMetadata{Company: req.Company, Position: req.Position}
	result, err := s.svc.Capture(c.Request.Context(), req.URL, jobID, meta)
	if err != nil {
		s.notifyError(err)
		s.respondError(c, err)
		return
	}

	s.markCaptured(c.Request.Context(), result)
	if s.notify != nil {
		if err := s.notify.SendCapture(result); err != nil {
			s.log.Warn("⚠️ Failed to send capture notification", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

func (s *server) removeCapture(c *gin.Context) {
	jobID := c.Param("id")
	if err := s.store.Remove(jobID); err != nil {
		s.respondError(c, err)
		return
	}
	if s.jobs != nil {
		if err := s.jobs.ClearCaptured(c.Request.Context(), jobID); err != nil {
			s.log.Warn("⚠️ Failed to clear capture flag", zap.String("job_id", jobID), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// deleteJob drops the job record, then its cached artifacts.
func (s *server) deleteJob(c *gin.Context) {
	if s.jobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "job store not configured"})
		return
	}
	jobID := c.Param("id")
	if err := s.jobs.DeleteJob(c.Request.Context(), jobID); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.store.Remove(jobID); err != nil {
		s.log.Warn("⚠️ Failed to clean artifacts", zap.String("job_id", jobID), zap.Error(err))
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *server) parsed(c *gin.Context) {
	result, ok := s.store.ReadResult(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "parsed data not found"})
		return
	}
	noCache(c)
	c.JSON(http.StatusOK, result)
}

func (s *server) screenshot(c *gin.Context) {
	path, ok := s.store.ScreenshotPath(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "screenshot not found"})
		return
	}
	noCache(c)
	c.File(path)
}

func (s *server) html(c *gin.Context) {
	html, ok := s.store.ReadHTML(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "html not found"})
		return
	}
	noCache(c)
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

func (s *server) text(c *gin.Context) {
	text, ok := s.store.ReadText(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "text not found"})
		return
	}
	noCache(c)
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// captureAll starts a sweep in the background and answers right away.
func (s *server) captureAll(c *gin.Context) {
	if s.jobs == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "job store is not configured"})
		return
	}

	jobs, err := s.jobs.ListJobs(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}

	if !s.sweeping.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"error": "a capture sweep is already running"})
		return
	}

	s.sweepWG.Add(1)
	go func() {
		defer s.sweepWG.Done()
		defer s.sweeping.Store(false)
		s.runSweep(jobs)
	}()

	c.JSON(http.StatusAccepted, gin.H{"success": true, "total": len(jobs)})
}

func (s *server) runSweep(jobs []models.Job) {
	report, err := s.svc.Sweep(s.baseCtx, jobs, func(job models.Job, result *models.ParseResult, err error) {
		if err != nil {
			s.log.Warn("⚠️ Sweep capture failed", zap.String("job_id", job.ID), zap.Error(err))
			return
		}
		s.markCaptured(s.baseCtx, result)
	})
	if err != nil {
		s.log.Warn("⚠️ Sweep stopped early", zap.Error(err))
	}

	s.mu.Lock()
	s.lastSweep = &report
	s.mu.Unlock()

	if s.notify != nil {
		if err := s.notify.SendSweepReport(report); err != nil {
			s.log.Warn("⚠️ Failed to send sweep report", zap.Error(err))
		}
	}
}

func (s *server) status(c *gin.Context) {
	s.mu.Lock()
	last := s.lastSweep
	s.mu.Unlock()

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"cache_root":    s.store.Root(),
		"job_store":     s.jobs != nil,
		"notifications": s.notify != nil,
		"sweep_running": s.sweeping.Load(),
		"last_sweep":    last,
	})
}

func (s *server) markCaptured(ctx context.Context, result *models.ParseResult) {
	if s.jobs == nil {
		return
	}
	if err := s.jobs.MarkCaptured(ctx, result.JobID, result.ParsedAt); err != nil {
		s.log.Warn("⚠️ Failed to mark job captured", zap.String("job_id", result.JobID), zap.Error(err))
	}
}

func (s *server) notifyError(err error) {
	if s.notify == nil {
		return
	}
	if sendErr := s.notify.SendError(err); sendErr != nil {
		s.log.Warn("⚠️ Failed to send error notification", zap.Error(sendErr))
	}
}

func (s *server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, capture.ErrInvalidURL), errors.Is(err, artifact.ErrInvalidJobID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrJobNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.log.Error("❌ Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	}
}
