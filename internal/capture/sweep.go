package capture

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"go-jobtracker-capture/internal/browser"
	"go-jobtracker-capture/internal/models"
)

type SweepReport struct {
	Total    int `json:"total"`
	Captured int `json:"captured"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// SweepFunc is called after every attempted capture, from the worker that ran it.
type SweepFunc func(job models.Job, result *models.ParseResult, err error)

// Sweep captures every job that has a link and no data.json yet. Skips are
// not failures. At most the configured number of workers run at once, each
// with its own browser. A cancelled ctx stops new captures from starting.
func (s *Service) Sweep(ctx context.Context, jobs []models.Job, onDone SweepFunc) (SweepReport, error) {
	report := SweepReport{Total: len(jobs)}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, job := range jobs {
		if job.Link == "" {
			s.log.Debug("⏭️ Skipping job without link", zap.String("job_id", job.ID))
			report.Skipped++
			continue
		}
		if s.store.IsCaptured(job.ID) {
			s.log.Debug("⏭️ Skipping captured job", zap.String("job_id", job.ID))
			report.Skipped++
			continue
		}
		if gctx.Err() != nil {
			break
		}

		job := job
		g.Go(func() error {
			if err := browser.RandomDelay(gctx, s.delayMin, s.delayMax); err != nil {
				return err
			}

			result, err := s.Capture(gctx, job.Link, job.ID, job.Metadata())

			mu.Lock()
			if err != nil {
				report.Failed++
			} else {
				report.Captured++
			}
			mu.Unlock()

			if onDone != nil {
				onDone(job, result, err)
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	s.log.Info("📊 Sweep finished",
		zap.Int("total", report.Total),
		zap.Int("captured", report.Captured),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed),
	)
	return report, err
}
