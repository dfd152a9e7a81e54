package capture

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobtracker-capture/internal/browser"
	"go-jobtracker-capture/internal/models"
)

func TestSweepSkipsAndCounts(t *testing.T) {
	r := &fakeRenderer{page: &browser.Page{HTML: postingHTML}, delay: 20 * time.Millisecond}
	svc, store := newTestService(t, r, WithWorkers(2))

	require.NoError(t, store.WriteResult(&models.ParseResult{JobID: "done"}))

	jobs := []models.Job{
		{ID: "no-link", Company: "A"},
		{ID: "done", Link: "https://example.com/done"},
		{ID: "a", Link: "https://example.com/a"},
		{ID: "b", Link: "https://example.com/b"},
		{ID: "c", Link: "https://example.com/c"},
		{ID: "bad", Link: "ftp://example.com/bad"},
	}

	var mu sync.Mutex
	seen := map[string]error{}
	report, err := svc.Sweep(context.Background(), jobs, func(job models.Job, result *models.ParseResult, err error) {
		mu.Lock()
		defer mu.Unlock()
		seen[job.ID] = err
	})
	require.NoError(t, err)

	assert.Equal(t, SweepReport{Total: 6, Captured: 3, Skipped: 2, Failed: 1}, report)
	assert.Len(t, seen, 4)
	assert.NoError(t, seen["a"])
	assert.ErrorIs(t, seen["bad"], ErrInvalidURL)
	assert.NotContains(t, seen, "done")

	assert.Equal(t, 3, r.renders)
	assert.LessOrEqual(t, r.maxInFlight, 2)
	for _, id := range []string{"a", "b", "c"} {
		assert.True(t, store.IsCaptured(id), id)
	}
}

func TestSweepIsSequentialByDefault(t *testing.T) {
	r := &fakeRenderer{page: &browser.Page{HTML: postingHTML}, delay: 10 * time.Millisecond}
	svc, _ := newTestService(t, r)

	jobs := []models.Job{
		{ID: "1", Link: "https://example.com/1"},
		{ID: "2", Link: "https://example.com/2"},
		{ID: "3", Link: "https://example.com/3"},
	}
	report, err := svc.Sweep(context.Background(), jobs, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Captured)
	assert.Equal(t, 1, r.maxInFlight)
}

func TestSweepCancelled(t *testing.T) {
	r := &fakeRenderer{page: &browser.Page{HTML: postingHTML}}
	svc, _ := newTestService(t, r)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := svc.Sweep(ctx, []models.Job{{ID: "1", Link: "https://example.com/1"}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, report.Captured)
	assert.Zero(t, r.renders)
}
