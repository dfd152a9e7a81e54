package artifact

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"go-jobtracker-capture/internal/config"
	"go-jobtracker-capture/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(config.CacheConfig{Root: filepath.Join(t.TempDir(), "job_cache")})
}

func TestPrepareIsIdempotent(t *testing.T) {
	s := newTestStore(t)

	dir, err := s.Prepare("42")
	require.NoError(t, err)
	again, err := s.Prepare("42")
	require.NoError(t, err)
	assert.Equal(t, dir, again)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestInvalidJobID(t *testing.T) {
	s := newTestStore(t)

	for _, id := range []string{"", ".", "..", "../etc", `a\b`} {
		_, err := s.Prepare(id)
		assert.ErrorIs(t, err, ErrInvalidJobID, id)
		assert.False(t, s.IsCaptured(id))
		assert.ErrorIs(t, s.Remove(id), ErrInvalidJobID)
	}
}

func TestWriteAndReadArtifacts(t *testing.T) {
	s := newTestStore(t)

	files, err := s.WriteArtifacts("7", Artifacts{
		HTML:       "<html><body>hi</body></html>",
		Screenshot: []byte{0x89, 'P', 'N', 'G'},
		Text:       "hi",
	})
	require.NoError(t, err)
	assert.FileExists(t, files.HTML)
	assert.FileExists(t, files.Screenshot)
	assert.FileExists(t, files.Text)

	html, ok := s.ReadHTML("7")
	assert.True(t, ok)
	assert.Equal(t, "<html><body>hi</body></html>", html)

	text, ok := s.ReadText("7")
	assert.True(t, ok)
	assert.Equal(t, "hi", text)

	path, ok := s.ScreenshotPath("7")
	assert.True(t, ok)
	assert.Equal(t, files.Screenshot, path)
}

func TestEmptyArtifactsAreSkipped(t *testing.T) {
	s := newTestStore(t)

	files, err := s.WriteArtifacts("7", Artifacts{Text: "only text"})
	require.NoError(t, err)
	assert.Empty(t, files.HTML)
	assert.Empty(t, files.Screenshot)
	assert.NotEmpty(t, files.Text)

	_, ok := s.ScreenshotPath("7")
	assert.False(t, ok)
}

func TestReadsOnMissingJob(t *testing.T) {
	s := newTestStore(t)

	_, ok := s.ReadResult("nope")
	assert.False(t, ok)
	_, ok = s.ReadHTML("nope")
	assert.False(t, ok)
	_, ok = s.ReadText("nope")
	assert.False(t, ok)
	_, ok = s.ScreenshotPath("nope")
	assert.False(t, ok)
	_, ok = s.ReadDebugInfo("nope")
	assert.False(t, ok)
	assert.False(t, s.IsCaptured("nope"))
}

func TestResultRoundTripMarksCaptured(t *testing.T) {
	s := newTestStore(t)

	result := &models.ParseResult{
		JobID:      "9",
		URL:        "https://example.com/job/9",
		Title:      "Backend Engineer",
		SourceType: models.SourceGeneric,
		ParsedAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	assert.False(t, s.IsCaptured("9"))
	require.NoError(t, s.WriteResult(result))
	assert.True(t, s.IsCaptured("9"))

	got, ok := s.ReadResult("9")
	require.True(t, ok)
	assert.Equal(t, result.Title, got.Title)
	assert.True(t, result.ParsedAt.Equal(got.ParsedAt))

	// no temp files left next to data.json
	entries, err := os.ReadDir(filepath.Join(s.Root(), "9"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCorruptResultReadsAsAbsent(t *testing.T) {
	s := newTestStore(t)

	dir, err := s.Prepare("3")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ResultFile), []byte("{not json"), 0644))

	_, ok := s.ReadResult("3")
	assert.False(t, ok)
}

func TestResetKeepsDebugInfo(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.WriteDebugInfo(models.DebugInfo{CaptureID: "c1", JobID: "5", URL: "https://example.com"}))
	_, err := s.WriteArtifacts("5", Artifacts{HTML: "<p>old</p>", Screenshot: []byte{1}, Text: "old"})
	require.NoError(t, err)
	require.NoError(t, s.WriteResult(&models.ParseResult{JobID: "5"}))

	require.NoError(t, s.Reset("5"))

	assert.False(t, s.IsCaptured("5"))
	_, ok := s.ReadHTML("5")
	assert.False(t, ok)
	_, ok = s.ScreenshotPath("5")
	assert.False(t, ok)

	info, ok := s.ReadDebugInfo("5")
	require.True(t, ok)
	assert.Equal(t, "c1", info.CaptureID)

	// reset on a job that never existed is fine
	assert.NoError(t, s.Reset("never"))
}

func TestRemove(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.WriteResult(&models.ParseResult{JobID: "11"}))
	require.NoError(t, s.Remove("11"))
	assert.False(t, s.IsCaptured("11"))
	assert.NoDirExists(t, filepath.Join(s.Root(), "11"))

	assert.NoError(t, s.Remove("11"))
}

func TestRemoveWaitsForJobLock(t *testing.T) {
	s := newTestStore(t)

	unlock := s.Lock("12")
	removed := make(chan struct{})
	go func() {
		_ = s.Remove("12")
		close(removed)
	}()

	select {
	case <-removed:
		t.Fatal("Remove returned while the job was locked")
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, s.WriteResult(&models.ParseResult{JobID: "12"}))
	unlock()
	<-removed
	assert.False(t, s.IsCaptured("12"))
}

func TestLocksAreIndependentPerJob(t *testing.T) {
	s := newTestStore(t)

	unlockA := s.Lock("a")
	defer unlockA()

	var wg sync.WaitGroup
	wg.Add(1)
	done := make(chan struct{})
	go func() {
		defer wg.Done()
		unlockB := s.Lock("b")
		unlockB()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on job b blocked behind job a")
	}
	wg.Wait()
}
