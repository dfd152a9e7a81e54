package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go-jobtracker-capture/internal/config"
	"go-jobtracker-capture/internal/models"
)

const (
	DebugFile      = "debug_info.json"
	HTMLFile       = "page.html"
	ScreenshotFile = "screenshot.png"
	TextFile       = "content.txt"
	ResultFile     = "data.json"
)

// staleFiles are cleared at the start of every capture; debug_info.json is
// rewritten instead.
var staleFiles = []string{HTMLFile, ScreenshotFile, TextFile, ResultFile}

var ErrInvalidJobID = errors.New("invalid job id")

// Artifacts are the optional outputs of a capture. Empty fields are not written.
type Artifacts struct {
	HTML       string
	Screenshot []byte
	Text       string
}

// Store keeps one directory per job under the cache root:
// <root>/<jobID>/{debug_info.json, page.html, screenshot.png, content.txt, data.json}
type Store struct {
	root  string
	locks sync.Map // jobID -> *sync.Mutex
}

func NewStore(cfg config.CacheConfig) *Store {
	return &Store{root: cfg.Root}
}

func (s *Store) Root() string {
	return s.root
}

// Dir returns the job directory without creating it
func (s *Store) Dir(jobID string) (string, error) {
	if jobID == "" || jobID == "." || jobID == ".." || strings.ContainsAny(jobID, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidJobID, jobID)
	}
	return filepath.Join(s.root, jobID), nil
}

// Lock serializes work on one job. Captures and removals of the same job
// never interleave; different jobs never contend.
func (s *Store) Lock(jobID string) (unlock func()) {
	v, _ := s.locks.LoadOrStore(jobID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// Prepare creates the job directory. Calling it again is a no-op.
func (s *Store) Prepare(jobID string) (string, error) {
	dir, err := s.Dir(jobID)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", fmt.Errorf("failed to create job directory %s: %w", dir, err)
	}
	return dir, nil
}

func (s *Store) WriteDebugInfo(info models.DebugInfo) error {
	dir, err := s.Prepare(info.JobID)
	if err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, DebugFile), info)
}

// Reset removes artifacts left by a previous capture of the job.
func (s *Store) Reset(jobID string) error {
	dir, err := s.Dir(jobID)
	if err != nil {
		return err
	}
	for _, name := range staleFiles {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove stale %s: %w", name, err)
		}
	}
	return nil
}

// WriteArtifacts stores the non-empty artifacts and returns their paths.
func (s *Store) WriteArtifacts(jobID string, a Artifacts) (models.Files, error) {
	var files models.Files

	dir, err := s.Prepare(jobID)
	if err != nil {
		return files, err
	}

	if a.HTML != "" {
		path := filepath.Join(dir, HTMLFile)
		if err := os.WriteFile(path, []byte(a.HTML), 0644); err != nil {
			return files, fmt.Errorf("failed to save %s: %w", HTMLFile, err)
		}
		files.HTML = path
	}
	if len(a.Screenshot) > 0 {
		path := filepath.Join(dir, ScreenshotFile)
		if err := os.WriteFile(path, a.Screenshot, 0644); err != nil {
			return files, fmt.Errorf("failed to save %s: %w", ScreenshotFile, err)
		}
		files.Screenshot = path
	}
	if a.Text != "" {
		path := filepath.Join(dir, TextFile)
		if err := os.WriteFile(path, []byte(a.Text), 0644); err != nil {
			return files, fmt.Errorf("failed to save %s: %w", TextFile, err)
		}
		files.Text = path
	}
	return files, nil
}

// WriteResult persists data.json. The file is renamed into place so a reader
// never sees a half-written result.
func (s *Store) WriteResult(result *models.ParseResult) error {
	dir, err := s.Prepare(result.JobID)
	if err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, ResultFile), result)
}

// IsCaptured reports whether data.json exists for the job
func (s *Store) IsCaptured(jobID string) bool {
	_, ok := s.existing(jobID, ResultFile)
	return ok
}

func (s *Store) ReadResult(jobID string) (*models.ParseResult, bool) {
	data, ok := s.read(jobID, ResultFile)
	if !ok {
		return nil, false
	}
	var result models.ParseResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (s *Store) ReadDebugInfo(jobID string) (*models.DebugInfo, bool) {
	data, ok := s.read(jobID, DebugFile)
	if !ok {
		return nil, false
	}
	var info models.DebugInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, false
	}
	return &info, true
}

func (s *Store) ReadHTML(jobID string) (string, bool) {
	data, ok := s.read(jobID, HTMLFile)
	return string(data), ok
}

func (s *Store) ReadText(jobID string) (string, bool) {
	data, ok := s.read(jobID, TextFile)
	return string(data), ok
}

func (s *Store) ScreenshotPath(jobID string) (string, bool) {
	return s.existing(jobID, ScreenshotFile)
}

// Remove deletes every artifact of the job. It waits for an in-flight
// capture of the same job to finish first.
func (s *Store) Remove(jobID string) error {
	dir, err := s.Dir(jobID)
	if err != nil {
		return err
	}
	unlock := s.Lock(jobID)
	defer unlock()

	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to remove job directory %s: %w", dir, err)
	}
	return nil
}

func (s *Store) existing(jobID, name string) (string, bool) {
	dir, err := s.Dir(jobID)
	if err != nil {
		return "", false
	}
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

func (s *Store) read(jobID, name string) ([]byte, bool) {
	path, ok := s.existing(jobID, name)
	if !ok {
		return nil, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}
	return data, true
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", filepath.Base(path), err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to chmod %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
	}
	return nil
}
