package main

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-jobtracker-capture/internal/artifact"
	"go-jobtracker-capture/internal/capture"
	"go-jobtracker-capture/internal/config"
	"go-jobtracker-capture/internal/models"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setupEnv(t *testing.T) *artifact.Store {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CONFIG_PATH", filepath.Join(dir, "missing.yaml"))
	t.Setenv("CACHE_PATH", filepath.Join(dir, "cache"))
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	return artifact.NewStore(config.CacheConfig{Root: filepath.Join(dir, "cache")})
}

func TestShowAndRemove(t *testing.T) {
	store := setupEnv(t)
	require.NoError(t, store.WriteResult(&models.ParseResult{JobID: "42", Title: "Go Developer"}))

	out, err := run(t, "show", "42")
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "Go Developer"`)

	_, err = run(t, "remove", "42")
	require.NoError(t, err)
	assert.False(t, store.IsCaptured("42"))

	_, err = run(t, "show", "42")
	assert.Error(t, err)
}

func TestURLRejectsInvalidInput(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "url", "not-a-url", "--job-id", "1")
	assert.ErrorIs(t, err, capture.ErrInvalidURL)
}

func TestSweepNeedsDatabase(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "sweep")
	assert.ErrorContains(t, err, "DATABASE_URL")
}
