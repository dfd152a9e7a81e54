package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// integration test: needs installed playwright browsers
func TestRenderer_Render_Real(t *testing.T) {
	if testing.Short() || os.Getenv("PLAYWRIGHT_TESTS") == "" {
		t.Skip("Skipping browser test; set PLAYWRIGHT_TESTS=1 to run")
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Go Developer</title></head><body><h1>Go Developer</h1>
<img src="/logo.png"><script>document.body.insertAdjacentHTML('beforeend', '<p id="js">rendered</p>')</script></body></html>`))
	}))
	defer srv.Close()

	r := NewRenderer(Options{
		Headless:          true,
		NavigationTimeout: 10 * time.Second,
		Scroll:            ScrollOptions{Interval: 10 * time.Millisecond},
	}, zap.NewNop())

	page, err := r.Render(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, page.HTML, `id="js"`)
	assert.NotEmpty(t, page.Screenshot)
}

func TestRenderer_Render_NavigationFailure(t *testing.T) {
	if testing.Short() || os.Getenv("PLAYWRIGHT_TESTS") == "" {
		t.Skip("Skipping browser test; set PLAYWRIGHT_TESTS=1 to run")
	}

	r := NewRenderer(Options{Headless: true, NavigationTimeout: 2 * time.Second}, zap.NewNop())
	_, err := r.Render(context.Background(), "http://127.0.0.1:1/")
	assert.ErrorIs(t, err, ErrNavigation)
}

func TestRenderer_Render_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRenderer(Options{}, zap.NewNop())
	_, err := r.Render(ctx, "https://example.com")
	assert.ErrorIs(t, err, context.Canceled)

	_, err = r.Screenshot(ctx, "https://example.com")
	assert.ErrorIs(t, err, context.Canceled)
}
