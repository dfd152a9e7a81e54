package browser

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// ErrNavigation is returned when both the network-idle and the DOM-ready
// navigation attempts fail.
var ErrNavigation = errors.New("navigation failed")

var blockedResourceTypes = map[string]bool{
	"image": true,
	"font":  true,
	"media": true,
}

var launchArgs = []string{
	"--no-sandbox",
	"--disable-setuid-sandbox",
	"--disable-dev-shm-usage",
	"--disable-accelerated-2d-canvas",
	"--disable-gpu",
	"--window-size=1920,1080",
}

// Page is what a render produces. Screenshot is nil when it could not be taken.
type Page struct {
	URL        string
	HTML       string
	Screenshot []byte
}

type Options struct {
	Headless          bool
	NavigationTimeout time.Duration
	CookiesPath       string
	Scroll            ScrollOptions
}

// Renderer drives a headless Chromium. Every call gets its own playwright
// driver and browser process, closed before the call returns.
type Renderer struct {
	opts Options
	log  *zap.Logger
}

func NewRenderer(opts Options, log *zap.Logger) *Renderer {
	if opts.NavigationTimeout <= 0 {
		opts.NavigationTimeout = 30 * time.Second
	}
	return &Renderer{opts: opts, log: log}
}

// session holds one isolated browser
type session struct {
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	log     *zap.Logger
}

func (r *Renderer) launch(rawURL string) (*session, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("could not start playwright: %w", err)
	}
	s := &session{pw: pw, log: r.log}

	s.browser, err = pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(r.opts.Headless),
		Args:     launchArgs,
	})
	if err != nil {
		s.close()
		return nil, fmt.Errorf("could not launch chromium browser: %w", err)
	}

	browserCtx, err := s.browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent: playwright.String(RandomUserAgent()),
		Viewport: &playwright.Size{
			Width:  1920,
			Height: 1080,
		},
	})
	if err != nil {
		s.close()
		return nil, fmt.Errorf("could not create browser context: %w", err)
	}

	if cookies := r.cookiesFor(rawURL); len(cookies) > 0 {
		if err := browserCtx.AddCookies(cookies); err != nil {
			r.log.Warn("⚠️ Could not add cookies", zap.Error(err))
		}
	}

	s.page, err = browserCtx.NewPage()
	if err != nil {
		s.close()
		return nil, fmt.Errorf("could not create new page: %w", err)
	}
	return s, nil
}

// close tears the browser and the driver down. Errors are logged only.
func (s *session) close() {
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.log.Warn("⚠️ Failed to close browser", zap.Error(err))
		}
	}
	if err := s.pw.Stop(); err != nil {
		s.log.Warn("⚠️ Failed to stop playwright", zap.Error(err))
	}
}

func (r *Renderer) cookiesFor(rawURL string) []playwright.OptionalCookie {
	if r.opts.CookiesPath == "" {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	cookieFile := CookieFileForHost(r.opts.CookiesPath, u.Hostname())
	if cookieFile == "" {
		return nil
	}
	cookies, err := LoadCookies(cookieFile)
	if err != nil {
		return nil
	}
	r.log.Debug("🍪 Loaded cookies", zap.String("file", cookieFile), zap.Int("count", len(cookies)))
	return cookies
}

// Render navigates to rawURL, scrolls to trigger lazy content and returns the
// final HTML plus a best-effort full-page screenshot.
func (r *Renderer) Render(ctx context.Context, rawURL string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.log.Info("🤖 Starting browser", zap.String("url", rawURL))
	s, err := r.launch(rawURL)
	if err != nil {
		return nil, err
	}
	defer s.close()

	page := s.page
	if err := page.Route("**/*", func(route playwright.Route) {
		if blockedResourceTypes[route.Request().ResourceType()] {
			_ = route.Abort()
			return
		}
		_ = route.Continue()
	}); err != nil {
		return nil, fmt.Errorf("could not install request filter: %w", err)
	}

	page.OnConsole(func(msg playwright.ConsoleMessage) {
		r.log.Debug("🌐 Browser console", zap.String("text", msg.Text()))
	})
	page.OnPageError(func(pageErr error) {
		r.log.Debug("🔴 Browser page error", zap.Error(pageErr))
	})

	if err := r.navigate(ctx, page, rawURL); err != nil {
		return nil, err
	}

	steps, err := AutoScroll(ctx, page, r.opts.Scroll)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		r.log.Warn("⚠️ Auto-scroll stopped early", zap.Int("steps", steps), zap.Error(err))
	} else {
		r.log.Debug("📜 Auto-scroll finished", zap.Int("steps", steps))
	}

	screenshot, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		r.log.Warn("⚠️ Failed to capture screenshot", zap.String("url", rawURL), zap.Error(err))
		screenshot = nil
	}

	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("could not read page content: %w", err)
	}

	return &Page{
		URL:        page.URL(),
		HTML:       html,
		Screenshot: screenshot,
	}, nil
}

// navigate waits for network idle first and, if that fails, retries once
// waiting only for DOMContentLoaded.
func (r *Renderer) navigate(ctx context.Context, page playwright.Page, rawURL string) error {
	timeout := playwright.Float(float64(r.opts.NavigationTimeout.Milliseconds()))

	_, err := page.Goto(rawURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   timeout,
	})
	if err == nil {
		return nil
	}
	r.log.Warn("⚠️ Network-idle navigation failed, retrying with DOM ready", zap.String("url", rawURL), zap.Error(err))

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	if _, err := page.Goto(rawURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   timeout,
	}); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, rawURL, err)
	}
	r.log.Info("⚠️ Page loaded partially (DOM only)", zap.String("url", rawURL))
	return nil
}

// Screenshot opens rawURL in a fresh browser and returns a full-page PNG.
// It neither scrolls nor blocks resources.
func (r *Renderer) Screenshot(ctx context.Context, rawURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s, err := r.launch(rawURL)
	if err != nil {
		return nil, err
	}
	defer s.close()

	if _, err := s.page.Goto(rawURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		Timeout:   playwright.Float(float64(r.opts.NavigationTimeout.Milliseconds())),
	}); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNavigation, rawURL, err)
	}

	png, err := s.page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("could not capture screenshot: %w", err)
	}
	return png, nil
}
