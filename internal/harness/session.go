package harness

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/todo-e2e/internal/common"
)

// Session is one browser page driving the application for a single test case.
// It carries the case context, so helpers take no context argument and every wait is bounded
// by the fixture timeouts. A Session is not safe for concurrent use.
type Session struct {
	fixture *Fixture
	logger  arbor.ILogger
	ctx     context.Context

	screenshotDir string
	screenshotNum int

	// Set after the first successful OpenApp
	opened bool

	// Internal cleanup functions, run in reverse order by Close
	cleanup []func()
}

type sessionOptions struct {
	logger        arbor.ILogger
	screenshotDir string
}

// Option configures a Session.
type Option func(*sessionOptions)

// WithLogger sets the logger actions and failures are written to.
func WithLogger(logger arbor.ILogger) Option {
	return func(o *sessionOptions) {
		o.logger = logger
	}
}

// WithScreenshotDir sets the directory Screenshot writes into. Without it Screenshot is a no-op.
func WithScreenshotDir(dir string) Option {
	return func(o *sessionOptions) {
		o.screenshotDir = dir
	}
}

// NewSession launches Chrome and opens a blank page. The whole session is bounded by the
// fixture's case timeout. Call Close when done.
func NewSession(parent context.Context, fixture *Fixture, opts ...Option) (*Session, error) {
	options := &sessionOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.logger == nil {
		options.logger = arbor.NewLogger()
	}

	s := &Session{
		fixture:       fixture,
		logger:        options.logger,
		screenshotDir: options.screenshotDir,
		cleanup:       make([]func(), 0),
	}

	// Create a timeout context for the entire case
	ctx, cancelTimeout := context.WithTimeout(parent, fixture.CaseTimeout())
	s.cleanup = append(s.cleanup, cancelTimeout)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocatorOptions(fixture.Browser())...)
	s.cleanup = append(s.cleanup, cancelAlloc)

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	s.cleanup = append(s.cleanup, cancelBrowser)
	s.cleanup = append(s.cleanup, func() {
		if err := chromedp.Cancel(browserCtx); err != nil {
			s.logger.Debug().Err(err).Msg("Browser cancel returned")
		}
	})
	s.ctx = browserCtx

	// Start the browser now so a missing binary fails here, not in the first helper
	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	s.logger.Debug().
		Bool("headless", fixture.Browser().Headless).
		Str("entry_url", fixture.EntryURL()).
		Msg("Browser session started")

	return s, nil
}

// allocatorOptions turns browser settings into chromedp allocator options.
func allocatorOptions(browser common.BrowserConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", browser.Headless),
		chromedp.Flag("disable-gpu", browser.DisableGPU),
		chromedp.WindowSize(browser.WindowWidth, browser.WindowHeight),
	)
	if browser.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if browser.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(browser.ExecPath))
	}
	return opts
}

// Close releases the browser and every context the session created. It is safe to call twice.
func (s *Session) Close() {
	for i := len(s.cleanup) - 1; i >= 0; i-- {
		s.cleanup[i]()
	}
	s.cleanup = nil
}

// Context returns the browser context, for callers that need raw chromedp actions.
func (s *Session) Context() context.Context {
	return s.ctx
}

// Fixture returns the fixture the session was built with.
func (s *Session) Fixture() *Fixture {
	return s.fixture
}

// Logger returns the session logger.
func (s *Session) Logger() arbor.ILogger {
	return s.logger
}

var unsafeFileChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// Screenshot captures the full page into the screenshot directory as NN_name.png and returns
// the file path. Without a screenshot directory it does nothing and returns "".
func (s *Session) Screenshot(name string) (string, error) {
	if s.screenshotDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(s.screenshotDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create screenshots directory: %w", err)
	}

	s.screenshotNum++
	safeName := strings.Trim(unsafeFileChars.ReplaceAllString(name, "_"), "_")
	filename := filepath.Join(s.screenshotDir, fmt.Sprintf("%02d_%s.png", s.screenshotNum, safeName))

	var buf []byte
	ctx, cancel := context.WithTimeout(s.ctx, s.fixture.PageReadyTimeout())
	defer cancel()
	if err := chromedp.Run(ctx, chromedp.FullScreenshot(&buf, 90)); err != nil {
		return "", fmt.Errorf("failed to capture screenshot: %w", err)
	}

	if err := os.WriteFile(filename, buf, 0644); err != nil {
		return "", fmt.Errorf("failed to save screenshot: %w", err)
	}

	s.logger.Debug().Str("file", filename).Msg("Screenshot saved")
	return filename, nil
}

// chromeCandidates are the binary names chromedp itself looks for on PATH.
var chromeCandidates = []string{
	"headless_shell",
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"google-chrome-beta",
	"google-chrome-unstable",
	"/usr/bin/google-chrome",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/Applications/Chromium.app/Contents/MacOS/Chromium",
}

// FindChrome returns the Chrome binary a session would launch: execPath when set and
// present, otherwise the first candidate found on PATH.
func FindChrome(execPath string) (string, bool) {
	if execPath != "" {
		if path, err := exec.LookPath(execPath); err == nil {
			return path, true
		}
		return "", false
	}
	for _, name := range chromeCandidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}
