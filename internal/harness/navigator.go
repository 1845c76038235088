package harness

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/chromedp"
)

// OpenApp navigates to the fixture's entry URL and waits for the root container to be present
// and visible. With storage reset enabled the origin's storage is cleared after the session's
// first load and the page reloaded, so the case starts from an empty list. Later calls keep
// whatever the case has stored.
func (s *Session) OpenApp() error {
	url := s.fixture.EntryURL()
	s.logger.Debug().Str("url", url).Bool("first", !s.opened).Msg("Opening application")

	if err := s.load(url); err != nil {
		return err
	}

	first := !s.opened
	s.opened = true
	if !first || !s.fixture.ResetStorage() {
		return nil
	}

	var failure string
	if err := s.call(s.fixture.ElementTimeout(), jsClearStorage, &failure); err != nil {
		return s.pageNotReady(url, fmt.Errorf("failed to clear storage: %w", err))
	}
	if failure != "" {
		// Storage access can be denied by the page; the case still runs on a fresh profile
		s.logger.Warn().Str("url", url).Str("reason", failure).Msg("Could not clear origin storage")
		return nil
	}

	return s.Reload()
}

// Reload reloads the current page and waits for the root container again.
func (s *Session) Reload() error {
	timeout := s.fixture.PageReadyTimeout()
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	if err := chromedp.Run(ctx,
		chromedp.Reload(),
		chromedp.WaitVisible(SelRoot, chromedp.ByQuery),
	); err != nil {
		var current string
		_ = s.run(s.fixture.ElementTimeout(), chromedp.Location(&current))
		return s.pageNotReady(current, err)
	}

	s.logger.Debug().Msg("Page reloaded")
	return nil
}

// Location returns the current document URL.
func (s *Session) Location() (string, error) {
	var url string
	if err := s.run(s.fixture.ElementTimeout(), chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return url, nil
}

// Title returns the text of the application title.
func (s *Session) Title() (string, error) {
	var text string
	if err := s.run(s.fixture.ElementTimeout(), chromedp.TextContent(SelTitle, &text, chromedp.ByQuery)); err != nil {
		return "", s.elementError(SelTitle, err)
	}
	return strings.TrimSpace(text), nil
}

// load performs a full document load of url and waits for the root container.
// A fragment-only change would not reload the document, so the page is moved onto the target
// URL in place and reloaded instead.
func (s *Session) load(url string) error {
	timeout := s.fixture.PageReadyTimeout()
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()

	var current string
	if err := chromedp.Run(ctx, chromedp.Location(&current)); err != nil {
		return s.pageNotReady(url, err)
	}

	var navigate chromedp.Action = chromedp.Navigate(url)
	if sameDocument(current, url) {
		expr, err := jsCall(jsReplaceURL, url)
		if err != nil {
			return s.pageNotReady(url, err)
		}
		navigate = chromedp.Tasks{
			chromedp.Evaluate(expr, nil),
			chromedp.Reload(),
		}
	}

	if err := chromedp.Run(ctx,
		navigate,
		chromedp.WaitVisible(SelRoot, chromedp.ByQuery),
	); err != nil {
		return s.pageNotReady(url, err)
	}

	s.logger.Debug().Str("url", url).Msg("Application ready")
	return nil
}

func (s *Session) pageNotReady(url string, err error) error {
	notReady := &PageNotReadyError{
		URL:      url,
		Selector: SelRoot,
		Timeout:  s.fixture.PageReadyTimeout(),
		Err:      err,
	}
	s.logger.Warn().Err(err).Str("url", url).Msg("Page not ready")
	return notReady
}

// sameDocument reports whether a and b differ at most by their fragment.
func sameDocument(a, b string) bool {
	if a == "" || strings.HasPrefix(a, "about:") {
		return false
	}
	strip := func(u string) string {
		if i := strings.IndexByte(u, '#'); i >= 0 {
			return u[:i]
		}
		return u
	}
	return strip(a) == strip(b)
}
