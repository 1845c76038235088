package harness

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// probe describes one DOM condition checked repeatedly within the polling window.
type probe struct {
	what     string
	selector string
	expected any
	fn       string
	args     []any
	// match decides on the decoded probe result
	match func(observed any) bool
	// render turns the last observation into the error's Actual value; nil uses it as-is
	render func(observed any) any
}

// eventually re-evaluates p every poll interval until it matches or the assert timeout elapses.
func (s *Session) eventually(p probe) error {
	window := s.fixture.AssertTimeout()
	interval := s.fixture.PollInterval()
	deadline := time.Now().Add(window)

	var (
		observed any
		lastErr  error
	)
	for {
		remaining := time.Until(deadline)
		if remaining < interval {
			remaining = interval
		}

		observed = nil
		lastErr = s.call(remaining, p.fn, &observed, p.args...)
		if lastErr == nil && p.match(observed) {
			return nil
		}

		if time.Now().After(deadline) {
			break
		}

		select {
		case <-s.ctx.Done():
			lastErr = s.ctx.Err()
		case <-time.After(interval):
			continue
		}
		break
	}

	actual := observed
	if lastErr != nil {
		actual = fmt.Sprintf("<%v>", lastErr)
	} else if p.render != nil {
		actual = p.render(observed)
	}

	s.logger.Warn().
		Str("what", p.what).
		Str("selector", p.selector).
		Str("expected", fmt.Sprintf("%v", p.expected)).
		Str("actual", fmt.Sprintf("%v", actual)).
		Msg("Assertion failed")

	return &AssertionError{
		What:     p.what,
		Selector: p.selector,
		Expected: p.expected,
		Actual:   actual,
	}
}

// Count returns how many elements currently match sel, without waiting.
func (s *Session) Count(sel string) (int, error) {
	var n int
	if err := s.call(s.fixture.ElementTimeout(), jsCountProbe, &n, sel); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", sel, err)
	}
	return n, nil
}

// ExpectExists asserts at least one element matches sel.
func (s *Session) ExpectExists(sel string) error {
	return s.eventually(probe{
		what:     "element exists",
		selector: sel,
		expected: "at least 1 match",
		fn:       jsCountProbe,
		args:     []any{sel},
		match:    func(v any) bool { n, ok := asInt(v); return ok && n > 0 },
		render:   func(v any) any { return fmt.Sprintf("%v matches", v) },
	})
}

// ExpectVisible asserts at least one element matching sel is visible.
func (s *Session) ExpectVisible(sel string) error {
	return s.eventually(probe{
		what:     "element visible",
		selector: sel,
		expected: "visible",
		fn:       jsVisibilityProbe,
		args:     []any{sel},
		match: func(v any) bool {
			_, visible := visibility(v)
			return visible > 0
		},
		render: renderVisibility,
	})
}

// ExpectNotVisible asserts no element matching sel is visible. An absent element passes.
func (s *Session) ExpectNotVisible(sel string) error {
	return s.eventually(probe{
		what:     "element not visible",
		selector: sel,
		expected: "hidden or absent",
		fn:       jsVisibilityProbe,
		args:     []any{sel},
		match: func(v any) bool {
			total, visible := visibility(v)
			return total >= 0 && visible == 0
		},
		render: renderVisibility,
	})
}

// ExpectText asserts the first element matching sel has exactly want as its trimmed text.
func (s *Session) ExpectText(sel, want string) error {
	return s.eventually(probe{
		what:     "text",
		selector: sel,
		expected: strconv.Quote(want),
		fn:       jsTextProbe,
		args:     []any{sel},
		match: func(v any) bool {
			text, ok := v.(string)
			return ok && strings.TrimSpace(text) == want
		},
		render: renderText,
	})
}

// ExpectContainsText asserts the first element matching sel contains want in its text.
func (s *Session) ExpectContainsText(sel, want string) error {
	return s.eventually(probe{
		what:     "text contains",
		selector: sel,
		expected: strconv.Quote(want),
		fn:       jsTextProbe,
		args:     []any{sel},
		match: func(v any) bool {
			text, ok := v.(string)
			return ok && strings.Contains(text, want)
		},
		render: renderText,
	})
}

// ExpectValue asserts the current value of the first input matching sel is exactly want.
func (s *Session) ExpectValue(sel, want string) error {
	return s.eventually(probe{
		what:     "value",
		selector: sel,
		expected: strconv.Quote(want),
		fn:       jsValueProbe,
		args:     []any{sel},
		match: func(v any) bool {
			value, ok := v.(string)
			return ok && value == want
		},
		render: renderText,
	})
}

// ExpectAttr asserts attribute name of the first element matching sel equals want.
func (s *Session) ExpectAttr(sel, name, want string) error {
	return s.eventually(probe{
		what:     "attribute " + name,
		selector: sel,
		expected: strconv.Quote(want),
		fn:       jsAttrProbe,
		args:     []any{sel, name},
		match: func(v any) bool {
			value, ok := v.(string)
			return ok && value == want
		},
		render: renderText,
	})
}

// ExpectFocused asserts the focused element matches sel.
func (s *Session) ExpectFocused(sel string) error {
	return s.eventually(probe{
		what:     "focus",
		selector: sel,
		expected: "focused",
		fn:       jsFocusedProbe,
		args:     []any{sel},
		match: func(v any) bool {
			focused, ok := v.(bool)
			return ok && focused
		},
		render: func(v any) any {
			if v == nil {
				return "nothing focused"
			}
			return fmt.Sprintf("focus on %v", v)
		},
	})
}

// ExpectURL asserts the document URL equals want.
func (s *Session) ExpectURL(want string) error {
	return s.eventually(probe{
		what:     "url",
		expected: want,
		fn:       jsLocationProbe,
		match: func(v any) bool {
			url, ok := v.(string)
			return ok && url == want
		},
	})
}

// ExpectRemaining asserts the footer counter shows n.
func (s *Session) ExpectRemaining(n int) error {
	want := strconv.Itoa(n)
	return s.eventually(probe{
		what:     "remaining count",
		selector: SelTodoCount,
		expected: want,
		fn:       jsTextProbe,
		args:     []any{SelTodoCount},
		match: func(v any) bool {
			text, ok := v.(string)
			return ok && strings.TrimSpace(text) == want
		},
		render: renderText,
	})
}

// asInt converts a decoded JSON number.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	}
	return 0, false
}

// asStrings converts a decoded JSON array of strings.
func asStrings(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}

// visibility decodes the result of jsVisibilityProbe; total is -1 when it cannot.
func visibility(v any) (total int, visible int) {
	m, ok := v.(map[string]any)
	if !ok {
		return -1, 0
	}
	total, okTotal := asInt(m["total"])
	visible, okVisible := asInt(m["visible"])
	if !okTotal || !okVisible {
		return -1, 0
	}
	return total, visible
}

func renderVisibility(v any) any {
	total, visible := visibility(v)
	switch {
	case total < 0:
		return v
	case total == 0:
		return "absent"
	case visible == 0:
		return fmt.Sprintf("%d hidden", total)
	default:
		return fmt.Sprintf("%d of %d visible", visible, total)
	}
}

func renderText(v any) any {
	if v == nil {
		return "no element"
	}
	if text, ok := v.(string); ok {
		return strconv.Quote(Abbreviate(text))
	}
	return v
}
