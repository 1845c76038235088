package harness

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/chromedp/chromedp"
)

// Items is the rendered list collection returned by VerifyCount. It holds the selector and the
// count seen at verification time; every chained check re-reads the live DOM.
type Items struct {
	s        *Session
	selector string
	count    int
}

// Item is one rendered list item addressed by its zero-based position.
type Item struct {
	s        *Session
	index    int
	selector string
}

// VerifyCount waits until exactly expected list items are rendered and returns the collection
// for chained checks. A negative expected count is rejected without polling.
func (s *Session) VerifyCount(expected int) (*Items, error) {
	if expected < 0 {
		return nil, &AssertionError{
			What:     "item count",
			Selector: SelItems,
			Expected: "a non-negative count",
			Actual:   expected,
		}
	}

	window := s.fixture.AssertTimeout()
	// The outer deadline only guards against a lost browser; the poll has its own window
	ctx, cancel := context.WithTimeout(s.ctx, window+s.fixture.ElementTimeout())
	defer cancel()

	err := chromedp.Run(ctx, chromedp.PollFunction(jsCountIsPredicate, nil,
		chromedp.WithPollingArgs(SelItems, expected),
		chromedp.WithPollingInterval(s.fixture.PollInterval()),
		chromedp.WithPollingTimeout(window),
	))
	if err != nil {
		if !errors.Is(err, chromedp.ErrPollingTimeout) && !errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("failed to poll %s: %w", SelItems, err)
		}

		actual, countErr := s.Count(SelItems)
		var observed any = actual
		if countErr != nil {
			observed = fmt.Sprintf("<%v>", countErr)
		}
		s.logger.Warn().
			Str("selector", SelItems).
			Int("expected", expected).
			Str("actual", fmt.Sprintf("%v", observed)).
			Msg("Item count mismatch")
		return nil, &AssertionError{
			What:     "item count",
			Selector: SelItems,
			Expected: expected,
			Actual:   observed,
		}
	}

	s.logger.Debug().Int("count", expected).Msg("Item count verified")
	return &Items{s: s, selector: SelItems, count: expected}, nil
}

// Len returns the count verified by VerifyCount.
func (it *Items) Len() int {
	return it.count
}

// Nth returns the i-th (zero-based) item.
func (it *Items) Nth(i int) *Item {
	return &Item{s: it.s, index: i, selector: itemSelector(i)}
}

// First returns the first item.
func (it *Items) First() *Item {
	return it.Nth(0)
}

// ContainText asserts at least one item's text contains sub.
func (it *Items) ContainText(sub string) error {
	return it.s.eventually(probe{
		what:     "any item contains",
		selector: it.selector,
		expected: strconv.Quote(sub),
		fn:       jsTextsProbe,
		args:     []any{it.selector},
		match: func(v any) bool {
			texts, ok := asStrings(v)
			return ok && anyContains(texts, sub)
		},
		render: renderTexts,
	})
}

// NotContainText asserts no item's text contains sub.
func (it *Items) NotContainText(sub string) error {
	return it.s.eventually(probe{
		what:     "no item contains",
		selector: it.selector,
		expected: strconv.Quote(sub),
		fn:       jsTextsProbe,
		args:     []any{it.selector},
		match: func(v any) bool {
			texts, ok := asStrings(v)
			return ok && !anyContains(texts, sub)
		},
		render: renderTexts,
	})
}

// HaveClass asserts every item carries class. An empty list fails.
func (it *Items) HaveClass(class string) error {
	return it.s.eventually(probe{
		what:     "every item has class",
		selector: it.selector,
		expected: class,
		fn:       jsClassesProbe,
		args:     []any{it.selector},
		match: func(v any) bool {
			lists, ok := asClassLists(v)
			if !ok || len(lists) == 0 {
				return false
			}
			for _, classes := range lists {
				if !containsString(classes, class) {
					return false
				}
			}
			return true
		},
		render: renderClassLists,
	})
}

// NotHaveClass asserts no item carries class.
func (it *Items) NotHaveClass(class string) error {
	return it.s.eventually(probe{
		what:     "no item has class",
		selector: it.selector,
		expected: class,
		fn:       jsClassesProbe,
		args:     []any{it.selector},
		match: func(v any) bool {
			lists, ok := asClassLists(v)
			if !ok {
				return false
			}
			for _, classes := range lists {
				if containsString(classes, class) {
					return false
				}
			}
			return true
		},
		render: renderClassLists,
	})
}


// Text returns the item's label text, trimmed.
func (i *Item) Text() (string, error) {
	label := scope(i.selector, SelLabel)
	var text string
	if err := i.s.run(i.s.fixture.ElementTimeout(), chromedp.TextContent(label, &text, chromedp.ByQuery)); err != nil {
		return "", i.s.elementError(label, err)
	}
	return strings.TrimSpace(text), nil
}

// ContainText asserts the item's text contains sub.
func (i *Item) ContainText(sub string) error {
	return i.s.eventually(probe{
		what:     fmt.Sprintf("item %d contains", i.index),
		selector: i.selector,
		expected: strconv.Quote(sub),
		fn:       jsTextProbe,
		args:     []any{i.selector},
		match: func(v any) bool {
			text, ok := v.(string)
			return ok && strings.Contains(text, sub)
		},
		render: renderText,
	})
}

// NotContainText asserts the item's text does not contain sub. A missing item fails.
func (i *Item) NotContainText(sub string) error {
	return i.s.eventually(probe{
		what:     fmt.Sprintf("item %d does not contain", i.index),
		selector: i.selector,
		expected: strconv.Quote(sub),
		fn:       jsTextProbe,
		args:     []any{i.selector},
		match: func(v any) bool {
			text, ok := v.(string)
			return ok && !strings.Contains(text, sub)
		},
		render: renderText,
	})
}

// HaveClass asserts the item carries class.
func (i *Item) HaveClass(class string) error {
	return i.expectClass(class, true)
}

// NotHaveClass asserts the item is present and does not carry class.
func (i *Item) NotHaveClass(class string) error {
	return i.expectClass(class, false)
}

func (i *Item) expectClass(class string, want bool) error {
	what := fmt.Sprintf("item %d has class", i.index)
	if !want {
		what = fmt.Sprintf("item %d does not have class", i.index)
	}
	return i.s.eventually(probe{
		what:     what,
		selector: i.selector,
		expected: class,
		fn:       jsClassesProbe,
		args:     []any{i.selector},
		match: func(v any) bool {
			lists, ok := asClassLists(v)
			if !ok || len(lists) == 0 {
				return false
			}
			return containsString(lists[0], class) == want
		},
		render: renderClassLists,
	})
}

// Toggle clicks the item's completion toggle.
func (i *Item) Toggle() error {
	return i.s.ToggleItem(i.index)
}

// StartEdit double-clicks the item's label.
func (i *Item) StartEdit() error {
	return i.s.StartEdit(i.index)
}

// Destroy clicks the item's delete control.
func (i *Item) Destroy() error {
	return i.s.DeleteItem(i.index)
}

// Hover moves the mouse over the item.
func (i *Item) Hover() error {
	return i.s.HoverItem(i.index)
}

func anyContains(texts []string, sub string) bool {
	for _, t := range texts {
		if strings.Contains(t, sub) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// asClassLists decodes the result of jsClassesProbe.
func asClassLists(v any) ([][]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([][]string, 0, len(list))
	for _, item := range list {
		classes, ok := asStrings(item)
		if !ok {
			return nil, false
		}
		out = append(out, classes)
	}
	return out, true
}

func renderTexts(v any) any {
	texts, ok := asStrings(v)
	if !ok {
		return v
	}
	if len(texts) == 0 {
		return "no items"
	}
	quoted := make([]string, len(texts))
	for i, t := range texts {
		quoted[i] = strconv.Quote(Abbreviate(strings.TrimSpace(t)))
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}

func renderClassLists(v any) any {
	lists, ok := asClassLists(v)
	if !ok {
		return v
	}
	if len(lists) == 0 {
		return "no items"
	}
	rendered := make([]string, len(lists))
	for i, classes := range lists {
		rendered[i] = fmt.Sprintf("%d:[%s]", i, strings.Join(classes, " "))
	}
	return strings.Join(rendered, " ")
}

// ExpectCount is VerifyCount without the collection.
func (s *Session) ExpectCount(expected int) error {
	_, err := s.VerifyCount(expected)
	return err
}

// ExpectItemContains asserts item i contains text; a negative i means any item.
func (s *Session) ExpectItemContains(i int, text string) error {
	items := &Items{s: s, selector: SelItems}
	if i < 0 {
		return items.ContainText(text)
	}
	return items.Nth(i).ContainText(text)
}

// ExpectItemNotContains asserts item i does not contain text; a negative i means no item.
func (s *Session) ExpectItemNotContains(i int, text string) error {
	items := &Items{s: s, selector: SelItems}
	if i < 0 {
		return items.NotContainText(text)
	}
	return items.Nth(i).NotContainText(text)
}

// ExpectItemClass asserts item i has (present) or lacks class. A negative i applies the check
// to every item.
func (s *Session) ExpectItemClass(i int, class string, present bool) error {
	items := &Items{s: s, selector: SelItems}
	switch {
	case i < 0 && present:
		return items.HaveClass(class)
	case i < 0:
		return items.NotHaveClass(class)
	case present:
		return items.Nth(i).HaveClass(class)
	default:
		return items.Nth(i).NotHaveClass(class)
	}
}
