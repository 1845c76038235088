package harness

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
)

// typingAllowance is added to the element timeout for every rune typed.
const typingAllowance = 10 * time.Millisecond

// AddOption configures AddItem.
type AddOption func(*addOptions)

type addOptions struct {
	terminator KeySignal
}

// WithTerminator replaces the commit key sent after the text.
func WithTerminator(key KeySignal) AddOption {
	return func(o *addOptions) {
		o.terminator = key
	}
}

// TerminatorOf returns the terminator set by opts, if any.
func TerminatorOf(opts ...AddOption) (KeySignal, bool) {
	var options addOptions
	for _, opt := range opts {
		opt(&options)
	}
	return options.terminator, options.terminator != ""
}

// AddItem types text into the new-item input followed by the terminating key signal
// (the commit key unless WithTerminator is given). The text is not validated: empty, padded and
// very long strings are sent as-is. It returns once the key events are dispatched and does not
// wait for the application to react.
func (s *Session) AddItem(text string, opts ...AddOption) error {
	terminator, ok := TerminatorOf(opts...)
	if !ok {
		terminator = s.fixture.CommitKey()
	}

	if err := s.waitVisible(SelNewTodo); err != nil {
		return err
	}

	keys := text + terminator.Keys()
	if err := s.run(s.typingTimeout(keys), chromedp.SendKeys(SelNewTodo, keys, chromedp.ByQuery)); err != nil {
		return s.elementError(SelNewTodo, err)
	}

	s.logger.Debug().
		Str("selector", SelNewTodo).
		Str("text", Abbreviate(text)).
		Str("terminator", terminator.String()).
		Msg("Item typed")
	return nil
}

// TypeAndTrigger types text into the new-item input, then fires a synthetic keydown event
// carrying key on it. Unlike a real key press the event produces no character.
func (s *Session) TypeAndTrigger(text string, key KeySignal) error {
	if err := s.waitVisible(SelNewTodo); err != nil {
		return err
	}

	if err := s.run(s.typingTimeout(text), chromedp.SendKeys(SelNewTodo, text, chromedp.ByQuery)); err != nil {
		return s.elementError(SelNewTodo, err)
	}

	var dispatched bool
	if err := s.call(s.fixture.ElementTimeout(), jsDispatchKeydown, &dispatched, SelNewTodo, key.DOMKey()); err != nil {
		return fmt.Errorf("failed to dispatch keydown %s: %w", key, err)
	}
	if !dispatched {
		return &ElementNotFoundError{Selector: SelNewTodo, Timeout: s.fixture.ElementTimeout()}
	}

	s.logger.Debug().Str("text", Abbreviate(text)).Str("key", key.String()).Msg("Keydown triggered")
	return nil
}

// ToggleItem clicks the completion toggle of the i-th rendered item.
func (s *Session) ToggleItem(i int) error {
	return s.click(scope(itemSelector(i), SelToggle))
}

// ToggleAll clicks the toggle-all control. The application hides it visually, so the click is
// dispatched on the element directly.
func (s *Session) ToggleAll() error {
	return s.forceClick(SelToggleAll)
}

// StartEdit double-clicks the label of the i-th item and waits for its edit field.
func (s *Session) StartEdit(i int) error {
	item := itemSelector(i)
	label := scope(item, SelLabel)

	if err := s.waitVisible(label); err != nil {
		return err
	}
	if err := s.run(s.fixture.ElementTimeout(), chromedp.DoubleClick(label, chromedp.ByQuery)); err != nil {
		return s.elementError(label, err)
	}

	edit := scope(item, SelEdit)
	if err := s.waitVisible(edit); err != nil {
		return err
	}

	s.logger.Debug().Str("selector", label).Msg("Edit started")
	return nil
}

// EditItem replaces the text of the i-th item: double-click its label, clear the edit field,
// type text and finish with terminator (Enter saves, Escape cancels).
func (s *Session) EditItem(i int, text string, terminator KeySignal) error {
	if err := s.StartEdit(i); err != nil {
		return err
	}
	return s.TypeInEdit(i, text, terminator)
}

// TypeInEdit clears the edit field of the i-th item, which must already be in edit mode, and
// types text followed by terminator.
func (s *Session) TypeInEdit(i int, text string, terminator KeySignal) error {
	edit := scope(itemSelector(i), SelEdit)

	var selected bool
	if err := s.call(s.fixture.ElementTimeout(), jsSelectAll, &selected, edit); err != nil {
		return s.elementError(edit, err)
	}
	if !selected {
		return &ElementNotFoundError{Selector: edit, Timeout: s.fixture.ElementTimeout()}
	}

	// Keys go to the focused edit field; refocusing it would move the caret
	keys := kb.Backspace + text + terminator.Keys()
	if err := s.run(s.typingTimeout(keys), chromedp.KeyEvent(keys)); err != nil {
		return fmt.Errorf("failed to type into %s: %w", edit, err)
	}

	s.logger.Debug().
		Str("selector", edit).
		Str("text", Abbreviate(text)).
		Str("terminator", terminator.String()).
		Msg("Edit typed")
	return nil
}

// DeleteItem clicks the delete control of the i-th item. The control only shows on hover, so
// the click is dispatched on the element directly, preferring a visible match.
func (s *Session) DeleteItem(i int) error {
	return s.forceClick(scope(itemSelector(i), SelDestroy))
}

// ClearCompleted clicks the clear-completed button.
func (s *Session) ClearCompleted() error {
	return s.click(SelClearComplete)
}

// FollowFilter clicks the footer link of filter f. It never navigates directly.
func (s *Session) FollowFilter(f Filter) error {
	return s.click(f.Selector())
}

// HoverItem moves the mouse over the i-th item and dispatches mouseenter on its view.
func (s *Session) HoverItem(i int) error {
	view := itemSelector(i) + " .view"
	if err := s.waitReady(view); err != nil {
		return err
	}

	var point *struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := s.call(s.fixture.ElementTimeout(), jsDispatchHover, &point, view); err != nil {
		return s.elementError(view, err)
	}
	if point == nil {
		return &ElementNotFoundError{Selector: view, Timeout: s.fixture.ElementTimeout()}
	}

	if err := s.run(s.fixture.ElementTimeout(), chromedp.ActionFunc(func(ctx context.Context) error {
		return input.DispatchMouseEvent(input.MouseMoved, point.X, point.Y).Do(ctx)
	})); err != nil {
		return fmt.Errorf("failed to move mouse over %s: %w", view, err)
	}

	s.logger.Debug().Str("selector", view).Msg("Item hovered")
	return nil
}

// RemainingCount reads the number shown in the footer counter.
func (s *Session) RemainingCount() (int, error) {
	if err := s.waitReady(SelTodoCount); err != nil {
		return 0, err
	}

	var text string
	if err := s.run(s.fixture.ElementTimeout(), chromedp.TextContent(SelTodoCount, &text, chromedp.ByQuery)); err != nil {
		return 0, s.elementError(SelTodoCount, err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("remaining count %q is not a number: %w", text, err)
	}
	return n, nil
}

// ClickText clicks the innermost element whose own text contains text.
func (s *Session) ClickText(text string) error {
	xpath := fmt.Sprintf(`(//body//*[not(self::script or self::style)][contains(text(), %s)])[1]`, xpathLiteral(text))

	if err := s.run(s.fixture.ElementTimeout(), chromedp.Click(xpath, chromedp.BySearch)); err != nil {
		return s.elementError(xpath, err)
	}

	s.logger.Debug().Str("text", text).Msg("Clicked text")
	return nil
}

// click waits for sel to be visible and clicks its centre with the mouse.
func (s *Session) click(sel string) error {
	if err := s.run(s.fixture.ElementTimeout(), chromedp.Click(sel, chromedp.ByQuery)); err != nil {
		return s.elementError(sel, err)
	}
	s.logger.Debug().Str("selector", sel).Msg("Clicked")
	return nil
}

// forceClick waits for sel to be in the DOM and clicks it from script. The first visible match
// wins; with none visible the first match in document order is clicked.
func (s *Session) forceClick(sel string) error {
	if err := s.waitReady(sel); err != nil {
		return err
	}

	var clicked bool
	if err := s.call(s.fixture.ElementTimeout(), jsForceClick, &clicked, sel); err != nil {
		return s.elementError(sel, err)
	}
	if !clicked {
		return &ElementNotFoundError{Selector: sel, Timeout: s.fixture.ElementTimeout()}
	}

	s.logger.Debug().Str("selector", sel).Msg("Force clicked")
	return nil
}

func (s *Session) waitReady(sel string) error {
	if err := s.run(s.fixture.ElementTimeout(), chromedp.WaitReady(sel, chromedp.ByQuery)); err != nil {
		return s.elementError(sel, err)
	}
	return nil
}

func (s *Session) waitVisible(sel string) error {
	if err := s.run(s.fixture.ElementTimeout(), chromedp.WaitVisible(sel, chromedp.ByQuery)); err != nil {
		return s.elementError(sel, err)
	}
	return nil
}

// elementError maps a bounded wait that ran out to *ElementNotFoundError and passes other
// failures through with the selector attached.
func (s *Session) elementError(sel string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn().Str("selector", sel).Msg("Element not found")
		return &ElementNotFoundError{Selector: sel, Timeout: s.fixture.ElementTimeout(), Err: err}
	}
	s.logger.Warn().Err(err).Str("selector", sel).Msg("Element action failed")
	return fmt.Errorf("action on %s failed: %w", sel, err)
}

func (s *Session) typingTimeout(keys string) time.Duration {
	return s.fixture.ElementTimeout() + time.Duration(len([]rune(keys)))*typingAllowance
}

// xpathLiteral quotes s as an XPath string literal.
func xpathLiteral(s string) string {
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	if !strings.Contains(s, `'`) {
		return `'` + s + `'`
	}
	parts := strings.Split(s, `"`)
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = `"` + p + `"`
	}
	return "concat(" + strings.Join(quoted, `, '"', `) + ")"
}

// Abbreviate shortens text to its first 40 characters for logs, counting runes, and appends
// the full length.
func Abbreviate(text string) string {
	const limit = 40
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + fmt.Sprintf("...(%d chars)", len(runes))
}
