package scenario

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ternarybob/todo-e2e/internal/harness"
)

type fakeTodo struct {
	text string
	done bool
}

// fakeDriver is an in-memory rendition of the to-do page. Assertions check immediately.
type fakeDriver struct {
	todos   []fakeTodo
	filter  harness.Filter
	calls   []string
	openErr error
}

var _ Driver = (*fakeDriver)(nil)

func newFakeDriver() *fakeDriver {
	return &fakeDriver{filter: harness.FilterAll}
}

func (d *fakeDriver) called(format string, args ...any) {
	d.calls = append(d.calls, fmt.Sprintf(format, args...))
}

// visible returns the indexes of todos shown under the current filter.
func (d *fakeDriver) visible() []int {
	var idx []int
	for i, todo := range d.todos {
		switch {
		case d.filter == harness.FilterActive && todo.done:
		case d.filter == harness.FilterCompleted && !todo.done:
		default:
			idx = append(idx, i)
		}
	}
	return idx
}

func (d *fakeDriver) at(i int) (int, error) {
	vis := d.visible()
	if i < 0 || i >= len(vis) {
		return 0, &harness.ElementNotFoundError{Selector: fmt.Sprintf(".todo-list li:nth-child(%d)", i+1)}
	}
	return vis[i], nil
}

func (d *fakeDriver) add(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	d.todos = append(d.todos, fakeTodo{text: text})
}

func (d *fakeDriver) OpenApp() error {
	d.called("open")
	if d.openErr != nil {
		return d.openErr
	}
	d.todos = nil
	d.filter = harness.FilterAll
	return nil
}

func (d *fakeDriver) Reload() error {
	d.called("reload")
	return nil
}

func (d *fakeDriver) AddItem(text string, opts ...harness.AddOption) error {
	key := harness.KeyEnter
	if k, ok := harness.TerminatorOf(opts...); ok {
		key = k
	}
	d.called("add %q %s", text, key)
	if key.IsCommit() {
		d.add(text)
	}
	return nil
}

func (d *fakeDriver) TypeAndTrigger(text string, key harness.KeySignal) error {
	d.called("trigger %q %s", text, key)
	if key.IsCommit() {
		d.add(text)
	}
	return nil
}

func (d *fakeDriver) ToggleItem(i int) error {
	d.called("toggle %d", i)
	idx, err := d.at(i)
	if err != nil {
		return err
	}
	d.todos[idx].done = !d.todos[idx].done
	return nil
}

func (d *fakeDriver) ToggleAll() error {
	d.called("toggle_all")
	all := true
	for _, todo := range d.todos {
		all = all && todo.done
	}
	for i := range d.todos {
		d.todos[i].done = !all
	}
	return nil
}

func (d *fakeDriver) EditItem(i int, text string, terminator harness.KeySignal) error {
	d.called("edit %d %q %s", i, text, terminator)
	idx, err := d.at(i)
	if err != nil {
		return err
	}
	if terminator != harness.KeyEnter {
		return nil
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		d.todos[idx].text = trimmed
	} else {
		d.todos = append(d.todos[:idx], d.todos[idx+1:]...)
	}
	return nil
}

func (d *fakeDriver) DeleteItem(i int) error {
	d.called("delete %d", i)
	idx, err := d.at(i)
	if err != nil {
		return err
	}
	d.todos = append(d.todos[:idx], d.todos[idx+1:]...)
	return nil
}

func (d *fakeDriver) ClearCompleted() error {
	d.called("clear_completed")
	kept := d.todos[:0]
	for _, todo := range d.todos {
		if !todo.done {
			kept = append(kept, todo)
		}
	}
	d.todos = kept
	return nil
}

func (d *fakeDriver) FollowFilter(f harness.Filter) error {
	d.called("filter %s", f)
	d.filter = f
	return nil
}

func (d *fakeDriver) HoverItem(i int) error {
	d.called("hover %d", i)
	_, err := d.at(i)
	return err
}

func (d *fakeDriver) ExpectCount(n int) error {
	if got := len(d.visible()); got != n {
		return &harness.AssertionError{What: "item count", Selector: harness.SelItems, Expected: n, Actual: got}
	}
	return nil
}

func (d *fakeDriver) remaining() int {
	n := 0
	for _, todo := range d.todos {
		if !todo.done {
			n++
		}
	}
	return n
}

func (d *fakeDriver) ExpectRemaining(n int) error {
	if got := d.remaining(); got != n {
		return &harness.AssertionError{What: "remaining count", Selector: harness.SelTodoCount, Expected: n, Actual: got}
	}
	return nil
}

func (d *fakeDriver) texts() []string {
	var texts []string
	for _, idx := range d.visible() {
		texts = append(texts, d.todos[idx].text)
	}
	return texts
}

func (d *fakeDriver) ExpectItemContains(i int, text string) error {
	return d.expectContains(i, text, true)
}

func (d *fakeDriver) ExpectItemNotContains(i int, text string) error {
	return d.expectContains(i, text, false)
}

func (d *fakeDriver) expectContains(i int, text string, want bool) error {
	texts := d.texts()
	what := "any item contains"
	if !want {
		what = "no item contains"
	}
	if i >= 0 {
		if i >= len(texts) {
			return &harness.ElementNotFoundError{Selector: fmt.Sprintf(".todo-list li:nth-child(%d)", i+1)}
		}
		texts = texts[i : i+1]
		what = "item contains"
		if !want {
			what = "item does not contain"
		}
	}

	found := false
	for _, t := range texts {
		found = found || strings.Contains(t, text)
	}
	if found != want {
		return &harness.AssertionError{What: what, Selector: harness.SelItems, Expected: strconv.Quote(text), Actual: fmt.Sprintf("%q", texts)}
	}
	return nil
}

func (d *fakeDriver) ExpectItemClass(i int, class string, present bool) error {
	has := func(todo fakeTodo) bool {
		return class == harness.ClassCompleted && todo.done
	}

	vis := d.visible()
	if i >= 0 {
		idx, err := d.at(i)
		if err != nil {
			return err
		}
		vis = []int{idx}
	}

	ok := len(vis) > 0 || !present
	for _, idx := range vis {
		ok = ok && has(d.todos[idx]) == present
	}
	if !ok {
		return &harness.AssertionError{What: "item class", Selector: harness.SelItems, Expected: class, Actual: present}
	}
	return nil
}

func (d *fakeDriver) shown(sel string) bool {
	switch sel {
	case harness.SelFooter, ".main":
		return len(d.todos) > 0
	case harness.SelClearComplete:
		return len(d.todos) > d.remaining()
	}
	return true
}

func (d *fakeDriver) ExpectVisible(sel string) error {
	if !d.shown(sel) {
		return &harness.AssertionError{What: "visible", Selector: sel, Expected: "visible", Actual: "hidden"}
	}
	return nil
}

func (d *fakeDriver) ExpectNotVisible(sel string) error {
	if d.shown(sel) {
		return &harness.AssertionError{What: "not visible", Selector: sel, Expected: "hidden", Actual: "visible"}
	}
	return nil
}

func (d *fakeDriver) Snapshot() ([]harness.TodoView, error) {
	views := []harness.TodoView{}
	for n, idx := range d.visible() {
		views = append(views, harness.TodoView{Index: n, Text: d.todos[idx].text, Completed: d.todos[idx].done})
	}
	return views, nil
}
