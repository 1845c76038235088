package scenario

import "github.com/ternarybob/todo-e2e/internal/harness"

// Driver is the page surface a scenario runs against.
type Driver interface {
	OpenApp() error
	Reload() error

	AddItem(text string, opts ...harness.AddOption) error
	TypeAndTrigger(text string, key harness.KeySignal) error
	ToggleItem(i int) error
	ToggleAll() error
	EditItem(i int, text string, terminator harness.KeySignal) error
	DeleteItem(i int) error
	ClearCompleted() error
	FollowFilter(f harness.Filter) error
	HoverItem(i int) error

	ExpectCount(n int) error
	ExpectRemaining(n int) error
	ExpectItemContains(i int, text string) error
	ExpectItemNotContains(i int, text string) error
	ExpectItemClass(i int, class string, present bool) error
	ExpectVisible(sel string) error
	ExpectNotVisible(sel string) error

	Snapshot() ([]harness.TodoView, error)
}

var _ Driver = (*harness.Session)(nil)
