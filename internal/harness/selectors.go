package harness

import (
	"fmt"
	"strings"
)

// Selector contract of the application under test.
const (
	SelRoot          = "section.todoapp"
	SelTitle         = "h1"
	SelNewTodo       = "form.todo-form input.new-todo"
	SelList          = ".todo-list"
	SelItems         = ".todo-list li"
	SelToggle        = ".toggle"
	SelToggleAll     = "#toggle-all"
	SelDestroy       = `button.destroy, button[title="TODO:REMOVE THIS EVENTUALLY"]`
	SelLabel         = "label"
	SelEdit          = ".edit"
	SelEditAny       = ".todo-list li .edit"
	SelFooter        = ".footer"
	SelTodoCount     = ".todo-count strong"
	SelClearComplete = "button.clear-completed"
	SelInfo          = "footer.info p"
)

// Expected static copy of the application.
const (
	TitleText       = "To Do List"
	PlaceholderText = "What need's to be done?"
	InfoText        = "Double-click to edit a toodo"
)

// Class names the application toggles on list items.
const (
	ClassCompleted = "completed"
	ClassEditing   = "editing"
)

// Filter is one of the three list views, encoded in the URL fragment.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Href returns the fragment link the filter's anchor points at.
func (f Filter) Href() string {
	switch f {
	case FilterActive:
		return "#/active"
	case FilterCompleted:
		return "#/completed"
	default:
		return "#/"
	}
}

// Selector returns the selector of the filter's anchor in the footer.
func (f Filter) Selector() string {
	return fmt.Sprintf(`li a[href="%s"]`, f.Href())
}

// ParseFilter accepts a filter name or its fragment ("completed", "#/completed").
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all", "#/", "/":
		return FilterAll, nil
	case "active", "#/active", "/active":
		return FilterActive, nil
	case "completed", "#/completed", "/completed":
		return FilterCompleted, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// itemSelector returns the selector of the i-th (zero based) rendered list item.
func itemSelector(i int) string {
	return fmt.Sprintf("%s:nth-child(%d)", SelItems, i+1)
}

// scope prefixes every member of a selector group with parent.
// scope(".todo-list li:nth-child(1)", "a, b") == ".todo-list li:nth-child(1) a, .todo-list li:nth-child(1) b"
func scope(parent, group string) string {
	parts := strings.Split(group, ",")
	for i, p := range parts {
		parts[i] = parent + " " + strings.TrimSpace(p)
	}
	return strings.Join(parts, ", ")
}
