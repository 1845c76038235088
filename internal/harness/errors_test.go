package harness

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageNotReadyError(t *testing.T) {
	err := error(&PageNotReadyError{
		URL:      "https://todolist.james.am/#/",
		Selector: SelRoot,
		Timeout:  10 * time.Second,
		Err:      context.DeadlineExceeded,
	})

	assert.Contains(t, err.Error(), "section.todoapp not visible within 10s")
	assert.True(t, IsTimeout(err))

	wrapped := fmt.Errorf("setup: %w", err)
	var target *PageNotReadyError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "https://todolist.james.am/#/", target.URL)
}

func TestElementNotFoundError(t *testing.T) {
	err := error(&ElementNotFoundError{Selector: SelNewTodo, Timeout: 4 * time.Second, Err: context.DeadlineExceeded})

	assert.Equal(t, "element form.todo-form input.new-todo not found within 4s", err.Error())
	assert.True(t, errors.Is(err, context.DeadlineExceeded))

	var target *ElementNotFoundError
	require.True(t, errors.As(err, &target))
	assert.Equal(t, SelNewTodo, target.Selector)
}

func TestAssertionError(t *testing.T) {
	err := &AssertionError{What: "item count", Selector: SelItems, Expected: 2, Actual: 1}
	assert.Equal(t, "assertion failed: item count (.todo-list li): expected 2, got 1", err.Error())

	err = &AssertionError{What: "url", Expected: "#/active", Actual: "#/"}
	assert.Equal(t, "assertion failed: url: expected #/active, got #/", err.Error())

	assert.False(t, IsTimeout(err))
}
