package ui

import (
	"testing"

	"github.com/ternarybob/todo-e2e/internal/harness"
)

// The counter is checked relative to its own reading, so these hold whatever base the
// application counts from.

func TestTodoCountIncreasesWhenAdded(t *testing.T) {
	tc := NewTodoTestContext(t)

	tc.AddTodos("Buy groceries")
	tc.VerifyCount(1)
	before, err := tc.Session.RemainingCount()
	tc.Require(err, "read count")

	tc.AddTodos("Walk the dog")
	tc.Require(tc.Session.ExpectRemaining(before+1), "count increased")
}

func TestTodoCountDecreasesWhenCompleted(t *testing.T) {
	tc := NewTodoTestContext(t)

	tc.AddTodos("Walk a dog", "Clean a living room")
	tc.VerifyCount(2)
	before, err := tc.Session.RemainingCount()
	tc.Require(err, "read count")

	tc.Require(tc.Session.ToggleItem(0), "toggle first")
	tc.Require(tc.Session.ExpectRemaining(before-1), "count decreased")
}

func TestTodoCountUnchangedByCompletedFilter(t *testing.T) {
	tc := NewTodoTestContext(t)

	tc.AddTodos("Walk a dog", "Clean a living room", "Read a book")
	tc.VerifyCount(3)
	tc.Require(tc.Session.ToggleItem(0), "toggle first")
	before, err := tc.Session.RemainingCount()
	tc.Require(err, "read count")

	tc.Require(tc.Session.FollowFilter(harness.FilterCompleted), "completed filter")
	tc.VerifyCount(1)
	tc.Require(tc.Session.ExpectRemaining(before), "count unchanged")
}
