package ui

import (
	"testing"

	"github.com/ternarybob/todo-e2e/internal/harness"
)

func TestFilterTodosActive(t *testing.T) {
	tc := NewTodoTestContext(t)

	tc.AddTodos("Learn Testing", "Clean a room", "Go for a walk")
	tc.VerifyCount(3)
	tc.Require(tc.Session.ToggleItem(0), "toggle first")
	tc.Require(tc.Session.FollowFilter(harness.FilterActive), "active filter")

	items := tc.VerifyCount(2)
	tc.Require(items.NotHaveClass(harness.ClassCompleted), "only active")
	tc.Require(items.Nth(0).ContainText("Clean a room"), "first active")
	tc.Require(items.Nth(1).ContainText("Go for a walk"), "second active")
}

func TestFilterTodosCompleted(t *testing.T) {
	tc := NewTodoTestContext(t)

	tc.AddTodos("Learn Testing", "Clean a living room", "Read a book")
	tc.VerifyCount(3)
	tc.Require(tc.Session.ToggleItem(0), "toggle first")
	tc.Require(tc.Session.FollowFilter(harness.FilterCompleted), "completed filter")

	items := tc.VerifyCount(1)
	tc.Require(items.HaveClass(harness.ClassCompleted), "only completed")
	tc.Require(items.First().ContainText("Learn Testing"), "completed item")
}

func TestFilterTodosAll(t *testing.T) {
	tc := NewTodoTestContext(t)

	texts := []string{"Learn Testing", "Clean a living room", "Read a book"}
	tc.AddTodos(texts...)
	tc.VerifyCount(3)
	tc.Require(tc.Session.ToggleItem(0), "toggle first")
	tc.Require(tc.Session.FollowFilter(harness.FilterAll), "all filter")

	items := tc.VerifyCount(3)
	for i, text := range texts {
		tc.Require(items.Nth(i).ContainText(text), "item "+text)
	}
}

func TestFilterTodosAddWhileCompletedShown(t *testing.T) {
	tc := NewTodoTestContext(t)

	tc.AddTodos("Learn Testing")
	tc.VerifyCount(1)
	tc.Require(tc.Session.FollowFilter(harness.FilterCompleted), "completed filter")
	tc.VerifyCount(0)
	tc.AddTodos("Read a book")
	tc.VerifyCount(0)
}

func TestFilterTodosNoneCompleted(t *testing.T) {
	tc := NewTodoTestContext(t)

	tc.AddTodos("Learn Testing", "Go for a run")
	tc.VerifyCount(2)
	tc.Require(tc.Session.FollowFilter(harness.FilterCompleted), "completed filter")
	tc.VerifyCount(0)
}

func TestFilterTodosBackToAll(t *testing.T) {
	tc := NewTodoTestContext(t)

	tc.AddTodos("Learn Testing", "Go shopping")
	tc.VerifyCount(2)
	tc.Require(tc.Session.ToggleItem(0), "toggle first")
	tc.Require(tc.Session.FollowFilter(harness.FilterCompleted), "completed filter")
	tc.VerifyCount(1)
	tc.Require(tc.Session.FollowFilter(harness.FilterAll), "all filter")
	tc.VerifyCount(2)
}

func TestFilterTodosSurvivesReload(t *testing.T) {
	tc := NewTodoTestContext(t)

	tc.AddTodos("Learn Testing", "Write tests")
	tc.VerifyCount(2)
	tc.Require(tc.Session.ToggleItem(0), "toggle first")
	tc.Require(tc.Session.FollowFilter(harness.FilterCompleted), "completed filter")
	tc.VerifyCount(1)
	tc.Require(tc.Session.Reload(), "reload")
	tc.VerifyCount(1)
}
