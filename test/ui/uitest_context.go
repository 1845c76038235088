// uitest_context.go - shared context for the to-do UI tests.
// NOTE: This is NOT a test file - it contains shared test infrastructure.

package ui

import (
	"context"
	"testing"

	"github.com/ternarybob/todo-e2e/internal/harness"
	"github.com/ternarybob/todo-e2e/internal/results"
)

// TodoTestContext holds one test case: a fresh browser on the freshly opened application, and
// the case's results directory.
type TodoTestContext struct {
	T       *testing.T
	Session *harness.Session
	Case    *results.Case

	// Internal cleanup functions, run LIFO
	cleanup []func()
}

// NewTodoTestContext starts a browser, opens the application and registers cleanup with t.
// The test is skipped when the suite could not reach the application.
func NewTodoTestContext(t *testing.T) *TodoTestContext {
	t.Helper()
	if suite.skipReason != "" {
		t.Skip(suite.skipReason)
	}

	run, err := results.RunFor(suite.config.Results.BaseDir, results.SuiteName(t.Name()))
	if err != nil {
		t.Fatalf("Failed to create results directory: %v", err)
	}
	c, err := run.NewCase(t.Name(), t)
	if err != nil {
		t.Fatalf("Failed to create test case directory: %v", err)
	}

	tc := &TodoTestContext{T: t, Case: c}
	t.Cleanup(tc.Cleanup)

	session, err := harness.NewSession(context.Background(), suite.fixture,
		harness.WithLogger(suite.logger),
		harness.WithScreenshotDir(c.ScreenshotDir()),
	)
	if err != nil {
		t.Fatalf("Failed to start browser: %v", err)
	}
	tc.Session = session
	tc.cleanup = append(tc.cleanup, session.Close)

	tc.Require(session.OpenApp(), "open application")
	return tc
}

// Cleanup records the result, takes a failure screenshot and releases the browser.
func (tc *TodoTestContext) Cleanup() {
	failed := tc.T.Failed()
	if failed && tc.Session != nil && suite.config.Results.ScreenshotsOnFailure {
		tc.Screenshot("failure")
	}

	for i := len(tc.cleanup) - 1; i >= 0; i-- {
		tc.cleanup[i]()
	}
	tc.cleanup = nil

	if err := tc.Case.Finish(failed); err != nil {
		tc.T.Logf("Warning: closing test log: %v", err)
	}
}

// Log writes a message to the test log
func (tc *TodoTestContext) Log(format string, args ...interface{}) {
	tc.T.Helper()
	tc.Case.Log(format, args...)
}

// Screenshot saves a numbered full-page screenshot into the case directory
func (tc *TodoTestContext) Screenshot(name string) {
	path, err := tc.Session.Screenshot(name)
	if err != nil {
		tc.Log("Warning: screenshot %s failed: %v", name, err)
		return
	}
	tc.Log("Screenshot: %s", path)
}

// Require fails the test immediately when err is not nil
func (tc *TodoTestContext) Require(err error, step string) {
	tc.T.Helper()
	if err != nil {
		tc.Log("✗ %s: %v", step, err)
		tc.T.Fatalf("%s: %v", step, err)
	}
	tc.Log("✓ %s", step)
}

// Check records a failure for err and lets the test continue
func (tc *TodoTestContext) Check(err error, step string) {
	tc.T.Helper()
	if err != nil {
		tc.Log("✗ %s: %v", step, err)
		tc.T.Errorf("%s: %v", step, err)
		return
	}
	tc.Log("✓ %s", step)
}

// AddTodos adds each text with the configured commit key
func (tc *TodoTestContext) AddTodos(texts ...string) {
	tc.T.Helper()
	for _, text := range texts {
		tc.Require(tc.Session.AddItem(text), "add "+harness.Abbreviate(text))
	}
}

// VerifyCount asserts the number of rendered items and returns them
func (tc *TodoTestContext) VerifyCount(n int) *harness.Items {
	tc.T.Helper()
	items, err := tc.Session.VerifyCount(n)
	tc.Require(err, "item count")
	return items
}

// Edit double-clicks item i, replaces its text and presses key
func (tc *TodoTestContext) Edit(i int, text string, key harness.KeySignal) {
	tc.T.Helper()
	tc.Require(tc.Session.EditItem(i, text, key), "edit item")
}
