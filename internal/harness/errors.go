package harness

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// PageNotReadyError is returned when the root container does not become visible after
// navigation within the page-ready timeout. It is fatal for the test case.
type PageNotReadyError struct {
	URL      string
	Selector string
	Timeout  time.Duration
	Err      error
}

func (e *PageNotReadyError) Error() string {
	msg := fmt.Sprintf("page %s not ready: %s not visible within %s", e.URL, e.Selector, e.Timeout)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PageNotReadyError) Unwrap() error {
	return e.Err
}

// ElementNotFoundError is returned when an element an action needs is absent for the whole
// element timeout.
type ElementNotFoundError struct {
	Selector string
	Timeout  time.Duration
	Err      error
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element %s not found within %s", e.Selector, e.Timeout)
}

func (e *ElementNotFoundError) Unwrap() error {
	return e.Err
}

// AssertionError is returned when a DOM condition still does not hold at the end of the
// polling window. Expected and Actual are rendered with %v.
type AssertionError struct {
	What     string
	Selector string
	Expected any
	Actual   any
}

func (e *AssertionError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("assertion failed: %s: expected %v, got %v", e.What, e.Expected, e.Actual)
	}
	return fmt.Sprintf("assertion failed: %s (%s): expected %v, got %v", e.What, e.Selector, e.Expected, e.Actual)
}

// IsTimeout reports whether err came from a bounded wait running out.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}
