package harness

import (
	"fmt"
	"time"

	"github.com/ternarybob/todo-e2e/internal/common"
)

// Fixture holds the process-wide constants every test case shares, built once per test binary
// or CLI run: where the application
// lives, how it is committed to and how long each wait may take. It is read-only once built.
type Fixture struct {
	entryURL     string
	commitKey    KeySignal
	resetStorage bool

	pageReady    time.Duration
	element      time.Duration
	assert       time.Duration
	pollInterval time.Duration
	caseTimeout  time.Duration

	browser common.BrowserConfig
}

// NewFixture builds a fixture from a configuration. An unknown commit key is an error.
func NewFixture(config *common.Config) (*Fixture, error) {
	commitKey, err := ParseKeySignal(config.App.CommitKey)
	if err != nil {
		return nil, fmt.Errorf("invalid commit_key: %w", err)
	}

	return &Fixture{
		entryURL:     config.App.EntryURL,
		commitKey:    commitKey,
		resetStorage: config.App.ResetStorage,
		pageReady:    config.Timeouts.PageReady.Std(),
		element:      config.Timeouts.Element.Std(),
		assert:       config.Timeouts.Assert.Std(),
		pollInterval: config.Timeouts.PollInterval.Std(),
		caseTimeout:  config.Timeouts.Case.Std(),
		browser:      config.Browser,
	}, nil
}

// EntryURL is the application address with the "all" filter selected.
func (f *Fixture) EntryURL() string { return f.entryURL }

// CommitKey is the key that submits the new-item input.
func (f *Fixture) CommitKey() KeySignal { return f.commitKey }

// ResetStorage reports whether the first OpenApp of a session clears the origin's localStorage.
func (f *Fixture) ResetStorage() bool { return f.resetStorage }

// PageReadyTimeout bounds the wait for the root container after navigation.
func (f *Fixture) PageReadyTimeout() time.Duration { return f.pageReady }

// ElementTimeout bounds the wait for an element an action needs.
func (f *Fixture) ElementTimeout() time.Duration { return f.element }

// AssertTimeout is the polling window of every assertion.
func (f *Fixture) AssertTimeout() time.Duration { return f.assert }

// PollInterval is the delay between two checks inside a polling window.
func (f *Fixture) PollInterval() time.Duration { return f.pollInterval }

// CaseTimeout bounds a whole test case.
func (f *Fixture) CaseTimeout() time.Duration { return f.caseTimeout }

// Browser returns a copy of the browser settings.
func (f *Fixture) Browser() common.BrowserConfig { return f.browser }

// WithEntryURL returns a copy of the fixture pointing at another address.
// Used by self-tests that serve their own page.
func (f *Fixture) WithEntryURL(url string) *Fixture {
	clone := *f
	clone.entryURL = url
	return &clone
}
