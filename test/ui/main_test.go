package ui

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/ternarybob/todo-e2e/internal/common"
	"github.com/ternarybob/todo-e2e/internal/fixtureapp"
	"github.com/ternarybob/todo-e2e/internal/harness"
)

// TestMain resolves the target once and checks it is reachable before any browser starts.
// When the target or Chrome is unavailable every test skips with the reason.
func TestMain(m *testing.M) {
	flag.Parse()
	w := os.Stderr

	var exitCode int
	func() {
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(w, "\n⚠ PANIC during test execution: %v\n", r)
				exitCode = 1
			}
		}()

		cleanup := setupSuite(w)
		defer cleanup()

		exitCode = m.Run()
	}()

	os.Exit(exitCode)
}

// setupSuite fills in suite and returns its cleanup
func setupSuite(w io.Writer) func() {
	cleanup := func() {}

	config, err := loadSuiteConfig()
	if err != nil {
		suite.skipReason = fmt.Sprintf("configuration: %v", err)
		fmt.Fprintf(w, "⚠ %s\n", suite.skipReason)
		return cleanup
	}
	suite.config = config
	suite.logger = common.InitLogger(config)
	suite.fixture, err = harness.NewFixture(config)
	if err != nil {
		suite.skipReason = fmt.Sprintf("configuration: %v", err)
		fmt.Fprintf(w, "⚠ %s\n", suite.skipReason)
		return cleanup
	}

	if testing.Short() {
		suite.skipReason = "browser suite skipped in short mode"
		return cleanup
	}

	if _, ok := harness.FindChrome(config.Browser.ExecPath); !ok {
		suite.skipReason = "Chrome not found"
		fmt.Fprintf(w, "⚠ %s - skipping UI tests\n", suite.skipReason)
		return cleanup
	}

	if envEnabled(EnvFixture) {
		srv, err := fixtureapp.Start(fixtureapp.Config{}, suite.logger)
		if err != nil {
			suite.skipReason = fmt.Sprintf("fixture app: %v", err)
			return cleanup
		}
		cleanup = func() { srv.Close() }
		suite.fixture = suite.fixture.WithEntryURL(srv.URL())
	}

	if err := verifyServiceConnectivity(suite.fixture.EntryURL(), suite.fixture.PageReadyTimeout()); err != nil {
		suite.skipReason = err.Error()
		fmt.Fprintf(w, "\n⚠ Application not reachable - skipping UI tests\n   Note: %v\n\n", err)
		return cleanup
	}
	fmt.Fprintf(w, "✓ Application reachable at %s - proceeding with UI tests\n", suite.fixture.EntryURL())

	return cleanup
}

// verifyServiceConnectivity checks the entry URL answers 200 OK
func verifyServiceConnectivity(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("bad entry URL %s: %w", url, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("application not accessible at %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("application returned status %d (expected 200 OK)", resp.StatusCode)
	}
	return nil
}
