// Package results lays out the artifacts of a test run on disk:
//
//	{base_dir}/{suite}-{timestamp}-{shortid}/{case}/test.log
//	{base_dir}/{suite}-{timestamp}-{shortid}/{case}/screenshots/NN_name.png
//
// Only plain text logs and PNG screenshots are written.
package results

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Logger is the part of testing.TB a case mirrors its log lines to.
type Logger interface {
	Helper()
	Log(args ...any)
}

// Run is the parent directory shared by every case of one suite in this process.
type Run struct {
	Suite string
	ID    string
	Dir   string
}

var (
	runs      = map[string]*Run{}
	runsMutex sync.Mutex
)

// NewRun creates a fresh run directory for suite under baseDir.
func NewRun(baseDir, suite string) (*Run, error) {
	id := uuid.New().String()[:8]
	timestamp := time.Now().Format("20060102-150405")
	dir := filepath.Join(baseDir, fmt.Sprintf("%s-%s-%s", sanitize(suite), timestamp, id))

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	return &Run{Suite: suite, ID: id, Dir: dir}, nil
}

// RunFor returns the run directory of suite, creating it on first use. Later calls with the
// same suite name share the directory.
func RunFor(baseDir, suite string) (*Run, error) {
	runsMutex.Lock()
	defer runsMutex.Unlock()

	key := baseDir + "\x00" + suite
	if existing, ok := runs[key]; ok {
		return existing, nil
	}

	run, err := NewRun(baseDir, suite)
	if err != nil {
		return nil, err
	}
	runs[key] = run
	return run, nil
}

// Case is the directory and log of one test case.
type Case struct {
	Name string
	Dir  string

	mu     sync.Mutex
	log    *os.File
	mirror Logger
	closed bool
}

// NewCase creates {run}/{name}/ with an open test.log. Log lines are also sent to mirror when
// it is not nil.
func (r *Run) NewCase(name string, mirror Logger) (*Case, error) {
	dir := filepath.Join(r.Dir, sanitize(name))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create case directory: %w", err)
	}

	logFile, err := os.Create(filepath.Join(dir, "test.log"))
	if err != nil {
		return nil, fmt.Errorf("failed to create test log file: %w", err)
	}

	c := &Case{Name: name, Dir: dir, log: logFile, mirror: mirror}
	c.Log("=== CASE: %s ===", name)
	return c, nil
}

// ScreenshotDir is where the case's screenshots go. It is created on first screenshot.
func (c *Case) ScreenshotDir() string {
	return filepath.Join(c.Dir, "screenshots")
}

// LogPath returns the path of the case's test.log.
func (c *Case) LogPath() string {
	return filepath.Join(c.Dir, "test.log")
}

// Log writes a timestamped line to test.log and mirrors it.
func (c *Case) Log(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("15:04:05")

	c.mu.Lock()
	if c.log != nil && !c.closed {
		fmt.Fprintf(c.log, "[%s] %s\n", timestamp, msg)
	}
	c.mu.Unlock()

	if c.mirror != nil {
		c.mirror.Helper()
		c.mirror.Log(msg)
	}
}

// Finish writes the case result and closes the log. Further calls do nothing.
func (c *Case) Finish(failed bool) error {
	if failed {
		c.Log("=== TEST RESULT: FAIL ===")
	} else {
		c.Log("=== TEST RESULT: PASS ===")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.log.Close()
}

// SuiteName derives a suite name from a Go test name the way test files are named:
// "TestAddTodoWithEnter" -> "add", "TestPageLoad/title" -> "page".
func SuiteName(testName string) string {
	if i := strings.IndexByte(testName, '/'); i >= 0 {
		testName = testName[:i]
	}

	remainder := strings.TrimPrefix(testName, "Test")

	var capitals []int
	for i := 0; i < len(remainder); i++ {
		if remainder[i] >= 'A' && remainder[i] <= 'Z' {
			capitals = append(capitals, i)
		}
	}

	// Everything up to the second capital: "PageLoad" -> "page"
	if len(capitals) >= 2 {
		return strings.ToLower(remainder[:capitals[1]])
	}
	return strings.ToLower(remainder)
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// sanitize turns a test or suite name into a single path element.
func sanitize(name string) string {
	cleaned := strings.Trim(unsafeNameChars.ReplaceAllString(name, "_"), "_.")
	if cleaned == "" {
		return "unnamed"
	}
	return cleaned
}
