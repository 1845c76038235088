package results

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Helper() {}

func (r *recordingLogger) Log(args ...any) {
	for _, a := range args {
		r.lines = append(r.lines, a.(string))
	}
}

func TestNewRunLayout(t *testing.T) {
	base := t.TempDir()

	run, err := NewRun(base, "add todo")
	require.NoError(t, err)

	assert.Len(t, run.ID, 8)
	assert.Equal(t, base, filepath.Dir(run.Dir))
	assert.True(t, strings.HasPrefix(filepath.Base(run.Dir), "add_todo-"))
	assert.True(t, strings.HasSuffix(run.Dir, "-"+run.ID))

	info, err := os.Stat(run.Dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestRunForSharesDirectory(t *testing.T) {
	base := t.TempDir()

	first, err := RunFor(base, "filter")
	require.NoError(t, err)
	second, err := RunFor(base, "filter")
	require.NoError(t, err)
	other, err := RunFor(base, "edit")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.NotEqual(t, first.Dir, other.Dir)
}

func TestCaseLog(t *testing.T) {
	run, err := NewRun(t.TempDir(), "page")
	require.NoError(t, err)

	mirror := &recordingLogger{}
	c, err := run.NewCase("TestPageLoad/title", mirror)
	require.NoError(t, err)

	c.Log("Adding %q", "Learn Cypress")
	require.NoError(t, c.Finish(false))
	require.NoError(t, c.Finish(true))

	data, err := os.ReadFile(c.LogPath())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Regexp(t, `^\[\d{2}:\d{2}:\d{2}\] === CASE: TestPageLoad/title ===$`, lines[0])
	assert.Regexp(t, `^\[\d{2}:\d{2}:\d{2}\] Adding "Learn Cypress"$`, lines[1])
	assert.Contains(t, lines[2], "=== TEST RESULT: PASS ===")

	assert.Equal(t, "TestPageLoad_title", filepath.Base(c.Dir))
	assert.Equal(t, filepath.Join(c.Dir, "screenshots"), c.ScreenshotDir())
	assert.Contains(t, mirror.lines, `Adding "Learn Cypress"`)
	assert.Contains(t, mirror.lines, "=== TEST RESULT: FAIL ===")
}

func TestSuiteName(t *testing.T) {
	tests := map[string]string{
		"TestPageLoad":            "page",
		"TestAddTodoWithEnter":    "add",
		"TestFilterActive/reload": "filter",
		"TestCount":               "count",
		"helper":                  "helper",
	}
	for in, want := range tests {
		assert.Equal(t, want, SuiteName(in), in)
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Test_a_b", sanitize("Test a/b"))
	assert.Equal(t, "unnamed", sanitize("///"))
	assert.Equal(t, "v1.2", sanitize("v1.2"))
}
