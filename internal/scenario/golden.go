package scenario

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Render formats a result as stable text: a header, then one line per trace event with the
// list it left behind indented below it. Durations are omitted.
func (r *Result) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", r.Name)
	fmt.Fprintf(&b, "pass: %t\n", r.Pass)
	for _, e := range r.Trace {
		fmt.Fprintf(&b, "%d %s %s: %s\n", e.Seq, e.Phase, e.Step, e.Status)
		if e.Error != "" {
			fmt.Fprintf(&b, "  ! %s\n", e.Error)
		}
		for _, item := range e.Items {
			fmt.Fprintf(&b, "  | %s\n", item)
		}
	}
	return b.String()
}

// AssertGolden compares the rendered result with testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/scenario -update
func AssertGolden(t *testing.T, name string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(result.Render()))
}
