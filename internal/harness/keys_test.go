package harness

import (
	"testing"

	"github.com/chromedp/chromedp/kb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/todo-e2e/internal/common"
)

func TestParseKeySignal(t *testing.T) {
	tests := []struct {
		in   string
		want KeySignal
	}{
		{"Enter", KeyEnter},
		{"{enter}", KeyEnter},
		{" return ", KeyEnter},
		{"esc", KeyEscape},
		{"{Esc}", KeyEscape},
		{"ctrl", KeyControl},
		{"{downarrow}", KeyArrowDown},
		{"ArrowUp", KeyArrowUp},
		{"a", KeySignal("a")},
		{"é", KeySignal("é")},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKeySignal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKeySignalRejects(t *testing.T) {
	for _, in := range []string{"", "   ", "{}", "hyperspace"} {
		_, err := ParseKeySignal(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestEveryKeyNameDispatches(t *testing.T) {
	for _, name := range common.KeyNames {
		got, err := ParseKeySignal(name)
		require.NoError(t, err, name)
		_, ok := namedKeys[got]
		assert.True(t, ok, "no dispatch sequence for %s", name)
	}
	assert.Len(t, namedKeys, len(common.KeyNames))
}

func TestKeySignalKeys(t *testing.T) {
	assert.Equal(t, kb.Enter, KeyEnter.Keys())
	assert.Equal(t, kb.Escape, KeyEscape.Keys())
	assert.Equal(t, "x", KeySignal("x").Keys())

	assert.True(t, KeyEnter.IsCommit())
	assert.False(t, KeyEscape.IsCommit())
	assert.False(t, KeySignal("\r").IsCommit())

	assert.Equal(t, kb.Control, KeyControl.Keys())
	assert.Equal(t, "Escape", KeyEscape.DOMKey())
}

func TestParseKeySignalControlKeys(t *testing.T) {
	tests := map[string]KeySignal{
		"{pageup}":   KeyPageUp,
		"{pagedown}": KeyPageDown,
		"Insert":     KeyInsert,
		"NumLock":    KeyNumLock,
		"ScrollLock": KeyScroll,
		"F1":         KeyF1,
		"f12":        KeyF12,
	}
	for in, want := range tests {
		got, err := ParseKeySignal(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		assert.NotEqual(t, string(got), got.Keys(), in)
	}
}

func TestTerminatorOf(t *testing.T) {
	_, ok := TerminatorOf()
	assert.False(t, ok)

	key, ok := TerminatorOf(WithTerminator(KeyEscape))
	assert.True(t, ok)
	assert.Equal(t, KeyEscape, key)

	key, _ = TerminatorOf(WithTerminator(KeyEscape), WithTerminator("a"))
	assert.Equal(t, KeySignal("a"), key)
}
