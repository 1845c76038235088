package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterHref(t *testing.T) {
	assert.Equal(t, "#/", FilterAll.Href())
	assert.Equal(t, "#/active", FilterActive.Href())
	assert.Equal(t, "#/completed", FilterCompleted.Href())
	assert.Equal(t, `li a[href="#/completed"]`, FilterCompleted.Selector())
}

func TestParseFilter(t *testing.T) {
	tests := map[string]Filter{
		"":            FilterAll,
		"all":         FilterAll,
		"#/":          FilterAll,
		"Active":      FilterActive,
		"#/active":    FilterActive,
		"completed":   FilterCompleted,
		"/completed":  FilterCompleted,
		"#/completed": FilterCompleted,
	}
	for in, want := range tests {
		got, err := ParseFilter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFilter("done")
	assert.Error(t, err)
}

func TestItemSelector(t *testing.T) {
	assert.Equal(t, ".todo-list li:nth-child(1)", itemSelector(0))
	assert.Equal(t, ".todo-list li:nth-child(3)", itemSelector(2))
}

func TestScope(t *testing.T) {
	assert.Equal(t, "li .toggle", scope("li", ".toggle"))
	assert.Equal(t,
		`.todo-list li:nth-child(2) button.destroy, .todo-list li:nth-child(2) button[title="TODO:REMOVE THIS EVENTUALLY"]`,
		scope(itemSelector(1), SelDestroy))
}
