package fixtureapp

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestLoadAssets(t *testing.T) {
	raw, err := LoadAssets(false)
	require.NoError(t, err)
	minified, err := LoadAssets(true)
	require.NoError(t, err)

	for _, name := range []string{"index.html", "app.js", "app.css"} {
		require.Contains(t, raw, name)
		require.Contains(t, minified, name)
		assert.Less(t, len(minified[name].Body), len(raw[name].Body), "%s should shrink", name)
	}

	assert.Equal(t, "text/html; charset=utf-8", raw["index.html"].ContentType)
	assert.Equal(t, "application/javascript; charset=utf-8", raw["app.js"].ContentType)
	assert.Equal(t, "text/css; charset=utf-8", raw["app.css"].ContentType)

	// The storage key is shared with the page script
	assert.True(t, bytes.Contains(raw["app.js"].Body, []byte(StorageKey)))
}

func TestMinifiedPageKeepsSelectorContract(t *testing.T) {
	for _, minified := range []bool{false, true} {
		assets, err := LoadAssets(minified)
		require.NoError(t, err)

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(assets["index.html"].Body))
		require.NoError(t, err)

		assert.Equal(t, 1, doc.Find("section.todoapp").Length())
		assert.Equal(t, "To Do List", doc.Find("h1").Text())

		input := doc.Find("form.todo-form input.new-todo")
		require.Equal(t, 1, input.Length())
		placeholder, _ := input.Attr("placeholder")
		assert.Equal(t, "What need's to be done?", placeholder)

		assert.Equal(t, 1, doc.Find("#toggle-all").Length())
		assert.Equal(t, 1, doc.Find(".todo-list").Length())
		assert.Equal(t, 1, doc.Find(".footer .todo-count strong").Length())
		assert.Equal(t, 1, doc.Find("button.clear-completed").Length())
		assert.Equal(t, 1, doc.Find(`li a[href="#/"]`).Length())
		assert.Equal(t, 1, doc.Find(`li a[href="#/active"]`).Length())
		assert.Equal(t, 1, doc.Find(`li a[href="#/completed"]`).Length())
		assert.Equal(t, "Double-click to edit a toodo", doc.Find("footer.info p").Text())
	}
}

func TestHandler(t *testing.T) {
	assets, err := LoadAssets(true)
	require.NoError(t, err)
	srv := httptest.NewServer(NewHandler(assets, arbor.NewLogger()))
	defer srv.Close()

	tests := []struct {
		name        string
		method      string
		path        string
		status      int
		contentType string
	}{
		{"root serves index", http.MethodGet, "/", http.StatusOK, "text/html; charset=utf-8"},
		{"script", http.MethodGet, "/app.js", http.StatusOK, "application/javascript; charset=utf-8"},
		{"stylesheet", http.MethodGet, "/app.css", http.StatusOK, "text/css; charset=utf-8"},
		{"head", http.MethodHead, "/", http.StatusOK, "text/html; charset=utf-8"},
		{"unknown file", http.MethodGet, "/missing.js", http.StatusNotFound, ""},
		{"post rejected", http.MethodPost, "/", http.StatusMethodNotAllowed, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
			require.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.contentType != "" {
				assert.Equal(t, tt.contentType, resp.Header.Get("Content-Type"))
			}
		})
	}
}

func TestStartAndClose(t *testing.T) {
	s, err := Start(Config{}, arbor.NewLogger())
	require.NoError(t, err)

	assert.Regexp(t, `^http://127\.0\.0\.1:\d+/#/$`, s.URL())

	resp, err := http.Get("http://" + s.Addr() + "/")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "todoapp")

	require.NoError(t, s.Close())

	_, err = http.Get("http://" + s.Addr() + "/")
	assert.Error(t, err)
}

func TestStartRejectsBadAddress(t *testing.T) {
	_, err := Start(Config{Addr: "256.0.0.1:99999"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}
