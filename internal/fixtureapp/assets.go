// Package fixtureapp serves a local to-do page that honors the same selector contract as the
// application under test. The harness self-tests and offline dry runs point at it.
package fixtureapp

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

//go:embed web
var webFiles embed.FS

// StorageKey is the localStorage key the page keeps its list under.
const StorageKey = "todos-e2e-fixture"

// Asset is one servable file.
type Asset struct {
	Name        string
	ContentType string
	Body        []byte
}

var contentTypes = map[string]string{
	".html": "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
}

// newMinifier registers the minifiers for every asset type the page uses.
func newMinifier() *minify.M {
	m := minify.New()
	m.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	m.AddFunc("text/css", css.Minify)
	m.AddFunc("application/javascript", js.Minify)
	return m
}

// LoadAssets reads every embedded file and, when minified is set, minifies it.
func LoadAssets(minified bool) (map[string]Asset, error) {
	m := newMinifier()
	assets := map[string]Asset{}

	err := fs.WalkDir(webFiles, "web", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		name := strings.TrimPrefix(p, "web/")
		contentType, ok := contentTypes[path.Ext(name)]
		if !ok {
			return nil
		}

		body, err := webFiles.ReadFile(p)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", p, err)
		}

		if minified {
			body, err = m.Bytes(contentType, body)
			if err != nil {
				return fmt.Errorf("failed to minify %s: %w", name, err)
			}
		}

		assets[name] = Asset{Name: name, ContentType: contentType + "; charset=utf-8", Body: body}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if _, ok := assets["index.html"]; !ok {
		return nil, fmt.Errorf("embedded index.html missing")
	}
	return assets, nil
}
