// Package web embeds the chat page and its assets.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var staticFS embed.FS

// Static returns the embedded assets rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("web: failed to create sub filesystem: " + err.Error())
	}
	return sub
}

// Index returns the contents of index.html.
func Index() ([]byte, error) {
	return fs.ReadFile(Static(), "index.html")
}
