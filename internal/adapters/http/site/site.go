// Package site serves the exported static JSON tree.
package site

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// Error constants
var (
	ErrServe = errors.New("static site serve failed")
)

// Register mounts fsys under prefix on mux. The prefix is stripped before
// lookup, so <prefix>/employee.json reads employee.json from fsys. An empty
// prefix mounts the tree at the root.
func Register(_ context.Context, mux *http.ServeMux, prefix string, fsys fs.FS) {
	if mux == nil {
		panic("mux is nil")
	}
	if fsys == nil {
		panic("fsys is nil")
	}

	prefix = strings.TrimRight(prefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	files := http.FileServer(http.FS(fsys))
	mux.Handle(prefix+"/", http.StripPrefix(prefix, NewTreeHandler(files)))
}

// TreeHandler serves read-only files, labelling JSON documents.
type TreeHandler struct {
	next http.Handler
}

// NewTreeHandler wraps a file server.
func NewTreeHandler(next http.Handler) *TreeHandler {
	return &TreeHandler{next: next}
}

// ServeHTTP handles GET and HEAD requests for files in the tree.
func (h *TreeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	if path.Ext(r.URL.Path) == ".json" {
		w.Header().Set("Content-Type", "application/json")
	}
	h.next.ServeHTTP(w, r)
}
