package editor

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed static
var staticFiles embed.FS

const indexFile = "index.html"

func defaultAssets() fs.FS {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// handleEditorPage handles GET {base}/editor.
func (a *API) handleEditorPage(w http.ResponseWriter, r *http.Request) {
	data, err := fs.ReadFile(a.assets, indexFile)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	_, _ = w.Write(data)
}

// staticHandler serves assets under {base}/.
func (a *API) staticHandler() http.Handler {
	files := http.StripPrefix(a.basePath, http.FileServerFS(a.assets))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if strings.HasSuffix(r.URL.Path, "/") {
			a.handleEditorPage(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}
