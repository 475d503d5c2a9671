package server

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-contrib/static"
)

//go:embed web
var webFiles embed.FS

// embedFS adapts the embedded viewer to static.ServeFileSystem.
type embedFS struct {
	http.FileSystem
}

var _ static.ServeFileSystem = embedFS{}

func viewerFS() embedFS {
	sub, err := fs.Sub(webFiles, "web")
	if err != nil {
		// web is compiled in; Sub only fails on an invalid name.
		panic(err)
	}

	return embedFS{FileSystem: http.FS(sub)}
}

// Exists reports whether the request path names an embedded file.
func (e embedFS) Exists(prefix string, filepath string) bool {
	p, ok := strings.CutPrefix(filepath, prefix)
	if !ok {
		return false
	}

	f, err := e.Open(path.Clean("/" + p))
	if err != nil {
		return false
	}
	_ = f.Close()

	return true
}
