package http

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// serveStatic serves the built frontend. Unknown GET paths fall back to
// index.html so client-side routes resolve.
func (h *Handler) serveStatic(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if h.cfg.StaticDir == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	root := filepath.Clean(h.cfg.StaticDir)
	if path, ok := staticPath(root, c.Request.URL.Path); ok && serveFile(c, path) {
		return
	}
	if !serveFile(c, filepath.Join(root, "index.html")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	}
}

// staticPath resolves a request path to a regular file under root.
func staticPath(root, urlPath string) (string, bool) {
	rel := filepath.FromSlash(strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+urlPath)), "/"))
	if rel == "" || rel == "." {
		return "", false
	}
	path := filepath.Join(root, rel)
	if path != root && !strings.HasPrefix(path, root+string(os.PathSeparator)) {
		return "", false
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", false
	}
	return path, true
}

// serveFile writes an already resolved file. http.ServeFile is avoided
// because it rejects any raw request path containing "..", even when the
// resolved file is the SPA index.
func serveFile(c *gin.Context, path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}
	http.ServeContent(c.Writer, c.Request, info.Name(), info.ModTime(), f)
	return true
}
