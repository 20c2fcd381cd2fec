//go:build embed
// +build embed

package main

import (
	"embed"
	"io"
	"io/fs"
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:embed web
var webAssets embed.FS

// setupStaticFiles configures static file serving with embedded frontend
func setupStaticFiles(router *gin.Engine, logger *logrus.Logger) {
	logger.Info("📦 Using embedded frontend assets")

	webFS, err := fs.Sub(webAssets, "web")
	if err != nil {
		logger.Fatalf("Failed to get web subdirectory: %v", err)
	}

	// Serve static files from embedded FS
	router.NoRoute(func(c *gin.Context) {
		urlPath := c.Request.URL.Path

		// Skip API routes (they are handled by other routes)
		if len(urlPath) >= 4 && urlPath[:4] == "/api" {
			c.JSON(404, gin.H{"error": "API endpoint not found"})
			return
		}

		cleanPath := path.Clean(urlPath)
		if cleanPath == "/" {
			cleanPath = "index.html"
		} else {
			cleanPath = cleanPath[1:]
		}

		file, err := webFS.Open(cleanPath)
		if err == nil {
			defer file.Close()
			stat, err := file.Stat()
			if err == nil && !stat.IsDir() {
				content, err := io.ReadAll(file)
				if err == nil {
					c.Data(http.StatusOK, contentTypeFor(cleanPath), content)
					return
				}
			}
		}

		// Fall back to index.html so a refreshed browser tab still loads
		indexFile, err := webFS.Open("index.html")
		if err != nil {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}
		defer indexFile.Close()

		content, err := io.ReadAll(indexFile)
		if err != nil {
			c.String(http.StatusInternalServerError, "Error reading index.html")
			return
		}

		c.Data(http.StatusOK, "text/html; charset=utf-8", content)
	})
}

func contentTypeFor(cleanPath string) string {
	switch path.Ext(cleanPath) {
	case ".js":
		return "application/javascript; charset=utf-8"
	case ".css":
		return "text/css; charset=utf-8"
	case ".json":
		return "application/json; charset=utf-8"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	default:
		return "text/html; charset=utf-8"
	}
}
