//go:build !embed
// +build !embed

package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// setupStaticFiles configures static file serving for development (no embedding)
func setupStaticFiles(router *gin.Engine, logger *logrus.Logger) {
	logger.Info("🔧 Using local filesystem for frontend assets (development mode)")
	logger.Info("   Build with -tags embed to bake the frontend into the binary")

	router.Static("/static", "./cmd/server/web/static")
	router.StaticFile("/", "./cmd/server/web/index.html")
	router.StaticFile("/favicon.ico", "./cmd/server/web/static/favicon.ico")

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{"error": "API endpoint not found"})
			return
		}
		c.File("./cmd/server/web/index.html")
	})
}
