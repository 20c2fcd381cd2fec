package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit caps the API request rate. Every insight lookup spends a call
// against a metered third-party API, so the limiter sits in front of the
// whole /api/v1 group.
func RateLimit(requestsPerSecond float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":    "Rate limit exceeded, slow down",
				"category": "rate_limited",
			})
			return
		}
		c.Next()
	}
}
