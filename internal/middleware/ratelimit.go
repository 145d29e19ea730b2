package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimit returns middleware that applies a process-wide token bucket to
// all traffic it guards. Parse workloads are engine-bound, so the bucket
// protects the engine rather than fairness between clients.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":   "Too Many Requests",
				"message": "Request rate limit exceeded. Please slow down and try again.",
			})
			return
		}
		c.Next()
	}
}
