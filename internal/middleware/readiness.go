package middleware

import (
	"github.com/gin-gonic/gin"

	"tikagate/internal/domain"
	"tikagate/internal/readiness"
)

// RequireReady returns middleware that rejects requests until the document
// engine has been confirmed reachable. It runs after authentication and
// before any payload is read, so no engine call is ever attempted for a
// request that cannot be served.
func RequireReady(monitor *readiness.Monitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if state := monitor.State(); state != domain.StateReady {
			abortWithError(c, &domain.EngineNotReadyError{State: state})
			return
		}
		c.Next()
	}
}
