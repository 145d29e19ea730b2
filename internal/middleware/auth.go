package middleware

import (
	"github.com/gin-gonic/gin"

	"tikagate/internal/domain"
)

// HeaderAPIKey is the credential header checked on protected endpoints.
const HeaderAPIKey = "X-API-Key"

// APIKeyAuth returns Gin middleware that requires the shared API key on every
// request. The check runs before any readiness or payload inspection, so an
// unauthenticated caller learns nothing about service state.
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(HeaderAPIKey)
		if provided == "" {
			abortWithError(c, domain.ErrMissingAPIKey)
			return
		}
		if provided != apiKey {
			abortWithError(c, domain.ErrInvalidAPIKey)
			return
		}
		c.Next()
	}
}
