package middleware

import (
	"github.com/gin-gonic/gin"

	"tikagate/internal/handler"
)

// abortWithError stops the chain with the mapped response for err, so gate
// rejections carry the same taxonomy bodies as handler failures.
func abortWithError(c *gin.Context, err error) {
	status, label, msg := handler.MapGatewayError(err)
	c.AbortWithStatusJSON(status, handler.ErrorResponse{Error: label, Message: msg})
}
