package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tikagate/internal/domain"
)

// ErrorResponse is the wire shape for every error the gateway returns. The
// error field is a stable taxonomy label; the message is for humans and may
// change between releases.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, label, msg string) {
	c.JSON(status, ErrorResponse{Error: label, Message: msg})
}

// MapGatewayError translates domain errors to HTTP status codes and the
// stable error taxonomy. The gate middleware and the handlers share it, so
// a given failure produces the same body wherever it is rejected.
func MapGatewayError(err error) (status int, label, msg string) {
	var (
		tooLarge *domain.PayloadTooLargeError
		notReady *domain.EngineNotReadyError
	)
	switch {
	case errors.Is(err, domain.ErrMissingAPIKey):
		return http.StatusUnauthorized, "Unauthorized", "Missing X-API-Key header"
	case errors.Is(err, domain.ErrInvalidAPIKey):
		return http.StatusUnauthorized, "Unauthorized", "Invalid API key"
	case errors.Is(err, domain.ErrEmptyPayload):
		return http.StatusBadRequest, "Bad Request", "No file data provided. Send file as request body."
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "Payload Too Large",
			fmt.Sprintf("File too large. Maximum size is %d MB", tooLarge.LimitMB)
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge, "Payload Too Large", "File exceeds the maximum allowed size"
	case errors.As(err, &notReady) && notReady.State == domain.StateFailed:
		return http.StatusServiceUnavailable, "Service Unavailable", "Tika server failed to start"
	case errors.Is(err, domain.ErrEngineNotReady):
		return http.StatusServiceUnavailable, "Service Unavailable", "Tika server is still starting. Please wait and try again."
	case errors.Is(err, domain.ErrEngineTimeout):
		return http.StatusGatewayTimeout, "Gateway Timeout", domain.EngineFailureMessage(err)
	case errors.Is(err, domain.ErrEngineUnavailable):
		return http.StatusServiceUnavailable, "Service Unavailable", domain.EngineFailureMessage(err)
	case errors.Is(err, domain.ErrEngineFailed):
		return http.StatusInternalServerError, "Upstream Error", domain.EngineFailureMessage(err)
	default:
		return http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred"
	}
}

// HandleError maps a gateway error and sends the appropriate error response.
func HandleError(c *gin.Context, log *logrus.Logger, err error) {
	status, label, msg := MapGatewayError(err)
	if status >= http.StatusInternalServerError {
		log.WithFields(logrus.Fields{
			"request_id": c.Writer.Header().Get("X-Request-ID"),
			"status":     status,
			"error":      err.Error(),
		}).Error("request failed")
	}
	RespondError(c, status, label, msg)
}
