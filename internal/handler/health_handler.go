package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"tikagate/internal/readiness"
)

// HealthHandler reports gateway health derived from engine readiness.
type HealthHandler struct {
	monitor   *readiness.Monitor
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. startTime is captured once
// at process start and never changes.
func NewHealthHandler(monitor *readiness.Monitor, startTime time.Time) *HealthHandler {
	return &HealthHandler{monitor: monitor, startTime: startTime}
}

// Health handles GET /health
// @Summary Gateway health
// @Produce json
// @Success 200 {object} map[string]interface{} "Engine ready"
// @Failure 503 {object} map[string]interface{} "Engine starting or failed"
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	state := h.monitor.State()
	ready := h.monitor.Ready()

	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":     state.HealthLabel(),
		"tika_ready": ready,
		"timestamp":  float64(time.Now().UnixMilli()) / 1000.0,
		"uptime":     time.Since(h.startTime).Seconds(),
	})
}
