package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tikagate/internal/readiness"
	"tikagate/internal/service"
)

// Service identity reported by the banner and version endpoints.
const (
	ServiceName    = "tikagate"
	ServiceVersion = "1.2.0"
)

// InfoHandler serves the service banner, version info, and engine capability
// listings.
type InfoHandler struct {
	docService service.DocumentService
	monitor    *readiness.Monitor
	log        *logrus.Logger
}

// NewInfoHandler creates a new InfoHandler.
func NewInfoHandler(docService service.DocumentService, monitor *readiness.Monitor, log *logrus.Logger) *InfoHandler {
	return &InfoHandler{docService: docService, monitor: monitor, log: log}
}

// Index handles GET /
// @Summary Service banner and usage
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *InfoHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service":    ServiceName,
		"version":    ServiceVersion,
		"status":     "running",
		"tika_ready": h.monitor.Ready(),
		"usage": gin.H{
			"auth":          "X-API-Key header required",
			"content_types": "PDF, Word, Excel, PowerPoint, etc.",
			"endpoints": gin.H{
				"parse":    "POST /parse?format={text|html|metadata}",
				"detect":   "POST /detect",
				"language": "POST /language",
				"analyze":  "POST /analyze",
				"parsers":  "GET /parsers",
				"types":    "GET /types",
				"health":   "GET /health",
				"version":  "GET /version",
			},
		},
	})
}

// Version handles GET /version
// @Summary Gateway and engine versions
// @Description Reports the gateway version always; the engine version is
// included only once the engine is ready and answering.
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /version [get]
func (h *InfoHandler) Version(c *gin.Context) {
	body := gin.H{
		"service":    ServiceName,
		"version":    ServiceVersion,
		"tika_ready": h.monitor.Ready(),
	}

	if h.monitor.Ready() {
		if engineVersion, err := h.docService.EngineVersion(c.Request.Context()); err == nil {
			body["tika_version"] = engineVersion
		} else {
			h.log.WithField("error", err.Error()).Warn("version: engine version lookup failed")
		}
	}

	c.JSON(http.StatusOK, body)
}

// Parsers handles GET /parsers
// @Summary List the engine's parsers
// @Produce json
// @Success 200 {object} map[string]interface{} "Engine parser tree, passed through verbatim"
// @Failure 503 {object} ErrorResponse "Engine not ready"
// @Router /parsers [get]
func (h *InfoHandler) Parsers(c *gin.Context) {
	data, err := h.docService.Parsers(c.Request.Context())
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}

// MimeTypes handles GET /types
// @Summary List the engine's supported MIME types
// @Produce json
// @Success 200 {object} map[string]interface{} "Engine MIME type listing, passed through verbatim"
// @Failure 401 {object} ErrorResponse "Missing or invalid API key"
// @Failure 503 {object} ErrorResponse "Engine not ready"
// @Router /types [get]
func (h *InfoHandler) MimeTypes(c *gin.Context) {
	data, err := h.docService.MimeTypes(c.Request.Context())
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	c.Data(http.StatusOK, "application/json", data)
}
