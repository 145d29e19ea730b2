package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"tikagate/internal/config"
	"tikagate/internal/domain"
	"tikagate/internal/metrics"
	"tikagate/internal/service"
)

// DocumentHandler handles the document forwarding endpoints. Payloads are
// raw document bytes in the request body; responses are rendered JSON.
type DocumentHandler struct {
	docService service.DocumentService
	cfg        *config.TikaConfig
	metrics    *metrics.Metrics
	log        *logrus.Logger
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(docService service.DocumentService, cfg *config.TikaConfig, m *metrics.Metrics, log *logrus.Logger) *DocumentHandler {
	return &DocumentHandler{docService: docService, cfg: cfg, metrics: m, log: log}
}

// Parse handles POST /parse
// @Summary Parse a document
// @Description Extract text, HTML, or metadata from a document (PDF, Word, Excel, PowerPoint, etc.)
// @Tags documents
// @Accept octet-stream
// @Produce json
// @Param format query string false "Output format: text, html, or metadata (default text)"
// @Success 200 {object} domain.ParseResult "Parsed document"
// @Failure 400 {object} ErrorResponse "Empty payload"
// @Failure 401 {object} ErrorResponse "Missing or invalid API key"
// @Failure 413 {object} ErrorResponse "Payload exceeds size cap"
// @Failure 500 {object} ErrorResponse "Engine processing failed"
// @Failure 503 {object} ErrorResponse "Engine not ready or unreachable"
// @Failure 504 {object} ErrorResponse "Engine call timed out"
// @Router /parse [post]
func (h *DocumentHandler) Parse(c *gin.Context) {
	payload, ok := h.readPayload(c)
	if !ok {
		return
	}

	input := service.ParseInput{
		Payload:     payload,
		ContentType: c.ContentType(),
		Format:      domain.ParseOutputFormat(c.Query("format")),
	}
	result, err := h.docService.Parse(h.forwardContext(c), input)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Detect handles POST /detect
// @Summary Detect a document's MIME type
// @Tags documents
// @Accept octet-stream
// @Produce json
// @Success 200 {object} domain.DetectResult "Detected type"
// @Failure 400 {object} ErrorResponse "Empty payload"
// @Failure 401 {object} ErrorResponse "Missing or invalid API key"
// @Router /detect [post]
func (h *DocumentHandler) Detect(c *gin.Context) {
	payload, ok := h.readPayload(c)
	if !ok {
		return
	}

	result, err := h.docService.Detect(h.forwardContext(c), payload)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Language handles POST /language
// @Summary Detect a document's language
// @Description Extracts the document's text, then runs language detection on it
// @Tags documents
// @Accept octet-stream
// @Produce json
// @Success 200 {object} domain.LanguageResult "Detected language, or success=false when no text could be extracted"
// @Failure 400 {object} ErrorResponse "Empty payload"
// @Failure 401 {object} ErrorResponse "Missing or invalid API key"
// @Router /language [post]
func (h *DocumentHandler) Language(c *gin.Context) {
	payload, ok := h.readPayload(c)
	if !ok {
		return
	}

	result, err := h.docService.Language(h.forwardContext(c), payload, c.ContentType())
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Analyze handles POST /analyze
// @Summary Run full document analysis
// @Description Detects type, extracts metadata and text, and detects language in one call. Sub-step failures degrade their field instead of failing the request.
// @Tags documents
// @Accept octet-stream
// @Produce json
// @Success 200 {object} domain.AnalysisResult "Analysis summary"
// @Failure 400 {object} ErrorResponse "Empty payload"
// @Failure 401 {object} ErrorResponse "Missing or invalid API key"
// @Router /analyze [post]
func (h *DocumentHandler) Analyze(c *gin.Context) {
	payload, ok := h.readPayload(c)
	if !ok {
		return
	}

	result, err := h.docService.Analyze(h.forwardContext(c), payload, c.ContentType())
	if err != nil {
		HandleError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// readPayload reads the request body under the configured size cap; a zero
// cap reads unbounded. A false return means the error response has already
// been written. The empty-payload check stays in the service so it runs for
// every caller.
func (h *DocumentHandler) readPayload(c *gin.Context) ([]byte, bool) {
	reader := io.Reader(c.Request.Body)
	if limit := h.cfg.MaxPayloadBytes(); limit > 0 {
		reader = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}
	payload, err := io.ReadAll(reader)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			HandleError(c, h.log, &domain.PayloadTooLargeError{LimitMB: h.cfg.MaxPayloadMB})
			return nil, false
		}
		RespondError(c, http.StatusBadRequest, "Bad Request", "Failed to read request body")
		return nil, false
	}

	if h.metrics != nil {
		h.metrics.PayloadBytes.Observe(float64(len(payload)))
	}
	return payload, true
}

// forwardContext detaches the engine call from the client connection. A
// caller that disconnects mid-parse does not abort the in-flight engine
// work; the per-operation timeout is the only bound.
func (h *DocumentHandler) forwardContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}
