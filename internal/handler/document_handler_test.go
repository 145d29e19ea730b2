package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tikagate/internal/config"
	"tikagate/internal/domain"
	"tikagate/internal/handler"
	"tikagate/internal/service"
	"tikagate/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func tikaConfig() *config.TikaConfig {
	return &config.TikaConfig{MaxPayloadMB: 1}
}

func documentRouter(docService service.DocumentService) *gin.Engine {
	return documentRouterWithConfig(docService, tikaConfig())
}

func documentRouterWithConfig(docService service.DocumentService, cfg *config.TikaConfig) *gin.Engine {
	h := handler.NewDocumentHandler(docService, cfg, nil, testLogger())
	router := gin.New()
	router.POST("/parse", h.Parse)
	router.POST("/detect", h.Detect)
	router.POST("/language", h.Language)
	router.POST("/analyze", h.Analyze)
	return router
}

func postBody(router *gin.Engine, path string, body []byte, contentType string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestParseForwardsPayloadFormatAndContentType(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	docService.On("Parse", mock.Anything, service.ParseInput{
		Payload:     []byte("%PDF-1.4"),
		ContentType: "application/pdf",
		Format:      domain.FormatHTML,
	}).Return(&domain.ParseResult{
		Success:       true,
		Format:        domain.FormatHTML,
		FileSize:      8,
		Content:       "<p>hi</p>",
		ContentLength: 9,
	}, nil)

	router := documentRouter(docService)
	w := postBody(router, "/parse?format=html", []byte("%PDF-1.4"), "application/pdf")

	assert.Equal(t, http.StatusOK, w.Code)
	var result domain.ParseResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, domain.FormatHTML, result.Format)
	assert.Equal(t, "<p>hi</p>", result.Content)
	docService.AssertExpectations(t)
}

func TestParseDefaultsToTextFormat(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	docService.On("Parse", mock.Anything, mock.MatchedBy(func(input service.ParseInput) bool {
		return input.Format == domain.FormatText
	})).Return(&domain.ParseResult{Success: true, Format: domain.FormatText}, nil)

	router := documentRouter(docService)
	w := postBody(router, "/parse", []byte("data"), "")

	assert.Equal(t, http.StatusOK, w.Code)
	docService.AssertExpectations(t)
}

func TestParseUnknownFormatFallsBackToText(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	docService.On("Parse", mock.Anything, mock.MatchedBy(func(input service.ParseInput) bool {
		return input.Format == domain.FormatText
	})).Return(&domain.ParseResult{Success: true, Format: domain.FormatText}, nil)

	router := documentRouter(docService)
	w := postBody(router, "/parse?format=yaml", []byte("data"), "")

	assert.Equal(t, http.StatusOK, w.Code)
	docService.AssertExpectations(t)
}

func TestParseEmptyPayloadMapsToBadRequest(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	docService.On("Parse", mock.Anything, mock.Anything).Return(nil, domain.ErrEmptyPayload)

	router := documentRouter(docService)
	w := postBody(router, "/parse", nil, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "Bad Request", resp.Error)
	assert.Equal(t, "No file data provided. Send file as request body.", resp.Message)
}

func TestParseOversizedPayloadRejectedBeforeService(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	router := documentRouter(docService)

	oversized := bytes.Repeat([]byte("a"), 1024*1024+1)
	w := postBody(router, "/parse", oversized, "application/pdf")

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "Payload Too Large", resp.Error)
	assert.Equal(t, "File too large. Maximum size is 1 MB", resp.Message)
	docService.AssertNotCalled(t, "Parse", mock.Anything, mock.Anything)
}

func TestParseZeroCapDisablesSizeLimit(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	router := documentRouterWithConfig(docService, &config.TikaConfig{MaxPayloadMB: 0})

	payload := bytes.Repeat([]byte("b"), 1024*1024+1)
	docService.On("Parse", mock.Anything, mock.MatchedBy(func(in service.ParseInput) bool {
		return len(in.Payload) == len(payload)
	})).Return(&domain.ParseResult{Success: true, Format: domain.FormatText}, nil)

	w := postBody(router, "/parse", payload, "application/pdf")

	assert.Equal(t, http.StatusOK, w.Code)
	docService.AssertExpectations(t)
}

func TestParseTimeoutMapsToGatewayTimeout(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	docService.On("Parse", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("PUT /tika: %w", domain.ErrEngineTimeout))

	router := documentRouter(docService)
	w := postBody(router, "/parse", []byte("data"), "")

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "Gateway Timeout", resp.Error)
	assert.Equal(t, "Document processing timeout. File may be too large or complex.", resp.Message)
}

func TestParseUnavailableMapsToServiceUnavailable(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	docService.On("Parse", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("PUT /tika: %w", domain.ErrEngineUnavailable))

	router := documentRouter(docService)
	w := postBody(router, "/parse", []byte("data"), "")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "Service Unavailable", resp.Error)
	assert.Equal(t, "Tika server unavailable", resp.Message)
}

func TestParseUpstreamErrorCarriesStatus(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	docService.On("Parse", mock.Anything, mock.Anything).
		Return(nil, &domain.EngineStatusError{Status: http.StatusUnprocessableEntity})

	router := documentRouter(docService)
	w := postBody(router, "/parse", []byte("data"), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "Upstream Error", resp.Error)
	assert.Equal(t, "Tika processing failed: 422", resp.Message)
}

func TestParseUnexpectedErrorMapsToInternal(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	docService.On("Parse", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("something odd"))

	router := documentRouter(docService)
	w := postBody(router, "/parse", []byte("data"), "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, "Internal Server Error", resp.Error)
	assert.Equal(t, "An unexpected error occurred", resp.Message)
}

func TestDetectReturnsResult(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	docService.On("Detect", mock.Anything, []byte("%PDF-1.4")).
		Return(&domain.DetectResult{Success: true, MimeType: "application/pdf", FileSize: 8}, nil)

	router := documentRouter(docService)
	w := postBody(router, "/detect", []byte("%PDF-1.4"), "")

	assert.Equal(t, http.StatusOK, w.Code)
	var result domain.DetectResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "application/pdf", result.MimeType)
	assert.Equal(t, 8, result.FileSize)
}

func TestLanguageForwardsContentType(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	docService.On("Language", mock.Anything, []byte("doc"), "application/pdf").
		Return(&domain.LanguageResult{Success: true, Language: "en", TextLength: 11}, nil)

	router := documentRouter(docService)
	w := postBody(router, "/language", []byte("doc"), "application/pdf")

	assert.Equal(t, http.StatusOK, w.Code)
	var result domain.LanguageResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "en", result.Language)
	docService.AssertExpectations(t)
}

func TestLanguageSoftFailurePassesThroughAs200(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	docService.On("Language", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.LanguageResult{
			Success: false,
			Message: "No text could be extracted from the document",
		}, nil)

	router := documentRouter(docService)
	w := postBody(router, "/language", []byte("an image"), "image/png")

	assert.Equal(t, http.StatusOK, w.Code)
	var result domain.LanguageResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Equal(t, "No text could be extracted from the document", result.Message)
}

func TestAnalyzeReturnsAggregate(t *testing.T) {
	docService := new(mocks.MockDocumentService)
	docService.On("Analyze", mock.Anything, []byte("doc"), "application/pdf").
		Return(&domain.AnalysisResult{
			Success:     true,
			FileSize:    3,
			MimeType:    "application/pdf",
			TextPreview: "hello",
			TextLength:  5,
		}, nil)

	router := documentRouter(docService)
	w := postBody(router, "/analyze", []byte("doc"), "application/pdf")

	assert.Equal(t, http.StatusOK, w.Code)
	var result domain.AnalysisResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, "application/pdf", result.MimeType)
	assert.Equal(t, "hello", result.TextPreview)
}
