package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"tikagate/internal/cache"
	"tikagate/internal/domain"
	"tikagate/internal/metrics"
	"tikagate/internal/port"
)

// textPreviewRunes bounds the preview field in analysis responses.
const textPreviewRunes = 1000

// Cache key prefixes. Capability entries hold engine listings that change
// only on engine upgrades; result entries hold rendered operation responses.
const (
	capabilityPrefix = "capability"
	parsePrefix      = "parse"
	detectPrefix     = "detect"
)

// ParseInput is the DTO for parse requests.
type ParseInput struct {
	Payload     []byte
	ContentType string
	Format      domain.OutputFormat
}

// DocumentService defines the document processing contract. Every method
// validates its input before the first engine call; engine failures come
// back wrapping the domain engine sentinels.
type DocumentService interface {
	Parse(ctx context.Context, input ParseInput) (*domain.ParseResult, error)
	Detect(ctx context.Context, payload []byte) (*domain.DetectResult, error)
	Language(ctx context.Context, payload []byte, contentType string) (*domain.LanguageResult, error)
	Analyze(ctx context.Context, payload []byte, contentType string) (*domain.AnalysisResult, error)
	EngineVersion(ctx context.Context) (string, error)
	Parsers(ctx context.Context) ([]byte, error)
	MimeTypes(ctx context.Context) ([]byte, error)
}

type documentService struct {
	engine  port.DocumentEngine
	caps    port.Cache
	capsTTL time.Duration
	results *cache.ResultCache
	metrics *metrics.Metrics
	log     *logrus.Entry
}

// NewDocumentService creates a new DocumentService implementation. results
// and m may be nil to disable result caching and engine metrics.
func NewDocumentService(
	engine port.DocumentEngine,
	caps port.Cache,
	capsTTL time.Duration,
	results *cache.ResultCache,
	m *metrics.Metrics,
	log *logrus.Entry,
) DocumentService {
	if capsTTL <= 0 {
		capsTTL = 5 * time.Minute
	}
	return &documentService{
		engine:  engine,
		caps:    caps,
		capsTTL: capsTTL,
		results: results,
		metrics: m,
		log:     log,
	}
}

func (s *documentService) Parse(ctx context.Context, input ParseInput) (*domain.ParseResult, error) {
	if len(input.Payload) == 0 {
		return nil, domain.ErrEmptyPayload
	}

	if s.results == nil {
		return s.parse(ctx, input)
	}

	key := cache.Key(input.Payload, "parse", string(input.Format), input.ContentType)
	data, hit, err := s.results.GetOrCompute(ctx, parsePrefix, key, func() ([]byte, error) {
		result, err := s.parse(ctx, input)
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)
	})
	if err != nil {
		return nil, err
	}
	s.countCache(hit)

	var result domain.ParseResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding cached parse result: %w", err)
	}
	return &result, nil
}

func (s *documentService) parse(ctx context.Context, input ParseInput) (*domain.ParseResult, error) {
	var resp *port.EngineResponse
	var err error

	switch input.Format {
	case domain.FormatMetadata:
		resp, err = s.callEngine("metadata", func() (*port.EngineResponse, error) {
			return s.engine.Metadata(ctx, input.Payload, input.ContentType)
		})
	case domain.FormatHTML:
		resp, err = s.callEngine("extract", func() (*port.EngineResponse, error) {
			return s.engine.Extract(ctx, input.Payload, input.ContentType, "text/html")
		})
	default:
		resp, err = s.callEngine("extract", func() (*port.EngineResponse, error) {
			return s.engine.Extract(ctx, input.Payload, input.ContentType, "text/plain")
		})
	}
	if err != nil {
		return nil, err
	}

	text := string(resp.Body)
	result := &domain.ParseResult{
		Success:        true,
		Format:         input.Format,
		FileSize:       len(input.Payload),
		ProcessingTime: resp.Elapsed.Seconds(),
		ContentLength:  utf8.RuneCountInString(text),
	}

	if input.Format == domain.FormatMetadata {
		result.Metadata = decodeMetadata(resp.Body)
	} else {
		result.Content = text
		result.Stats = computeTextStats(text)
	}

	s.log.WithFields(logrus.Fields{
		"format":         input.Format,
		"file_size":      result.FileSize,
		"content_length": result.ContentLength,
	}).Info("document parsed")
	return result, nil
}

func (s *documentService) Detect(ctx context.Context, payload []byte) (*domain.DetectResult, error) {
	if len(payload) == 0 {
		return nil, domain.ErrEmptyPayload
	}

	if s.results == nil {
		return s.detect(ctx, payload)
	}

	key := cache.Key(payload, "detect")
	data, hit, err := s.results.GetOrCompute(ctx, detectPrefix, key, func() ([]byte, error) {
		result, err := s.detect(ctx, payload)
		if err != nil {
			return nil, err
		}
		return json.Marshal(result)
	})
	if err != nil {
		return nil, err
	}
	s.countCache(hit)

	var result domain.DetectResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("decoding cached detect result: %w", err)
	}
	return &result, nil
}

func (s *documentService) detect(ctx context.Context, payload []byte) (*domain.DetectResult, error) {
	resp, err := s.callEngine("detect", func() (*port.EngineResponse, error) {
		return s.engine.DetectType(ctx, payload)
	})
	if err != nil {
		return nil, err
	}

	return &domain.DetectResult{
		Success:  true,
		MimeType: strings.TrimSpace(string(resp.Body)),
		FileSize: len(payload),
	}, nil
}

// Language extracts the document's text and runs it through the engine's
// language detector. A document that yields no text is a soft failure, not an
// error; the caller still receives a 200-shaped result.
func (s *documentService) Language(ctx context.Context, payload []byte, contentType string) (*domain.LanguageResult, error) {
	if len(payload) == 0 {
		return nil, domain.ErrEmptyPayload
	}

	resp, err := s.callEngine("extract", func() (*port.EngineResponse, error) {
		return s.engine.Extract(ctx, payload, contentType, "text/plain")
	})
	if err != nil {
		return nil, err
	}

	text := strings.TrimSpace(string(resp.Body))
	if text == "" {
		return &domain.LanguageResult{
			Success: false,
			Message: "No text could be extracted from the document",
		}, nil
	}

	langResp, err := s.callEngine("language", func() (*port.EngineResponse, error) {
		return s.engine.DetectLanguage(ctx, text)
	})
	if err != nil {
		return nil, err
	}

	return &domain.LanguageResult{
		Success:    true,
		Language:   strings.TrimSpace(string(langResp.Body)),
		TextLength: utf8.RuneCountInString(text),
	}, nil
}

// Analyze runs detection, metadata extraction, text extraction, and language
// detection over one payload. Sub-step failures degrade their own field
// instead of failing the response; partial analysis is still analysis.
func (s *documentService) Analyze(ctx context.Context, payload []byte, contentType string) (*domain.AnalysisResult, error) {
	if len(payload) == 0 {
		return nil, domain.ErrEmptyPayload
	}

	result := &domain.AnalysisResult{
		Success:  true,
		FileSize: len(payload),
	}

	// processing_time reports engine time only, not gateway overhead.
	var engineTime time.Duration

	if resp, err := s.callEngine("detect", func() (*port.EngineResponse, error) {
		return s.engine.DetectType(ctx, payload)
	}); err == nil {
		engineTime += resp.Elapsed
		result.MimeType = strings.TrimSpace(string(resp.Body))
	} else {
		s.log.WithField("error", err.Error()).Warn("analyze: type detection failed")
	}

	if resp, err := s.callEngine("metadata", func() (*port.EngineResponse, error) {
		return s.engine.Metadata(ctx, payload, contentType)
	}); err == nil {
		engineTime += resp.Elapsed
		result.Metadata = decodeMetadata(resp.Body)
	} else {
		s.log.WithField("error", err.Error()).Warn("analyze: metadata extraction failed")
		result.Metadata = map[string]string{"error": domain.EngineFailureMessage(err)}
	}

	var text string
	if resp, err := s.callEngine("extract", func() (*port.EngineResponse, error) {
		return s.engine.Extract(ctx, payload, contentType, "text/plain")
	}); err == nil {
		engineTime += resp.Elapsed
		text = string(resp.Body)
	} else {
		s.log.WithField("error", err.Error()).Warn("analyze: text extraction failed")
	}

	result.TextLength = utf8.RuneCountInString(text)
	result.TextPreview = truncateRunes(text, textPreviewRunes)
	if text != "" {
		result.TextAnalysis = computeTextStats(text)
	}

	if trimmed := strings.TrimSpace(text); trimmed != "" {
		if resp, err := s.callEngine("language", func() (*port.EngineResponse, error) {
			return s.engine.DetectLanguage(ctx, trimmed)
		}); err == nil {
			engineTime += resp.Elapsed
			result.Language = strings.TrimSpace(string(resp.Body))
		}
	}

	result.ProcessingTime = engineTime.Seconds()
	return result, nil
}

func (s *documentService) EngineVersion(ctx context.Context) (string, error) {
	data, err := s.capability(ctx, "version", func() (*port.EngineResponse, error) {
		return s.engine.Version(ctx)
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func (s *documentService) Parsers(ctx context.Context) ([]byte, error) {
	return s.capability(ctx, "parsers", func() (*port.EngineResponse, error) {
		return s.engine.Parsers(ctx)
	})
}

func (s *documentService) MimeTypes(ctx context.Context) ([]byte, error) {
	return s.capability(ctx, "mime-types", func() (*port.EngineResponse, error) {
		return s.engine.MimeTypes(ctx)
	})
}

// capability serves engine listings through the TTL cache. These change only
// when the engine itself is upgraded, so every replica may serve the cached
// copy while it is fresh.
func (s *documentService) capability(ctx context.Context, name string, call func() (*port.EngineResponse, error)) ([]byte, error) {
	if data, err := s.caps.Get(ctx, capabilityPrefix, name); err == nil {
		return data, nil
	}

	resp, err := s.callEngine(name, call)
	if err != nil {
		return nil, err
	}
	if err := s.caps.Set(ctx, capabilityPrefix, name, resp.Body, s.capsTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"capability": name,
			"error":      err.Error(),
		}).Warn("capability cache set failed")
	}
	return resp.Body, nil
}

// callEngine wraps one engine round trip with outcome classification and
// metrics. A non-200 response becomes an EngineStatusError so callers can
// branch on errors.Is alone.
func (s *documentService) callEngine(operation string, call func() (*port.EngineResponse, error)) (*port.EngineResponse, error) {
	resp, err := call()

	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrEngineTimeout):
		outcome = "timeout"
	case errors.Is(err, domain.ErrEngineUnavailable):
		outcome = "unavailable"
	case err != nil:
		outcome = "internal"
	case resp.Status != http.StatusOK:
		outcome = "error_status"
	}

	if s.metrics != nil {
		s.metrics.EngineRequestsTotal.WithLabelValues(operation, outcome).Inc()
		if resp != nil {
			s.metrics.EngineRequestDuration.WithLabelValues(operation).Observe(resp.Elapsed.Seconds())
		}
	}

	if err != nil {
		s.log.WithFields(logrus.Fields{
			"operation": operation,
			"outcome":   outcome,
		}).Error("engine call failed")
		return nil, err
	}
	if resp.Status != http.StatusOK {
		s.log.WithFields(logrus.Fields{
			"operation": operation,
			"status":    resp.Status,
			"body":      truncateRunes(string(resp.Body), 200),
		}).Error("engine returned error status")
		return nil, &domain.EngineStatusError{Status: resp.Status}
	}
	return resp, nil
}

func (s *documentService) countCache(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHitsTotal.Inc()
	} else {
		s.metrics.CacheMissesTotal.Inc()
	}
}

// decodeMetadata decodes the engine's metadata JSON, falling back to the raw
// body as a string when it does not parse.
func decodeMetadata(body []byte) interface{} {
	var decoded map[string]interface{}
	if err := json.Unmarshal(body, &decoded); err != nil {
		return string(body)
	}
	return decoded
}

func computeTextStats(text string) *domain.TextStats {
	return &domain.TextStats{
		Characters: utf8.RuneCountInString(text),
		Words:      len(strings.Fields(text)),
		Lines:      strings.Count(text, "\n") + 1,
	}
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
