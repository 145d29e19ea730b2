package tika

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"tikagate/internal/config"
	"tikagate/internal/domain"
	"tikagate/internal/port"
)

// Engine endpoint paths, fixed by the Tika server API.
const (
	extractPath   = "/tika"
	metadataPath  = "/meta"
	detectPath    = "/detect/stream"
	languagePath  = "/language/string"
	versionPath   = "/version"
	parsersPath   = "/parsers"
	mimeTypesPath = "/mime-types"
)

const defaultContentType = "application/octet-stream"

// Client implements port.DocumentEngine against a Tika server over HTTP.
// Every call carries its own deadline from the per-operation budgets in
// TikaConfig; the underlying http.Client has no global timeout. The client
// performs no retries; retry policy belongs to the readiness monitor.
type Client struct {
	baseURL string
	cfg     config.TikaConfig
	client  *http.Client
	log     *logrus.Entry
}

// NewClient creates a client for the engine address in cfg.
func NewClient(cfg *config.TikaConfig, log *logrus.Entry) *Client {
	return NewClientWithBaseURL(cfg, cfg.BaseURL(), log)
}

// NewClientWithBaseURL creates a client pointing at a custom base URL
// (for testing).
func NewClientWithBaseURL(cfg *config.TikaConfig, baseURL string, log *logrus.Entry) *Client {
	c := *cfg
	if c.ProbeTimeout == 0 {
		c.ProbeTimeout = 2 * time.Second
	}
	if c.ParseTimeout == 0 {
		c.ParseTimeout = 60 * time.Second
	}
	if c.DetectTimeout == 0 {
		c.DetectTimeout = 30 * time.Second
	}
	if c.LanguageTimeout == 0 {
		c.LanguageTimeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		cfg:     c,
		client:  &http.Client{},
		log:     log,
	}
}

// Probe performs a bounded liveness call against the engine's version
// endpoint. It reports success only for a 200 response and never returns an
// error to the caller.
func (c *Client) Probe(ctx context.Context) bool {
	resp, err := c.get(ctx, versionPath, "text/plain", c.cfg.ProbeTimeout)
	if err != nil {
		c.log.WithField("error", err.Error()).Debug("engine probe failed")
		return false
	}
	return resp.Status == http.StatusOK
}

// Extract forwards the payload to the engine's extraction endpoint. The
// accept header selects plain-text or HTML output; the payload bytes are
// forwarded unchanged.
func (c *Client) Extract(ctx context.Context, payload []byte, contentType, accept string) (*port.EngineResponse, error) {
	return c.put(ctx, extractPath, payload, contentType, accept, c.cfg.ParseTimeout)
}

// Metadata forwards the payload to the engine's metadata endpoint.
func (c *Client) Metadata(ctx context.Context, payload []byte, contentType string) (*port.EngineResponse, error) {
	return c.put(ctx, metadataPath, payload, contentType, "application/json", c.cfg.ParseTimeout)
}

// DetectType streams the payload to the engine's MIME detector. The content
// type is forced to octet-stream so detection runs on the bytes alone.
func (c *Client) DetectType(ctx context.Context, payload []byte) (*port.EngineResponse, error) {
	return c.put(ctx, detectPath, payload, defaultContentType, "text/plain", c.cfg.DetectTimeout)
}

// DetectLanguage sends already-extracted text to the engine's language
// detector.
func (c *Client) DetectLanguage(ctx context.Context, text string) (*port.EngineResponse, error) {
	return c.put(ctx, languagePath, []byte(text), "text/plain", "text/plain", c.cfg.LanguageTimeout)
}

// Version fetches the engine's version banner.
func (c *Client) Version(ctx context.Context) (*port.EngineResponse, error) {
	return c.get(ctx, versionPath, "text/plain", c.cfg.ProbeTimeout)
}

// Parsers fetches the engine's parser listing.
func (c *Client) Parsers(ctx context.Context) (*port.EngineResponse, error) {
	return c.get(ctx, parsersPath, "application/json", c.cfg.DetectTimeout)
}

// MimeTypes fetches the engine's MIME type listing.
func (c *Client) MimeTypes(ctx context.Context) (*port.EngineResponse, error) {
	return c.get(ctx, mimeTypesPath, "application/json", c.cfg.DetectTimeout)
}

func (c *Client) put(ctx context.Context, path string, payload []byte, contentType, accept string, timeout time.Duration) (*port.EngineResponse, error) {
	if contentType == "" {
		contentType = defaultContentType
	}
	return c.do(ctx, http.MethodPut, path, payload, contentType, accept, timeout)
}

func (c *Client) get(ctx context.Context, path, accept string, timeout time.Duration) (*port.EngineResponse, error) {
	return c.do(ctx, http.MethodGet, path, nil, "", accept, timeout)
}

// do performs a single blocking engine call. Timeouts map to
// domain.ErrEngineTimeout, transport failures to domain.ErrEngineUnavailable;
// any HTTP response, success or not, is returned to the caller untouched.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, contentType, accept string, timeout time.Duration) (*port.EngineResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(callCtx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("building engine request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		elapsed := time.Since(start)
		if callCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%s %s exceeded %s budget: %w", method, path, timeout, domain.ErrEngineTimeout)
		}
		return nil, fmt.Errorf("%s %s after %s: %v: %w", method, path, elapsed.Round(time.Millisecond), err, domain.ErrEngineUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%s %s response exceeded %s budget: %w", method, path, timeout, domain.ErrEngineTimeout)
		}
		return nil, fmt.Errorf("reading engine response for %s %s: %v: %w", method, path, err, domain.ErrEngineUnavailable)
	}

	return &port.EngineResponse{
		Status:  resp.StatusCode,
		Body:    respBody,
		Elapsed: time.Since(start),
	}, nil
}
