package port

import (
	"context"
	"time"
)

// EngineResponse is the outcome of a single forwarded engine call that
// produced an HTTP response, successful or not. Elapsed covers only the
// round trip to the engine.
type EngineResponse struct {
	Status  int
	Body    []byte
	Elapsed time.Duration
}

// DocumentEngine abstracts the backend document engine. Implementations must
// distinguish three failure modes for every forwarding call: a call that
// exceeded its timeout budget returns an error wrapping
// domain.ErrEngineTimeout; an unreachable engine returns an error wrapping
// domain.ErrEngineUnavailable; an engine that responded at all, with any
// status, returns (*EngineResponse, nil) and leaves status handling to the
// caller. Probe never returns an error: it reports liveness as a bare bool.
type DocumentEngine interface {
	// Probe performs a bounded liveness check.
	Probe(ctx context.Context) bool

	// Extract runs text extraction over the payload. The accept parameter
	// selects plain-text or HTML output.
	Extract(ctx context.Context, payload []byte, contentType, accept string) (*EngineResponse, error)

	// Metadata fetches the document's metadata as JSON.
	Metadata(ctx context.Context, payload []byte, contentType string) (*EngineResponse, error)

	// DetectType streams the payload to the engine's MIME detector.
	DetectType(ctx context.Context, payload []byte) (*EngineResponse, error)

	// DetectLanguage identifies the language of already-extracted text.
	DetectLanguage(ctx context.Context, text string) (*EngineResponse, error)

	// Version reports the engine's version string.
	Version(ctx context.Context) (*EngineResponse, error)

	// Parsers lists the engine's available parsers.
	Parsers(ctx context.Context) (*EngineResponse, error)

	// MimeTypes lists the MIME types the engine understands.
	MimeTypes(ctx context.Context) (*EngineResponse, error)
}
