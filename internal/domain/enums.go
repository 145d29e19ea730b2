package domain

// ServiceState tracks the document engine's readiness lifecycle. It starts at
// StateStarting and transitions exactly once: to StateReady on the first
// successful liveness probe, or to StateFailed once the probe budget is
// exhausted. There is no transition out of StateReady.
type ServiceState int32

const (
	StateStarting ServiceState = iota
	StateReady
	StateFailed
)

// String returns the lowercase state name.
func (s ServiceState) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// HealthLabel returns the status label reported by the health endpoint.
func (s ServiceState) HealthLabel() string {
	switch s {
	case StateReady:
		return "healthy"
	case StateFailed:
		return "unhealthy"
	default:
		return "starting"
	}
}

// OutputFormat selects the shape of a parse response.
type OutputFormat string

const (
	FormatText     OutputFormat = "text"
	FormatHTML     OutputFormat = "html"
	FormatMetadata OutputFormat = "metadata"
)

// ParseOutputFormat maps a raw format query value to an OutputFormat.
// Empty or unrecognized values fall back to plain text extraction.
func ParseOutputFormat(raw string) OutputFormat {
	switch OutputFormat(raw) {
	case FormatHTML:
		return FormatHTML
	case FormatMetadata:
		return FormatMetadata
	default:
		return FormatText
	}
}
