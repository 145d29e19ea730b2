package domain

import (
	"errors"
	"fmt"
)

var (
	ErrMissingAPIKey     = errors.New("missing API key")
	ErrInvalidAPIKey     = errors.New("invalid API key")
	ErrEmptyPayload      = errors.New("no document data provided")
	ErrPayloadTooLarge   = errors.New("document exceeds maximum allowed size")
	ErrEngineNotReady    = errors.New("document engine is not ready")
	ErrEngineUnavailable = errors.New("document engine unavailable")
	ErrEngineTimeout     = errors.New("document engine call timed out")
	ErrEngineFailed      = errors.New("document engine returned an error status")
)

// EngineStatusError reports a non-success HTTP status from the engine. It
// matches ErrEngineFailed under errors.Is while keeping the status code
// available for the response message.
type EngineStatusError struct {
	Status int
}

func (e *EngineStatusError) Error() string {
	return fmt.Sprintf("engine returned status %d", e.Status)
}

func (e *EngineStatusError) Unwrap() error {
	return ErrEngineFailed
}

// PayloadTooLargeError reports a payload over the configured size cap. It
// matches ErrPayloadTooLarge under errors.Is while keeping the cap available
// for the response message.
type PayloadTooLargeError struct {
	LimitMB int64
}

func (e *PayloadTooLargeError) Error() string {
	return fmt.Sprintf("payload exceeds %d MB cap", e.LimitMB)
}

func (e *PayloadTooLargeError) Unwrap() error {
	return ErrPayloadTooLarge
}

// EngineNotReadyError reports a request rejected before the engine reached
// Ready. It matches ErrEngineNotReady under errors.Is while keeping the
// observed state available for the response message.
type EngineNotReadyError struct {
	State ServiceState
}

func (e *EngineNotReadyError) Error() string {
	return fmt.Sprintf("document engine is not ready: %s", e.State)
}

func (e *EngineNotReadyError) Unwrap() error {
	return ErrEngineNotReady
}

// EngineFailureMessage returns the client-facing description of a failed
// engine call. Error responses and analyze degradation fields share it, so
// the same failure reads the same everywhere.
func EngineFailureMessage(err error) string {
	var statusErr *EngineStatusError
	switch {
	case errors.Is(err, ErrEngineTimeout):
		return "Document processing timeout. File may be too large or complex."
	case errors.Is(err, ErrEngineUnavailable):
		return "Tika server unavailable"
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Tika processing failed: %d", statusErr.Status)
	case errors.Is(err, ErrEngineFailed):
		return "Tika processing failed"
	default:
		return "An unexpected error occurred"
	}
}
