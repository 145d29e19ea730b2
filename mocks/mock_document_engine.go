package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tikagate/internal/port"
)

// MockDocumentEngine is a mock implementation of port.DocumentEngine.
type MockDocumentEngine struct {
	mock.Mock
}

func (m *MockDocumentEngine) Probe(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockDocumentEngine) Extract(ctx context.Context, payload []byte, contentType, accept string) (*port.EngineResponse, error) {
	args := m.Called(ctx, payload, contentType, accept)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.EngineResponse), args.Error(1)
}

func (m *MockDocumentEngine) Metadata(ctx context.Context, payload []byte, contentType string) (*port.EngineResponse, error) {
	args := m.Called(ctx, payload, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.EngineResponse), args.Error(1)
}

func (m *MockDocumentEngine) DetectType(ctx context.Context, payload []byte) (*port.EngineResponse, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.EngineResponse), args.Error(1)
}

func (m *MockDocumentEngine) DetectLanguage(ctx context.Context, text string) (*port.EngineResponse, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.EngineResponse), args.Error(1)
}

func (m *MockDocumentEngine) Version(ctx context.Context) (*port.EngineResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.EngineResponse), args.Error(1)
}

func (m *MockDocumentEngine) Parsers(ctx context.Context) (*port.EngineResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.EngineResponse), args.Error(1)
}

func (m *MockDocumentEngine) MimeTypes(ctx context.Context) (*port.EngineResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.EngineResponse), args.Error(1)
}
