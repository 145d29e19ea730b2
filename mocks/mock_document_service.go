package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"tikagate/internal/domain"
	"tikagate/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) Parse(ctx context.Context, input service.ParseInput) (*domain.ParseResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParseResult), args.Error(1)
}

func (m *MockDocumentService) Detect(ctx context.Context, payload []byte) (*domain.DetectResult, error) {
	args := m.Called(ctx, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DetectResult), args.Error(1)
}

func (m *MockDocumentService) Language(ctx context.Context, payload []byte, contentType string) (*domain.LanguageResult, error) {
	args := m.Called(ctx, payload, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LanguageResult), args.Error(1)
}

func (m *MockDocumentService) Analyze(ctx context.Context, payload []byte, contentType string) (*domain.AnalysisResult, error) {
	args := m.Called(ctx, payload, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AnalysisResult), args.Error(1)
}

func (m *MockDocumentService) EngineVersion(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentService) Parsers(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockDocumentService) MimeTypes(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
