package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCache is a mock implementation of port.Cache.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, prefix, key string) ([]byte, error) {
	args := m.Called(ctx, prefix, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, prefix, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, prefix, key, value, ttl)
	return args.Error(0)
}
