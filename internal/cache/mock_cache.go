package cache

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockCache is a mock implementation of Cache using testify/mock.
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Lookup(ctx context.Context, key string) (Entry, bool, error) {
	args := m.Called(ctx, key)
	return args.Get(0).(Entry), args.Bool(1), args.Error(2)
}

func (m *MockCache) Store(ctx context.Context, key string, e Entry, ttl time.Duration) error {
	return m.Called(ctx, key, e, ttl).Error(0)
}

func (m *MockCache) Close() error {
	return m.Called().Error(0)
}
