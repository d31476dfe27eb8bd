package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/telehealth-companion/booking-service/internal/core/ports"
)

// MockTokenStore is an in-memory denylist.
type MockTokenStore struct {
	mu     sync.RWMutex
	denied map[string]time.Time

	DenyError     error
	IsDeniedError error
}

var _ ports.TokenStore = (*MockTokenStore)(nil)

func NewMockTokenStore() *MockTokenStore {
	return &MockTokenStore{denied: make(map[string]time.Time)}
}

func (m *MockTokenStore) Deny(ctx context.Context, tokenHash string, ttl time.Duration) error {
	if m.DenyError != nil {
		return m.DenyError
	}
	if ttl <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.denied[tokenHash] = time.Now().Add(ttl)
	return nil
}

func (m *MockTokenStore) IsDenied(ctx context.Context, tokenHash string) (bool, error) {
	if m.IsDeniedError != nil {
		return false, m.IsDeniedError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	expiry, ok := m.denied[tokenHash]
	return ok && time.Now().Before(expiry), nil
}
