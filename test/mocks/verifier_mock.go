package mocks

import (
	"context"
	"sync"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
)

// MockBotVerifier accepts every token by default; set Reject to refuse
// them all, or RejectToken to refuse one specific value.
type MockBotVerifier struct {
	mu          sync.Mutex
	Reject      bool
	RejectToken string

	VerifyCalls []string
}

var _ ports.BotVerifier = (*MockBotVerifier)(nil)

func NewMockBotVerifier() *MockBotVerifier {
	return &MockBotVerifier{}
}

func (m *MockBotVerifier) Verify(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.VerifyCalls = append(m.VerifyCalls, token)

	if token == "" || m.Reject || (m.RejectToken != "" && token == m.RejectToken) {
		return domain.ErrVerificationFailed
	}
	return nil
}
