package mocks

import (
	"context"
	"sync"

	"github.com/telehealth-companion/booking-service/internal/core/ports"
)

// MockPublisher records booking events instead of talking to RabbitMQ.
type MockPublisher struct {
	mu        sync.Mutex
	Published []ports.BookingCreatedEvent

	PublishError error
}

var _ ports.BookingEventPublisher = (*MockPublisher)(nil)

func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) PublishBookingCreated(ctx context.Context, evt ports.BookingCreatedEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PublishError != nil {
		return m.PublishError
	}
	m.Published = append(m.Published, evt)
	return nil
}
