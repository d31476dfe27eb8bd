package outbox_test

import (
	"testing"

	"github.com/telehealth-companion/booking-service/internal/adapters/outbox"
	"github.com/telehealth-companion/booking-service/test/mocks"
)

func TestRelay_HealthContract(t *testing.T) {
	relay := outbox.NewRelay(nil, "postgres://localhost/ignored", mocks.NewMockPublisher())

	// Fresh relay: alive and ready until the listener loop reports
	// otherwise or the breaker opens.
	if !relay.IsHealthy() {
		t.Error("expected a fresh relay to report healthy")
	}
	if !relay.IsReady() {
		t.Error("expected a fresh relay to report ready")
	}
}
