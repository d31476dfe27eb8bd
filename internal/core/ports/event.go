package ports

import (
	"context"
)

// BookingCreatedEventType is the event_type written to the outbox row
// and matched by the relay.
const BookingCreatedEventType = "booking.created"

type BookingCreatedEvent struct {
	BookingID       string  `json:"booking_id"`
	UserID          string  `json:"user_id"`
	DoctorID        *string `json:"doctor_id"`
	TestType        string  `json:"test_type"`
	Address         string  `json:"address"`
	AppointmentTime string  `json:"appointment_time"`
}

type BookingEventPublisher interface {
	PublishBookingCreated(ctx context.Context, evt BookingCreatedEvent) error
}
