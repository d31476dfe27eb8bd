package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
)

type BookingService struct {
	bookings ports.BookingRepository
	accounts ports.AccountRepository
}

var _ ports.BookingService = (*BookingService)(nil)

func NewBookingService(bookings ports.BookingRepository, accounts ports.AccountRepository) *BookingService {
	return &BookingService{
		bookings: bookings,
		accounts: accounts,
	}
}

// TestTypes returns the fixed enumeration in declared order.
func (s *BookingService) TestTypes() []string {
	return domain.TestTypes
}

// CreateBooking validates the input and inserts a single booking row
// together with its outbox event. The doctor reference, when supplied,
// is stored as-is without an existence check; use CreateBookingStrict
// for the verified variant. No overlap or double-booking check exists:
// concurrent creates for the same patient, doctor or slot all succeed.
func (s *BookingService) CreateBooking(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	return s.create(ctx, in, false)
}

func (s *BookingService) CreateBookingStrict(ctx context.Context, in ports.CreateBookingInput) (*domain.Booking, error) {
	return s.create(ctx, in, true)
}

func (s *BookingService) create(ctx context.Context, in ports.CreateBookingInput, strict bool) (*domain.Booking, error) {
	if in.UserID == "" {
		return nil, domain.ErrMissingField
	}
	if in.Address == "" {
		return nil, domain.ErrMissingField
	}
	if in.TestType == "" {
		return nil, domain.ErrMissingField
	}
	if !domain.ValidTestType(in.TestType) {
		return nil, domain.ErrInvalidTestType
	}
	if in.AppointmentTime == "" {
		return nil, domain.ErrMissingField
	}
	appointmentTime, err := time.Parse(time.RFC3339, in.AppointmentTime)
	if err != nil {
		return nil, domain.ErrMissingField
	}

	var doctorID *string
	if in.DoctorID != "" {
		if strict {
			if _, err := s.accounts.FindByID(ctx, domain.KindDoctor, in.DoctorID); err != nil {
				return nil, err
			}
		}
		id := in.DoctorID
		doctorID = &id
	}

	booking := domain.Booking{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		DoctorID:        doctorID,
		Address:         in.Address,
		TestType:        in.TestType,
		AppointmentTime: appointmentTime.UTC(),
		CreatedAt:       time.Now().UTC(),
	}

	payload, err := json.Marshal(ports.BookingCreatedEvent{
		BookingID:       booking.ID,
		UserID:          booking.UserID,
		DoctorID:        booking.DoctorID,
		TestType:        booking.TestType,
		Address:         booking.Address,
		AppointmentTime: booking.AppointmentTime.Format(time.RFC3339),
	})
	if err != nil {
		return nil, err
	}

	if err := s.bookings.Create(ctx, booking, payload); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.FindByID(ctx, id)
}

func (s *BookingService) ListForPatient(ctx context.Context, userID string) ([]domain.Booking, error) {
	if userID == "" {
		return nil, domain.ErrMissingField
	}
	return s.bookings.ListForPatient(ctx, userID)
}

func (s *BookingService) ListForDoctor(ctx context.Context, doctorID string) ([]domain.Booking, error) {
	if doctorID == "" {
		return nil, domain.ErrMissingField
	}
	return s.bookings.ListForDoctor(ctx, doctorID)
}
