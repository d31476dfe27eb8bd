package ports

import (
	"context"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
)

type RegisterPatientInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type RegisterDoctorInput struct {
	Name           string
	Email          string
	Phone          string
	Specialisation string
	Password       string
}

type EmailCheck struct {
	Exists bool
	Kind   domain.Kind
}

type AccountService interface {
	RegisterPatient(ctx context.Context, in RegisterPatientInput) (*domain.Account, error)
	RegisterDoctor(ctx context.Context, in RegisterDoctorInput) (*domain.Account, error)
	// Authenticate returns the account (password cleared) and a signed
	// session token, or domain.ErrAuthFailure.
	Authenticate(ctx context.Context, kind domain.Kind, email, password string) (*domain.Account, string, error)
	LookupEmail(ctx context.Context, email string) (EmailCheck, error)
	ListDoctors(ctx context.Context) ([]domain.DoctorSummary, error)
	GetAccount(ctx context.Context, kind domain.Kind, id string) (*domain.Account, error)
}

type CreateBookingInput struct {
	UserID          string
	DoctorID        string // empty means no preference
	Address         string
	TestType        string
	AppointmentTime string
}

type BookingService interface {
	TestTypes() []string
	CreateBooking(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	// CreateBookingStrict additionally verifies the doctor reference
	// exists before inserting.
	CreateBookingStrict(ctx context.Context, in CreateBookingInput) (*domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.Booking, error)
	ListForPatient(ctx context.Context, userID string) ([]domain.Booking, error)
	ListForDoctor(ctx context.Context, doctorID string) ([]domain.Booking, error)
}

// BotVerifier checks a challenge token with the external verification
// service before any mutating operation touches the store.
type BotVerifier interface {
	Verify(ctx context.Context, token string) error
}
