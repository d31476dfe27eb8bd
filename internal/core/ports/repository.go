package ports

import (
	"context"
	"time"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
)

type AccountRepository interface {
	// Create inserts the account into the collection matching its Kind.
	Create(ctx context.Context, account domain.Account) error
	// FindByEmail returns the stored row including the password, or
	// domain.ErrNotFound when no row matches.
	FindByEmail(ctx context.Context, kind domain.Kind, email string) (*domain.Account, error)
	FindByID(ctx context.Context, kind domain.Kind, id string) (*domain.Account, error)
	// EmailExists reports whether the email is taken in the given
	// collection. Best-effort pre-flight only; the unique constraint on
	// the table is the source of truth.
	EmailExists(ctx context.Context, kind domain.Kind, email string) (bool, error)
	ListDoctors(ctx context.Context) ([]domain.DoctorSummary, error)
}

type BookingRepository interface {
	// Create inserts the booking and its outbox event in one transaction.
	Create(ctx context.Context, booking domain.Booking, outboxPayload []byte) error
	FindByID(ctx context.Context, id string) (*domain.Booking, error)
	// ListForPatient returns the patient's bookings with the doctor
	// summary joined in, appointment_time ascending.
	ListForPatient(ctx context.Context, userID string) ([]domain.Booking, error)
	// ListForDoctor is the symmetric view with the patient joined in.
	ListForDoctor(ctx context.Context, doctorID string) ([]domain.Booking, error)
}

// TokenStore tracks revoked session tokens until they would have expired.
type TokenStore interface {
	Deny(ctx context.Context, tokenHash string, ttl time.Duration) error
	IsDenied(ctx context.Context, tokenHash string) (bool, error)
}
