package mocks

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
)

var errDuplicateEmail = errors.New("duplicate key value violates unique constraint")

// MockBookingRepository stores bookings in memory and reproduces the
// real repository's list contract: appointment_time ascending with
// created_at then id as tiebreaks, counterpart summaries joined in from
// the account repository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings []domain.Booking
	accounts *MockAccountRepository

	CreateCalls    []domain.Booking
	OutboxPayloads [][]byte

	CreateError error
	ListError   error
}

var _ ports.BookingRepository = (*MockBookingRepository)(nil)

func NewMockBookingRepository(accounts *MockAccountRepository) *MockBookingRepository {
	return &MockBookingRepository{accounts: accounts}
}

// Seed adds a booking directly, bypassing the outbox.
func (m *MockBookingRepository) Seed(booking domain.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bookings = append(m.bookings, booking)
}

func (m *MockBookingRepository) Create(ctx context.Context, booking domain.Booking, outboxPayload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, booking)

	if m.CreateError != nil {
		return m.CreateError
	}

	m.bookings = append(m.bookings, booking)
	m.OutboxPayloads = append(m.OutboxPayloads, outboxPayload)
	return nil
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, b := range m.bookings {
		if b.ID == id {
			enriched := b
			enriched.Doctor = m.doctorSummary(b.DoctorID)
			enriched.Patient = m.patientSummary(b.UserID)
			return &enriched, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockBookingRepository) ListForPatient(ctx context.Context, userID string) ([]domain.Booking, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []domain.Booking{}
	for _, b := range m.bookings {
		if b.UserID == userID {
			b.Doctor = m.doctorSummary(b.DoctorID)
			out = append(out, b)
		}
	}
	sortBookings(out)
	return out, nil
}

func (m *MockBookingRepository) ListForDoctor(ctx context.Context, doctorID string) ([]domain.Booking, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []domain.Booking{}
	for _, b := range m.bookings {
		if b.DoctorID != nil && *b.DoctorID == doctorID {
			b.Patient = m.patientSummary(b.UserID)
			out = append(out, b)
		}
	}
	sortBookings(out)
	return out, nil
}

func sortBookings(bookings []domain.Booking) {
	sort.SliceStable(bookings, func(i, j int) bool {
		a, b := bookings[i], bookings[j]
		if !a.AppointmentTime.Equal(b.AppointmentTime) {
			return a.AppointmentTime.Before(b.AppointmentTime)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}

func (m *MockBookingRepository) doctorSummary(doctorID *string) *domain.DoctorSummary {
	if doctorID == nil || m.accounts == nil {
		return nil
	}
	account, err := m.accounts.FindByID(context.Background(), domain.KindDoctor, *doctorID)
	if err != nil {
		return nil
	}
	return &domain.DoctorSummary{
		ID:             account.ID,
		Name:           account.Name,
		Specialisation: account.Specialisation,
	}
}

func (m *MockBookingRepository) patientSummary(userID string) *domain.PatientSummary {
	if m.accounts == nil {
		return nil
	}
	account, err := m.accounts.FindByID(context.Background(), domain.KindPatient, userID)
	if err != nil {
		return nil
	}
	return &domain.PatientSummary{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
		Phone: account.Phone,
	}
}
