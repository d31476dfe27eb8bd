// Package mocks provides in-memory implementations of the port
// interfaces so services and handlers can be tested without Postgres,
// redis, RabbitMQ or the verification service.
package mocks

import (
	"context"
	"sync"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
)

// MockAccountRepository keeps patients and doctors in separate maps,
// mirroring the two-collection layout, and enforces the per-collection
// unique email constraint the schema carries.
type MockAccountRepository struct {
	mu       sync.RWMutex
	accounts map[domain.Kind]map[string]*domain.Account // kind -> id -> account

	// Call tracking for verification
	CreateCalls      []domain.Account
	FindByEmailCalls []string

	// Error injection for testing error scenarios
	CreateError      error
	FindByEmailError error
	FindByIDError    error
	EmailExistsError error
	ListDoctorsError error
}

var _ ports.AccountRepository = (*MockAccountRepository)(nil)

func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: map[domain.Kind]map[string]*domain.Account{
			domain.KindPatient: {},
			domain.KindDoctor:  {},
		},
	}
}

// Seed adds an account directly, bypassing constraint checks.
func (m *MockAccountRepository) Seed(account domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accounts[account.Kind][account.ID] = &account
}

func (m *MockAccountRepository) Create(ctx context.Context, account domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreateCalls = append(m.CreateCalls, account)

	if m.CreateError != nil {
		return m.CreateError
	}

	for _, existing := range m.accounts[account.Kind] {
		if existing.Email == account.Email {
			return domain.NewConstraintError(errDuplicateEmail)
		}
	}

	m.accounts[account.Kind][account.ID] = &account
	return nil
}

func (m *MockAccountRepository) FindByEmail(ctx context.Context, kind domain.Kind, email string) (*domain.Account, error) {
	m.mu.Lock()
	m.FindByEmailCalls = append(m.FindByEmailCalls, email)
	m.mu.Unlock()

	if m.FindByEmailError != nil {
		return nil, m.FindByEmailError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, account := range m.accounts[kind] {
		if account.Email == email {
			copy := *account
			return &copy, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *MockAccountRepository) FindByID(ctx context.Context, kind domain.Kind, id string) (*domain.Account, error) {
	if m.FindByIDError != nil {
		return nil, m.FindByIDError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[kind][id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copy := *account
	return &copy, nil
}

func (m *MockAccountRepository) EmailExists(ctx context.Context, kind domain.Kind, email string) (bool, error) {
	if m.EmailExistsError != nil {
		return false, m.EmailExistsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, account := range m.accounts[kind] {
		if account.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockAccountRepository) ListDoctors(ctx context.Context) ([]domain.DoctorSummary, error) {
	if m.ListDoctorsError != nil {
		return nil, m.ListDoctorsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	doctors := []domain.DoctorSummary{}
	for _, account := range m.accounts[domain.KindDoctor] {
		doctors = append(doctors, domain.DoctorSummary{
			ID:             account.ID,
			Name:           account.Name,
			Specialisation: account.Specialisation,
		})
	}
	return doctors, nil
}
