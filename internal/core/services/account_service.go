package services

import (
	"context"
	"crypto/rsa"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
)

const sessionTTL = 24 * time.Hour

// CredentialVerifier compares a supplied password against the stored
// credential. The store holds plaintext passwords for compatibility with
// existing rows; keeping the comparison behind this interface lets a
// hashed scheme replace it without touching the rest of the contract.
type CredentialVerifier interface {
	Verify(stored, supplied string) bool
}

// PlaintextVerifier is the compatibility default: byte-for-byte equality.
type PlaintextVerifier struct{}

func (PlaintextVerifier) Verify(stored, supplied string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}

type AccountService struct {
	accounts   ports.AccountRepository
	verifier   CredentialVerifier
	privateKey *rsa.PrivateKey
}

var _ ports.AccountService = (*AccountService)(nil)

func NewAccountService(accounts ports.AccountRepository, verifier CredentialVerifier, privateKey *rsa.PrivateKey) *AccountService {
	return &AccountService{
		accounts:   accounts,
		verifier:   verifier,
		privateKey: privateKey,
	}
}

func (s *AccountService) RegisterPatient(ctx context.Context, in ports.RegisterPatientInput) (*domain.Account, error) {
	account := domain.Account{
		ID:        uuid.NewString(),
		Kind:      domain.KindPatient,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Password:  in.Password,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AccountService) RegisterDoctor(ctx context.Context, in ports.RegisterDoctorInput) (*domain.Account, error) {
	account := domain.Account{
		ID:             uuid.NewString(),
		Kind:           domain.KindDoctor,
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		Specialisation: in.Specialisation,
		Password:       in.Password,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return &account, nil
}

// Authenticate looks up the email within one collection and checks the
// password. A missing row and a wrong password both come back as
// domain.ErrAuthFailure; only genuine store faults surface as errors.
func (s *AccountService) Authenticate(ctx context.Context, kind domain.Kind, email, password string) (*domain.Account, string, error) {
	account, err := s.accounts.FindByEmail(ctx, kind, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrAuthFailure
		}
		return nil, "", err
	}

	if !s.verifier.Verify(account.Password, password) {
		return nil, "", domain.ErrAuthFailure
	}

	token, err := s.issueToken(account)
	if err != nil {
		return nil, "", err
	}

	account.Password = ""
	return account, token, nil
}

func (s *AccountService) issueToken(account *domain.Account) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  account.ID,
		"role": string(account.Kind),
		"iat":  now.Unix(),
		"exp":  now.Add(sessionTTL).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(s.privateKey)
}

// LookupEmail checks the patient collection first, then doctors, and
// reports the first match. Signup forms use it as a friendly pre-check;
// the table constraints remain authoritative.
func (s *AccountService) LookupEmail(ctx context.Context, email string) (ports.EmailCheck, error) {
	exists, err := s.accounts.EmailExists(ctx, domain.KindPatient, email)
	if err != nil {
		return ports.EmailCheck{}, err
	}
	if exists {
		return ports.EmailCheck{Exists: true, Kind: domain.KindPatient}, nil
	}

	exists, err = s.accounts.EmailExists(ctx, domain.KindDoctor, email)
	if err != nil {
		return ports.EmailCheck{}, err
	}
	if exists {
		return ports.EmailCheck{Exists: true, Kind: domain.KindDoctor}, nil
	}
	return ports.EmailCheck{}, nil
}

func (s *AccountService) ListDoctors(ctx context.Context) ([]domain.DoctorSummary, error) {
	return s.accounts.ListDoctors(ctx)
}

func (s *AccountService) GetAccount(ctx context.Context, kind domain.Kind, id string) (*domain.Account, error) {
	account, err := s.accounts.FindByID(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	account.Password = ""
	return account, nil
}
