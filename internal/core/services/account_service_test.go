package services_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v5"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
	"github.com/telehealth-companion/booking-service/internal/core/services"
	"github.com/telehealth-companion/booking-service/test/mocks"
)

func testKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}
	return key
}

func newAccountService(t *testing.T) (*services.AccountService, *mocks.MockAccountRepository, *rsa.PrivateKey) {
	t.Helper()
	repo := mocks.NewMockAccountRepository()
	key := testKey(t)
	return services.NewAccountService(repo, services.PlaintextVerifier{}, key), repo, key
}

func TestRegisterPatient_EchoesInput(t *testing.T) {
	svc, repo, _ := newAccountService(t)

	account, err := svc.RegisterPatient(context.Background(), ports.RegisterPatientInput{
		Name:     "Alice",
		Email:    "alice@x.com",
		Phone:    "555-1111",
		Password: "pw1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if account.ID == "" {
		t.Error("expected a generated id")
	}
	if account.Kind != domain.KindPatient {
		t.Errorf("expected kind PATIENT, got %s", account.Kind)
	}
	if account.Name != "Alice" || account.Email != "alice@x.com" || account.Phone != "555-1111" {
		t.Errorf("input fields not echoed: %+v", account)
	}
	if account.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
	if len(repo.CreateCalls) != 1 {
		t.Errorf("expected 1 Create call, got %d", len(repo.CreateCalls))
	}

	second, err := svc.RegisterPatient(context.Background(), ports.RegisterPatientInput{
		Name: "Bob", Email: "bob@x.com", Phone: "555-2222", Password: "pw2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.ID == account.ID {
		t.Error("expected unique identifiers")
	}
}

func TestRegisterDoctor_CarriesSpecialisation(t *testing.T) {
	svc, _, _ := newAccountService(t)

	account, err := svc.RegisterDoctor(context.Background(), ports.RegisterDoctorInput{
		Name:           "Dr. Grey",
		Email:          "grey@clinic.com",
		Phone:          "555-9999",
		Specialisation: "Cardiology",
		Password:       "secret",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Kind != domain.KindDoctor {
		t.Errorf("expected kind DOCTOR, got %s", account.Kind)
	}
	if account.Specialisation != "Cardiology" {
		t.Errorf("expected specialisation to be stored, got %q", account.Specialisation)
	}
}

func TestRegisterPatient_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAccountService(t)
	ctx := context.Background()

	in := ports.RegisterPatientInput{Name: "Alice", Email: "alice@x.com", Phone: "555-1111", Password: "pw1"}
	if _, err := svc.RegisterPatient(ctx, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := svc.RegisterPatient(ctx, in)
	var storeErr *domain.StoreError
	if !errors.As(err, &storeErr) || !storeErr.Constraint {
		t.Fatalf("expected constraint violation, got %v", err)
	}
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name     string
		kind     domain.Kind
		email    string
		password string
		wantErr  error
	}{
		{
			name:     "valid_patient_credentials",
			kind:     domain.KindPatient,
			email:    "alice@x.com",
			password: "pw1",
		},
		{
			name:     "wrong_password",
			kind:     domain.KindPatient,
			email:    "alice@x.com",
			password: "wrong",
			wantErr:  domain.ErrAuthFailure,
		},
		{
			name:     "unknown_email_is_auth_failure_not_store_error",
			kind:     domain.KindPatient,
			email:    "nobody@x.com",
			password: "pw1",
			wantErr:  domain.ErrAuthFailure,
		},
		{
			name:     "patient_email_does_not_match_in_doctor_collection",
			kind:     domain.KindDoctor,
			email:    "alice@x.com",
			password: "pw1",
			wantErr:  domain.ErrAuthFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, key := newAccountService(t)
			repo.Seed(domain.Account{
				ID: "patient-1", Kind: domain.KindPatient,
				Name: "Alice", Email: "alice@x.com", Phone: "555-1111", Password: "pw1",
			})

			account, token, err := svc.Authenticate(context.Background(), tt.kind, tt.email, tt.password)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if account.Password != "" {
				t.Error("expected password to be stripped from the returned account")
			}

			parsed, err := jwt.Parse(token, func(tok *jwt.Token) (any, error) {
				return &key.PublicKey, nil
			})
			if err != nil || !parsed.Valid {
				t.Fatalf("expected a verifiable session token: %v", err)
			}
			claims := parsed.Claims.(jwt.MapClaims)
			if claims["sub"] != "patient-1" {
				t.Errorf("expected sub patient-1, got %v", claims["sub"])
			}
			if claims["role"] != string(domain.KindPatient) {
				t.Errorf("expected role PATIENT, got %v", claims["role"])
			}
		})
	}
}

func TestLookupEmail(t *testing.T) {
	svc, repo, _ := newAccountService(t)
	repo.Seed(domain.Account{ID: "p1", Kind: domain.KindPatient, Email: "both@x.com"})
	repo.Seed(domain.Account{ID: "d1", Kind: domain.KindDoctor, Email: "both@x.com"})
	repo.Seed(domain.Account{ID: "d2", Kind: domain.KindDoctor, Email: "doc@x.com"})

	tests := []struct {
		name       string
		email      string
		wantExists bool
		wantKind   domain.Kind
	}{
		{"email_in_both_reports_patient_first", "both@x.com", true, domain.KindPatient},
		{"doctor_only_email", "doc@x.com", true, domain.KindDoctor},
		{"unknown_email", "nobody@x.com", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check, err := svc.LookupEmail(context.Background(), tt.email)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if check.Exists != tt.wantExists || check.Kind != tt.wantKind {
				t.Errorf("got %+v, want exists=%v kind=%s", check, tt.wantExists, tt.wantKind)
			}
		})
	}
}

func TestGetAccount_StripsPassword(t *testing.T) {
	svc, repo, _ := newAccountService(t)
	repo.Seed(domain.Account{ID: "d1", Kind: domain.KindDoctor, Name: "Dr. Grey", Password: "secret"})

	account, err := svc.GetAccount(context.Background(), domain.KindDoctor, "d1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Password != "" {
		t.Error("expected password to be stripped")
	}

	if _, err := svc.GetAccount(context.Background(), domain.KindDoctor, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
