package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
	"github.com/telehealth-companion/booking-service/internal/core/services"
	"github.com/telehealth-companion/booking-service/test/mocks"
)

func newBookingService() (*services.BookingService, *mocks.MockBookingRepository, *mocks.MockAccountRepository) {
	accounts := mocks.NewMockAccountRepository()
	bookings := mocks.NewMockBookingRepository(accounts)
	return services.NewBookingService(bookings, accounts), bookings, accounts
}

func TestTestTypes_FixedEnumeration(t *testing.T) {
	svc, _, _ := newBookingService()

	want := []string{"Urine", "Blood", "Blood pressure", "Vaccination", "General consultation", "General checkup"}
	got := svc.TestTypes()
	if len(got) != len(want) {
		t.Fatalf("expected %d test types, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("test type %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestCreateBooking_Validation(t *testing.T) {
	valid := ports.CreateBookingInput{
		UserID:          "patient-1",
		Address:         "12 Main St",
		TestType:        "Blood",
		AppointmentTime: "2025-01-02T09:00:00Z",
	}

	tests := []struct {
		name    string
		mutate  func(*ports.CreateBookingInput)
		wantErr error
	}{
		{"missing_patient_id", func(in *ports.CreateBookingInput) { in.UserID = "" }, domain.ErrMissingField},
		{"missing_address", func(in *ports.CreateBookingInput) { in.Address = "" }, domain.ErrMissingField},
		{"missing_test_type", func(in *ports.CreateBookingInput) { in.TestType = "" }, domain.ErrMissingField},
		{"unknown_test_type", func(in *ports.CreateBookingInput) { in.TestType = "Xray" }, domain.ErrInvalidTestType},
		{"missing_appointment_time", func(in *ports.CreateBookingInput) { in.AppointmentTime = "" }, domain.ErrMissingField},
		{"unparseable_appointment_time", func(in *ports.CreateBookingInput) { in.AppointmentTime = "tomorrow" }, domain.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newBookingService()

			in := valid
			tt.mutate(&in)

			_, err := svc.CreateBooking(context.Background(), in)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if len(repo.CreateCalls) != 0 {
				t.Error("expected no insert on rejected input")
			}
		})
	}
}

func TestCreateBooking_NoDoctorPreference(t *testing.T) {
	svc, _, _ := newBookingService()

	booking, err := svc.CreateBooking(context.Background(), ports.CreateBookingInput{
		UserID:          "patient-1",
		Address:         "12 Main St",
		TestType:        "Blood",
		AppointmentTime: "2025-01-02T09:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.DoctorID != nil {
		t.Errorf("expected nil doctor reference, got %v", *booking.DoctorID)
	}

	listed, err := svc.ListForPatient(context.Background(), "patient-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(listed))
	}
	if listed[0].Doctor != nil {
		t.Errorf("expected no doctor enrichment, got %+v", listed[0].Doctor)
	}
}

func TestCreateBooking_AppointmentTimeRoundTrip(t *testing.T) {
	svc, _, _ := newBookingService()

	booking, err := svc.CreateBooking(context.Background(), ports.CreateBookingInput{
		UserID:          "patient-1",
		Address:         "12 Main St",
		TestType:        "Vaccination",
		AppointmentTime: "2025-06-15T14:30:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	listed, err := svc.ListForPatient(context.Background(), "patient-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := listed[0].AppointmentTime.Format(time.RFC3339)
	if got != "2025-06-15T14:30:00Z" {
		t.Errorf("appointment time shifted: got %s", got)
	}
	if !listed[0].AppointmentTime.Equal(booking.AppointmentTime) {
		t.Error("listed appointment time differs from created")
	}
}

func TestListForPatient_OrderedByAppointmentTime(t *testing.T) {
	svc, _, _ := newBookingService()
	ctx := context.Background()

	// Inserted T2, T1, T3; expect T1, T2, T3 back.
	for _, at := range []string{"2025-03-02T09:00:00Z", "2025-03-01T09:00:00Z", "2025-03-03T09:00:00Z"} {
		it := ports.CreateBookingInput{
			UserID:          "patient-1",
			Address:         "12 Main St",
			TestType:        "Blood pressure",
			AppointmentTime: at,
		}
		if _, err := svc.CreateBooking(ctx, it); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	listed, err := svc.ListForPatient(ctx, "patient-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"2025-03-01T09:00:00Z", "2025-03-02T09:00:00Z", "2025-03-03T09:00:00Z"}
	if len(listed) != 3 {
		t.Fatalf("expected 3 bookings, got %d", len(listed))
	}
	for i, b := range listed {
		if got := b.AppointmentTime.Format(time.RFC3339); got != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got)
		}
	}
}

func TestCreateBooking_UncheckedDoctorReference(t *testing.T) {
	svc, repo, _ := newBookingService()

	// Default create stores the reference without verifying it exists.
	booking, err := svc.CreateBooking(context.Background(), ports.CreateBookingInput{
		UserID:          "patient-1",
		DoctorID:        "no-such-doctor",
		Address:         "12 Main St",
		TestType:        "Urine",
		AppointmentTime: "2025-01-02T09:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.DoctorID == nil || *booking.DoctorID != "no-such-doctor" {
		t.Error("expected the doctor reference stored as-is")
	}
	if len(repo.CreateCalls) != 1 {
		t.Errorf("expected 1 insert, got %d", len(repo.CreateCalls))
	}
}

func TestCreateBookingStrict_VerifiesDoctor(t *testing.T) {
	svc, repo, accounts := newBookingService()
	ctx := context.Background()

	in := ports.CreateBookingInput{
		UserID:          "patient-1",
		DoctorID:        "doctor-1",
		Address:         "12 Main St",
		TestType:        "Urine",
		AppointmentTime: "2025-01-02T09:00:00Z",
	}

	if _, err := svc.CreateBookingStrict(ctx, in); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing doctor, got %v", err)
	}
	if len(repo.CreateCalls) != 0 {
		t.Error("expected no insert when the doctor reference fails verification")
	}

	accounts.Seed(domain.Account{ID: "doctor-1", Kind: domain.KindDoctor, Name: "Dr. Grey"})
	if _, err := svc.CreateBookingStrict(ctx, in); err != nil {
		t.Fatalf("unexpected error once the doctor exists: %v", err)
	}
}

func TestCreateBooking_WritesOutboxEvent(t *testing.T) {
	svc, repo, _ := newBookingService()

	booking, err := svc.CreateBooking(context.Background(), ports.CreateBookingInput{
		UserID:          "patient-1",
		Address:         "12 Main St",
		TestType:        "Blood",
		AppointmentTime: "2025-01-02T09:00:00Z",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.OutboxPayloads) != 1 {
		t.Fatalf("expected 1 outbox payload, got %d", len(repo.OutboxPayloads))
	}

	var evt ports.BookingCreatedEvent
	if err := json.Unmarshal(repo.OutboxPayloads[0], &evt); err != nil {
		t.Fatalf("outbox payload does not decode: %v", err)
	}
	if evt.BookingID != booking.ID || evt.UserID != "patient-1" || evt.TestType != "Blood" {
		t.Errorf("unexpected event payload: %+v", evt)
	}
	if evt.AppointmentTime != "2025-01-02T09:00:00Z" {
		t.Errorf("event appointment time shifted: %s", evt.AppointmentTime)
	}
}

func TestListForDoctor_EnrichedWithPatient(t *testing.T) {
	svc, _, accounts := newBookingService()
	ctx := context.Background()

	accounts.Seed(domain.Account{
		ID: "patient-1", Kind: domain.KindPatient,
		Name: "Alice", Email: "alice@x.com", Phone: "555-1111",
	})

	if _, err := svc.CreateBooking(ctx, ports.CreateBookingInput{
		UserID:          "patient-1",
		DoctorID:        "doctor-1",
		Address:         "12 Main St",
		TestType:        "General checkup",
		AppointmentTime: "2025-01-02T09:00:00Z",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	listed, err := svc.ListForDoctor(ctx, "doctor-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(listed))
	}
	patient := listed[0].Patient
	if patient == nil {
		t.Fatal("expected patient enrichment")
	}
	if patient.Name != "Alice" || patient.Email != "alice@x.com" || patient.Phone != "555-1111" {
		t.Errorf("unexpected patient summary: %+v", patient)
	}
}
