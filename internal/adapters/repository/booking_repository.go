package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
)

type BookingRepository struct {
	db *sql.DB
}

var _ ports.BookingRepository = (*BookingRepository)(nil)

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create inserts the booking row and its outbox event in one
// transaction, so the event exists iff the booking does.
func (r *BookingRepository) Create(ctx context.Context, booking domain.Booking, outboxPayload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewStoreError(err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bookings (id, user_id, doctor_id, address, test_type, appointment_time, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		booking.ID, booking.UserID, booking.DoctorID, booking.Address,
		booking.TestType, booking.AppointmentTime, booking.CreatedAt,
	)
	if err != nil {
		return wrapStoreErr(err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO outbox_events (id, event_type, payload, created_at)
		 VALUES ($1, $2, $3, NOW())`,
		uuid.NewString(), ports.BookingCreatedEventType, outboxPayload,
	)
	if err != nil {
		return domain.NewStoreError(err)
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStoreError(err)
	}
	return nil
}

const bookingForPatientQuery = `
	SELECT b.id, b.user_id, b.doctor_id, b.address, b.test_type, b.appointment_time, b.created_at,
	       d.id, d.name, d.specialisation
	FROM bookings b
	LEFT JOIN doctors d ON d.id = b.doctor_id`

const bookingForDoctorQuery = `
	SELECT b.id, b.user_id, b.doctor_id, b.address, b.test_type, b.appointment_time, b.created_at,
	       u.id, u.name, u.email, u.phone
	FROM bookings b
	LEFT JOIN users u ON u.id = b.user_id`

// Appointment-time ties break on creation time, then id, so listings
// are stable across calls.
const bookingOrder = " ORDER BY b.appointment_time ASC, b.created_at ASC, b.id ASC"

func (r *BookingRepository) FindByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT b.id, b.user_id, b.doctor_id, b.address, b.test_type, b.appointment_time, b.created_at,
		       d.id, d.name, d.specialisation,
		       u.id, u.name, u.email, u.phone
		FROM bookings b
		LEFT JOIN doctors d ON d.id = b.doctor_id
		LEFT JOIN users u ON u.id = b.user_id
		WHERE b.id = $1`, id)

	var b domain.Booking
	var d nullDoctor
	var u nullPatient
	err := row.Scan(&b.ID, &b.UserID, &b.DoctorID, &b.Address, &b.TestType,
		&b.AppointmentTime, &b.CreatedAt,
		&d.id, &d.name, &d.specialisation,
		&u.id, &u.name, &u.email, &u.phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStoreError(err)
	}
	b.Doctor = d.summary()
	b.Patient = u.summary()
	return &b, nil
}

func (r *BookingRepository) ListForPatient(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, bookingForPatientQuery+" WHERE b.user_id = $1"+bookingOrder, userID)
	if err != nil {
		return nil, domain.NewStoreError(err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		var d nullDoctor
		err := rows.Scan(&b.ID, &b.UserID, &b.DoctorID, &b.Address, &b.TestType,
			&b.AppointmentTime, &b.CreatedAt, &d.id, &d.name, &d.specialisation)
		if err != nil {
			return nil, domain.NewStoreError(err)
		}
		b.Doctor = d.summary()
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError(err)
	}
	return bookings, nil
}

func (r *BookingRepository) ListForDoctor(ctx context.Context, doctorID string) ([]domain.Booking, error) {
	rows, err := r.db.QueryContext(ctx, bookingForDoctorQuery+" WHERE b.doctor_id = $1"+bookingOrder, doctorID)
	if err != nil {
		return nil, domain.NewStoreError(err)
	}
	defer rows.Close()

	bookings := []domain.Booking{}
	for rows.Next() {
		var b domain.Booking
		var u nullPatient
		err := rows.Scan(&b.ID, &b.UserID, &b.DoctorID, &b.Address, &b.TestType,
			&b.AppointmentTime, &b.CreatedAt, &u.id, &u.name, &u.email, &u.phone)
		if err != nil {
			return nil, domain.NewStoreError(err)
		}
		b.Patient = u.summary()
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError(err)
	}
	return bookings, nil
}

// nullDoctor scans the LEFT JOINed doctor columns, which are all NULL
// when the booking has no doctor.
type nullDoctor struct {
	id, name, specialisation sql.NullString
}

func (d nullDoctor) summary() *domain.DoctorSummary {
	if !d.id.Valid {
		return nil
	}
	return &domain.DoctorSummary{
		ID:             d.id.String,
		Name:           d.name.String,
		Specialisation: d.specialisation.String,
	}
}

type nullPatient struct {
	id, name, email, phone sql.NullString
}

func (u nullPatient) summary() *domain.PatientSummary {
	if !u.id.Valid {
		return nil
	}
	return &domain.PatientSummary{
		ID:    u.id.String,
		Name:  u.name.String,
		Email: u.email.String,
		Phone: u.phone.String,
	}
}
