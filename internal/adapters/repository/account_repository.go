package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
)

// uniqueViolation is the Postgres error code surfaced when a signup
// collides with the per-table unique email constraint.
const uniqueViolation = "23505"

// AccountRepository stores patients in the users table and doctors in
// the doctors table. Same shape, separate collections: an email can
// exist once in each.
type AccountRepository struct {
	db *sql.DB
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func tableFor(kind domain.Kind) string {
	if kind == domain.KindDoctor {
		return "doctors"
	}
	return "users"
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	var err error
	if account.Kind == domain.KindDoctor {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO doctors (id, name, email, phone, specialisation, password, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			account.ID, account.Name, account.Email, account.Phone,
			account.Specialisation, account.Password, account.CreatedAt,
		)
	} else {
		_, err = r.db.ExecContext(ctx,
			`INSERT INTO users (id, name, email, phone, password, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			account.ID, account.Name, account.Email, account.Phone,
			account.Password, account.CreatedAt,
		)
	}
	return wrapStoreErr(err)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, kind domain.Kind, email string) (*domain.Account, error) {
	return r.findOne(ctx, kind, "email", email)
}

func (r *AccountRepository) FindByID(ctx context.Context, kind domain.Kind, id string) (*domain.Account, error) {
	return r.findOne(ctx, kind, "id", id)
}

func (r *AccountRepository) findOne(ctx context.Context, kind domain.Kind, column, value string) (*domain.Account, error) {
	account := domain.Account{Kind: kind}
	var err error
	if kind == domain.KindDoctor {
		err = r.db.QueryRowContext(ctx,
			"SELECT id, name, email, phone, specialisation, password, created_at FROM doctors WHERE "+column+" = $1",
			value,
		).Scan(&account.ID, &account.Name, &account.Email, &account.Phone,
			&account.Specialisation, &account.Password, &account.CreatedAt)
	} else {
		err = r.db.QueryRowContext(ctx,
			"SELECT id, name, email, phone, password, created_at FROM users WHERE "+column+" = $1",
			value,
		).Scan(&account.ID, &account.Name, &account.Email, &account.Phone,
			&account.Password, &account.CreatedAt)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStoreError(err)
	}
	return &account, nil
}

func (r *AccountRepository) EmailExists(ctx context.Context, kind domain.Kind, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM "+tableFor(kind)+" WHERE email = $1)",
		email,
	).Scan(&exists)
	if err != nil {
		return false, domain.NewStoreError(err)
	}
	return exists, nil
}

func (r *AccountRepository) ListDoctors(ctx context.Context) ([]domain.DoctorSummary, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, specialisation FROM doctors")
	if err != nil {
		return nil, domain.NewStoreError(err)
	}
	defer rows.Close()

	doctors := []domain.DoctorSummary{}
	for rows.Next() {
		var d domain.DoctorSummary
		if err := rows.Scan(&d.ID, &d.Name, &d.Specialisation); err != nil {
			return nil, domain.NewStoreError(err)
		}
		doctors = append(doctors, d)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError(err)
	}
	return doctors, nil
}

func wrapStoreErr(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.NewConstraintError(err)
	}
	return domain.NewStoreError(err)
}
