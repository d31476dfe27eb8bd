package domain

import "time"

type Kind string

const (
	KindPatient Kind = "PATIENT"
	KindDoctor  Kind = "DOCTOR"
)

// Account is a Patient or Doctor identity record. The two kinds share
// shape but live in separate collections; an email may exist in both at
// once, yet is unique within each. Specialisation is set for doctors only.
type Account struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"-"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Specialisation string    `json:"specialisation,omitempty"`
	Password       string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

// DoctorSummary is the projection returned by doctor listings and joined
// into a patient's booking view.
type DoctorSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialisation string `json:"specialisation"`
}

// PatientSummary is joined into a doctor's booking view.
type PatientSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
