package domain

import "time"

// TestTypes is the closed set of bookable service categories, in the
// order clients display them. Booking creation rejects anything else.
var TestTypes = []string{
	"Urine",
	"Blood",
	"Blood pressure",
	"Vaccination",
	"General consultation",
	"General checkup",
}

func ValidTestType(t string) bool {
	for _, tt := range TestTypes {
		if tt == t {
			return true
		}
	}
	return false
}

// Booking links a patient to an address, test type and appointment time,
// with an optional doctor. A nil DoctorID means "no preference" and is a
// valid, permanent state: bookings are immutable once created.
type Booking struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	DoctorID        *string   `json:"doctor_id"`
	Address         string    `json:"address"`
	TestType        string    `json:"test_type"`
	AppointmentTime time.Time `json:"appointment_time"`
	CreatedAt       time.Time `json:"created_at"`

	// Enrichment: the counterpart account's summary, populated by the
	// list queries. Doctor is null when the booking has no doctor.
	Doctor  *DoctorSummary  `json:"doctor"`
	Patient *PatientSummary `json:"patient,omitempty"`
}
