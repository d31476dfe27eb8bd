package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/telehealth-companion/booking-service/internal/adapters/middleware"
	"github.com/telehealth-companion/booking-service/internal/core/domain"
	"github.com/telehealth-companion/booking-service/internal/core/ports"
	"github.com/telehealth-companion/booking-service/internal/core/services"
)

type BookingHandler struct {
	bookings ports.BookingService
	calendar *services.CalendarService
	verifier ports.BotVerifier
}

func NewBookingHandler(bookings ports.BookingService, calendar *services.CalendarService, verifier ports.BotVerifier) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		calendar: calendar,
		verifier: verifier,
	}
}

func (h *BookingHandler) TestTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.bookings.TestTypes())
}

type CreateBookingRequest struct {
	UserID          string `json:"user_id"`
	DoctorID        string `json:"doctor_id"`
	Address         string `json:"address"`
	TestType        string `json:"test_type"`
	AppointmentTime string `json:"appointment_time"`
	RecaptchaToken  string `json:"recaptcha_token"`
}

// Create handles POST /api/bookings. The authenticated patient can only
// book for themselves; ?strict=1 additionally verifies the doctor
// reference before insert.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.verifier.Verify(r.Context(), req.RecaptchaToken); err != nil {
		writeDomainError(w, err)
		return
	}

	if req.UserID != middleware.Subject(r.Context()) {
		writeError(w, http.StatusForbidden, "cannot book for another patient")
		return
	}

	in := ports.CreateBookingInput{
		UserID:          req.UserID,
		DoctorID:        req.DoctorID,
		Address:         req.Address,
		TestType:        req.TestType,
		AppointmentTime: req.AppointmentTime,
	}

	create := h.bookings.CreateBooking
	if strict := r.URL.Query().Get("strict"); strict == "1" || strict == "true" {
		create = h.bookings.CreateBookingStrict
	}

	booking, err := create(r.Context(), in)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID != middleware.Subject(r.Context()) {
		writeError(w, http.StatusForbidden, "cannot view another patient's bookings")
		return
	}

	bookings, err := h.bookings.ListForPatient(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (h *BookingHandler) ListForDoctor(w http.ResponseWriter, r *http.Request) {
	doctorID := r.PathValue("doctorId")
	if doctorID != middleware.Subject(r.Context()) {
		writeError(w, http.StatusForbidden, "cannot view another doctor's bookings")
		return
	}

	bookings, err := h.bookings.ListForDoctor(r.Context(), doctorID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// Calendar serves the booking as a downloadable .ics file. The token
// role picks the view: doctors get entries naming the patient and vice
// versa.
func (h *BookingHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.authorizedBooking(w, r)
	if !ok {
		return
	}

	ics := h.calendar.ICS(booking, middleware.Role(r.Context()))
	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=appointment-%s.ics", booking.ID))
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ics)
}

func (h *BookingHandler) CalendarLinks(w http.ResponseWriter, r *http.Request) {
	booking, ok := h.authorizedBooking(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.calendar.Links(booking, middleware.Role(r.Context())))
}

// authorizedBooking loads the booking and checks the caller is one of
// its two parties.
func (h *BookingHandler) authorizedBooking(w http.ResponseWriter, r *http.Request) (*domain.Booking, bool) {
	booking, err := h.bookings.GetBooking(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return nil, false
	}

	subject := middleware.Subject(r.Context())
	if subject != booking.UserID && (booking.DoctorID == nil || subject != *booking.DoctorID) {
		writeError(w, http.StatusForbidden, "not a party to this booking")
		return nil, false
	}
	return booking, true
}
