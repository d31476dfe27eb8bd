package services

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/telehealth-companion/booking-service/internal/core/domain"
)

// Appointments have no stored duration; calendar entries assume one hour.
const appointmentDuration = time.Hour

const icsTimeLayout = "20060102T150405Z"

// CalendarService renders a booking as an iCalendar file and as
// Google/Outlook "add to calendar" deep links. The view kind decides
// which counterpart the description names: a doctor's calendar entry
// shows the patient, a patient's shows the doctor.
type CalendarService struct{}

func NewCalendarService() *CalendarService {
	return &CalendarService{}
}

type CalendarLinks struct {
	Google  string `json:"google"`
	Outlook string `json:"outlook"`
}

func (s *CalendarService) ICS(b *domain.Booking, view domain.Kind) string {
	start := b.AppointmentTime.UTC()
	end := start.Add(appointmentDuration)

	var sb strings.Builder
	sb.WriteString("BEGIN:VCALENDAR\n")
	sb.WriteString("VERSION:2.0\n")
	sb.WriteString("PRODID:-//Telehealth Companion//EN\n")
	sb.WriteString("BEGIN:VEVENT\n")
	fmt.Fprintf(&sb, "UID:appointment-%s@telehealthcompanion.com\n", b.ID)
	fmt.Fprintf(&sb, "DTSTAMP:%s\n", time.Now().UTC().Format(icsTimeLayout))
	fmt.Fprintf(&sb, "DTSTART:%s\n", start.Format(icsTimeLayout))
	fmt.Fprintf(&sb, "DTEND:%s\n", end.Format(icsTimeLayout))
	fmt.Fprintf(&sb, "SUMMARY:%s\n", s.title(b))
	fmt.Fprintf(&sb, "DESCRIPTION:%s\\nTest Type: %s\n", s.counterpart(b, view), b.TestType)
	fmt.Fprintf(&sb, "LOCATION:%s\n", b.Address)
	sb.WriteString("BEGIN:VALARM\n")
	sb.WriteString("TRIGGER:-PT15M\n")
	sb.WriteString("ACTION:DISPLAY\n")
	sb.WriteString("DESCRIPTION:Appointment reminder\n")
	sb.WriteString("END:VALARM\n")
	sb.WriteString("END:VEVENT\n")
	sb.WriteString("END:VCALENDAR")
	return sb.String()
}

func (s *CalendarService) Links(b *domain.Booking, view domain.Kind) CalendarLinks {
	start := b.AppointmentTime.UTC()
	end := start.Add(appointmentDuration)
	description := fmt.Sprintf("%s\nTest Type: %s\nAddress: %s", s.counterpart(b, view), b.TestType, b.Address)

	google := url.Values{
		"action":   {"TEMPLATE"},
		"text":     {s.title(b)},
		"dates":    {start.Format(icsTimeLayout) + "/" + end.Format(icsTimeLayout)},
		"details":  {description},
		"location": {b.Address},
	}

	outlook := url.Values{
		"subject":  {s.title(b)},
		"startdt":  {start.Format(time.RFC3339)},
		"enddt":    {end.Format(time.RFC3339)},
		"body":     {description},
		"location": {b.Address},
	}

	return CalendarLinks{
		Google:  "https://calendar.google.com/calendar/render?" + google.Encode(),
		Outlook: "https://outlook.live.com/calendar/0/deeplink/compose?" + outlook.Encode(),
	}
}

func (s *CalendarService) title(b *domain.Booking) string {
	return b.TestType + " Appointment"
}

func (s *CalendarService) counterpart(b *domain.Booking, view domain.Kind) string {
	if view == domain.KindDoctor {
		name := "Patient"
		if b.Patient != nil {
			name = b.Patient.Name
		}
		return "Patient: " + name
	}
	name := "Healthcare Provider"
	if b.Doctor != nil {
		name = b.Doctor.Name
	}
	return "Doctor: " + name
}
