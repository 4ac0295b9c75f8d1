// Package calendar turns accepted appointment requests into iCalendar invites.
package calendar

import (
	"html"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"

	"arztpraxis/internal/domain"
)

// TimeZoneID is the only time zone invites are written in.
const TimeZoneID = "Europe/Berlin"

const (
	summaryPrefix    = "Arzttermin - "
	alarmDescription = "Erinnerung: Arzttermin morgen"
	disclaimer       = "Bitte beachten Sie, dass dieser Termin noch bestätigt werden muss.\nWir melden uns in Kürze bei Ihnen."
)

// Location loads TimeZoneID from the embedded tz database.
func Location() (*time.Location, error) {
	return time.LoadLocation(TimeZoneID)
}

// Builder constructs CalendarEvents for one practice.
type Builder struct {
	practice domain.Practice
	loc      *time.Location
	now      domain.Clock
	newUID   func() string
}

// NewBuilder returns a Builder that stamps events with now() and places them in loc.
func NewBuilder(practice domain.Practice, loc *time.Location, now domain.Clock) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{
		practice: practice,
		loc:      loc,
		now:      now,
		newUID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}
}

// WithUIDGenerator replaces the UID token source. The practice domain is still appended.
func (b *Builder) WithUIDGenerator(gen func() string) *Builder {
	cp := *b
	cp.newUID = gen
	return &cp
}

// Build derives the invite event from an accepted request.
func (b *Builder) Build(req *domain.AppointmentRequest) domain.CalendarEvent {
	at := req.AppointmentTime.OrElse(b.practice.DefaultTime)
	start := at.On(req.AppointmentDate, b.loc)
	reason := plain(req.Reason.Label())
	patient := plain(req.FullName())

	var desc strings.Builder
	desc.WriteString("Terminanfrage bei " + b.practice.Name + "\n\n")
	desc.WriteString("Patient: " + patient + "\n")
	desc.WriteString("Grund: " + reason + "\n\n")
	desc.WriteString(disclaimer)

	return domain.CalendarEvent{
		ProductID:    b.practice.ProductID,
		CalendarName: b.practice.CalendarName,
		TimeZone:     TimeZoneID,
		UID:          b.newUID() + "@" + b.practice.Domain,
		Stamp:        b.now().UTC(),
		Start:        start,
		End:          start.Add(b.practice.AppointmentDuration),
		Summary:      summaryPrefix + reason,
		Description:  desc.String(),
		Location:     b.practice.Address,
		Organizer:    domain.Participant{Name: b.practice.Name, Email: b.practice.Email},
		Attendee:     domain.Participant{Name: patient, Email: plain(req.Email)},
		Status:       domain.EventStatusTentative,
		Sequence:     0,
		Alarm: domain.Alarm{
			Before:      b.practice.ReminderBefore,
			Description: alarmDescription,
		},
	}
}

// plain reverses the HTML escaping applied during validation; ICS has its own escaping.
func plain(s string) string {
	return html.UnescapeString(s)
}
