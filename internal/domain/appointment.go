package domain

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/mo"
)

// InsuranceType is the patient's insurance category as submitted by the form.
// Unknown codes are kept verbatim so nothing is lost on the way to the practice.
type InsuranceType string

const (
	InsuranceStatutory InsuranceType = "gesetzlich"
	InsurancePrivate   InsuranceType = "privat"
	InsuranceSelfPay   InsuranceType = "selbstzahler"
)

var insuranceLabels = map[InsuranceType]string{
	InsuranceStatutory: "Gesetzlich versichert",
	InsurancePrivate:   "Privat versichert",
	InsuranceSelfPay:   "Selbstzahler",
}

// Known reports whether t is one of the form's predefined options.
func (t InsuranceType) Known() bool {
	_, ok := insuranceLabels[t]
	return ok
}

// Label returns the German display text, or the raw code for unknown values.
func (t InsuranceType) Label() string {
	if label, ok := insuranceLabels[t]; ok {
		return label
	}
	return string(t)
}

// Reason is the visit reason selected on the form.
type Reason string

const (
	ReasonFirstVisit  Reason = "erstbesuch"
	ReasonCheckup     Reason = "kontrolluntersuchung"
	ReasonPrevention  Reason = "vorsorge"
	ReasonVaccine     Reason = "impfung"
	ReasonCertificate Reason = "attest"
	ReasonAcute       Reason = "akute-beschwerden"
	ReasonOther       Reason = "sonstiges"
)

var reasonLabels = map[Reason]string{
	ReasonFirstVisit:  "Erstbesuch",
	ReasonCheckup:     "Kontrolluntersuchung",
	ReasonPrevention:  "Vorsorgeuntersuchung",
	ReasonVaccine:     "Impfung",
	ReasonCertificate: "Attest/Bescheinigung",
	ReasonAcute:       "Akute Beschwerden",
	ReasonOther:       "Sonstiges",
}

// Known reports whether r is one of the form's predefined options.
func (r Reason) Known() bool {
	_, ok := reasonLabels[r]
	return ok
}

// Label returns the German display text, or the raw code for unknown values.
func (r Reason) Label() string {
	if label, ok := reasonLabels[r]; ok {
		return label
	}
	return string(r)
}

// Date is a calendar date without time of day or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses an ISO 8601 calendar date (YYYY-MM-DD) as sent by <input type="date">.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Date) Before(other Date) bool {
	return d.In(time.UTC).Before(other.In(time.UTC))
}

func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// String returns YYYY-MM-DD.
func (d Date) String() string {
	return d.In(time.UTC).Format(time.DateOnly)
}

// German returns DD.MM.YYYY.
func (d Date) German() string {
	return d.In(time.UTC).Format("02.01.2006")
}

// TimeOfDay is a wall-clock time with minute precision.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses HH:MM as sent by <input type="time">.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ExistsOn reports whether the wall-clock time occurs on d in loc. Times skipped by a
// daylight-saving switch do not.
func (t TimeOfDay) ExistsOn(d Date, loc *time.Location) bool {
	at := t.On(d, loc)
	return at.Hour() == t.Hour && at.Minute() == t.Minute && DateOf(at) == d
}

// On combines the time of day with d in loc.
func (t TimeOfDay) On(d Date, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, t.Hour, t.Minute, 0, 0, loc)
}

// AppointmentRequest is an accepted appointment-request form submission.
// String fields hold trimmed, backslash-stripped and HTML-escaped text.
type AppointmentRequest struct {
	FirstName       string
	LastName        string
	Birthdate       Date
	Insurance       InsuranceType
	Email           string
	Phone           string
	AppointmentDate Date
	AppointmentTime mo.Option[TimeOfDay]
	Reason          Reason
	Message         mo.Option[string]
	PrivacyAccepted bool
	SubmittedAt     time.Time
}

// FullName returns "First Last".
func (r *AppointmentRequest) FullName() string {
	return strings.TrimSpace(r.FirstName + " " + r.LastName)
}

// ValidationError carries every rule violation of a rejected submission.
type ValidationError struct {
	Messages []string
}

// Error joins the messages with single spaces, the format shown to the patient.
func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, " ")
}

// Is makes errors.Is(err, ErrInvalidInput) true for validation failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Clock returns the current time. Services take one so tests can pin "now".
type Clock func() time.Time

// FormFields are the raw, unsanitized form values keyed by input name.
type FormFields map[string]string

// SubmissionResult describes the outcome of an accepted appointment request.
type SubmissionResult struct {
	InviteKey        string
	Stored           bool
	ConfirmationSent bool
}

// AppointmentService runs the appointment-request pipeline.
type AppointmentService interface {
	// Submit validates fields, builds and stores the invite and notifies practice and patient.
	// Returns *ValidationError for rejected input and ErrSendFailed when the practice was not notified.
	Submit(ctx context.Context, fields FormFields) (*SubmissionResult, error)
}
