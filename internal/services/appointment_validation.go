package services

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/samber/mo"

	"arztpraxis/internal/domain"
)

// Form field names posted by the appointment form.
const (
	FieldFirstName       = "firstName"
	FieldLastName        = "lastName"
	FieldBirthdate       = "birthdate"
	FieldInsurance       = "insurance"
	FieldEmail           = "email"
	FieldPhone           = "phone"
	FieldAppointmentDate = "appointmentDate"
	FieldAppointmentTime = "appointmentTime"
	FieldReason          = "reason"
	FieldMessage         = "message"
	FieldPrivacy         = "privacy"
)

// Messages returned to the patient, in evaluation order.
const (
	MsgFirstNameRequired = "Vorname ist erforderlich."
	MsgLastNameRequired  = "Nachname ist erforderlich."
	MsgBirthdateRequired = "Geburtsdatum ist erforderlich."
	MsgBirthdateInvalid  = "Ungültiges Geburtsdatum."
	MsgInsuranceRequired = "Versicherungsart ist erforderlich."
	MsgEmailRequired     = "E-Mail ist erforderlich."
	MsgEmailInvalid      = "Ungültige E-Mail-Adresse."
	MsgPhoneRequired     = "Telefonnummer ist erforderlich."
	MsgPhoneInvalid      = "Ungültige Telefonnummer (mindestens 6 Ziffern; erlaubt sind Ziffern, Leerzeichen, +, - und Klammern)."
	MsgDateRequired      = "Wunschtermin ist erforderlich."
	MsgDateInvalid       = "Ungültiges Datum für den Wunschtermin."
	MsgDateInPast        = "Das Datum darf nicht in der Vergangenheit liegen."
	MsgDateToday         = "Termine können frühestens für morgen angefragt werden."
	MsgTimeInvalid       = "Ungültige Wunschzeit."
	MsgTimeSkipped       = "Die Wunschzeit existiert an diesem Tag wegen der Zeitumstellung nicht."
	MsgReasonRequired    = "Grund des Besuchs ist erforderlich."
	MsgPrivacyRequired   = "Sie müssen die Datenschutzerklärung akzeptieren."
)

const minPhoneDigits = 6

var (
	emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneRegexp = regexp.MustCompile(`^[\d\s+\-()]+$`)
)

// ValidateAppointment checks every rule against the raw form fields and returns either the
// sanitized request or a *domain.ValidationError listing all violations. Dates are judged
// against today in loc.
func ValidateAppointment(fields domain.FormFields, now time.Time, loc *time.Location) (*domain.AppointmentRequest, error) {
	get := func(name string) string { return strings.TrimSpace(fields[name]) }
	var errs []string

	firstName := get(FieldFirstName)
	if firstName == "" {
		errs = append(errs, MsgFirstNameRequired)
	}
	lastName := get(FieldLastName)
	if lastName == "" {
		errs = append(errs, MsgLastNameRequired)
	}

	var birthdate domain.Date
	if raw := get(FieldBirthdate); raw == "" {
		errs = append(errs, MsgBirthdateRequired)
	} else if d, err := domain.ParseDate(raw); err != nil {
		errs = append(errs, MsgBirthdateInvalid)
	} else {
		birthdate = d
	}

	insurance := get(FieldInsurance)
	if insurance == "" {
		errs = append(errs, MsgInsuranceRequired)
	}

	email := get(FieldEmail)
	if email == "" {
		errs = append(errs, MsgEmailRequired)
	} else if !emailRegexp.MatchString(email) {
		errs = append(errs, MsgEmailInvalid)
	}

	phone := get(FieldPhone)
	if phone == "" {
		errs = append(errs, MsgPhoneRequired)
	} else if !validPhone(phone) {
		errs = append(errs, MsgPhoneInvalid)
	}

	var apptDate domain.Date
	if raw := get(FieldAppointmentDate); raw == "" {
		errs = append(errs, MsgDateRequired)
	} else if d, err := domain.ParseDate(raw); err != nil {
		errs = append(errs, MsgDateInvalid)
	} else {
		today := domain.DateOf(now.In(loc))
		switch {
		case d.Before(today):
			errs = append(errs, MsgDateInPast)
		case d == today:
			errs = append(errs, MsgDateToday)
		}
		apptDate = d
	}

	apptTime := mo.None[domain.TimeOfDay]()
	if raw := get(FieldAppointmentTime); raw != "" {
		if t, err := domain.ParseTimeOfDay(raw); err != nil {
			errs = append(errs, MsgTimeInvalid)
		} else if !apptDate.IsZero() && !t.ExistsOn(apptDate, loc) {
			errs = append(errs, MsgTimeSkipped)
		} else {
			apptTime = mo.Some(t)
		}
	}

	reason := get(FieldReason)
	if reason == "" {
		errs = append(errs, MsgReasonRequired)
	}

	_, privacy := fields[FieldPrivacy]
	if !privacy {
		errs = append(errs, MsgPrivacyRequired)
	}

	if len(errs) > 0 {
		return nil, &domain.ValidationError{Messages: errs}
	}

	message := mo.None[string]()
	if m := sanitize(fields[FieldMessage]); m != "" {
		message = mo.Some(m)
	}
	return &domain.AppointmentRequest{
		FirstName:       sanitize(firstName),
		LastName:        sanitize(lastName),
		Birthdate:       birthdate,
		Insurance:       domain.InsuranceType(sanitize(insurance)),
		Email:           sanitize(email),
		Phone:           sanitize(phone),
		AppointmentDate: apptDate,
		AppointmentTime: apptTime,
		Reason:          domain.Reason(sanitize(reason)),
		Message:         message,
		PrivacyAccepted: true,
		SubmittedAt:     now,
	}, nil
}

func validPhone(phone string) bool {
	if !phoneRegexp.MatchString(phone) {
		return false
	}
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	return digits >= minPhoneDigits
}

// sanitize trims, strips backslash escapes and HTML-escapes s.
func sanitize(s string) string {
	return html.EscapeString(stripSlashes(strings.TrimSpace(s)))
}

// stripSlashes removes one level of backslash escaping: `\x` becomes `x`, `\\` becomes `\`.
func stripSlashes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	escaped := false
	for _, r := range s {
		if !escaped && r == '\\' {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}
