package domain

import "time"

// Practice is the process-wide identity of the medical practice.
type Practice struct {
	Name    string `toml:"name"`
	Email   string `toml:"email"`
	Address string `toml:"address"`
	Phone   string `toml:"phone"`
	// Domain suffixes event UIDs.
	Domain string `toml:"domain"`
	// NotificationEmail receives the practice-facing message.
	NotificationEmail string `toml:"notification_email"`

	ProductID    string `toml:"product_id"`
	CalendarName string `toml:"calendar_name"`

	AppointmentDuration time.Duration `toml:"-"`
	ReminderBefore      time.Duration `toml:"-"`
	DefaultTime         TimeOfDay     `toml:"-"`
}

// DefaultPractice returns the built-in practice identity.
func DefaultPractice() Practice {
	return Practice{
		Name:                "Praxis für Gefäßmedizin Remscheid",
		Email:               "praxis@beispiel.de",
		Address:             "Musterstraße 123, 12345 Musterstadt",
		Phone:               "+49 123 456 7890",
		Domain:              "praxis-gefaessmedizin.de",
		NotificationEmail:   "praxis@beispiel.de",
		ProductID:           "-//Praxis für Gefäßmedizin//Appointment System//DE",
		CalendarName:        "Arzttermin",
		AppointmentDuration: 30 * time.Minute,
		ReminderBefore:      24 * time.Hour,
		DefaultTime:         TimeOfDay{Hour: 9, Minute: 0},
	}
}
