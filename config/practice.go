package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"arztpraxis/internal/domain"
)

// practiceFile is the TOML layout of PRACTICE_CONFIG:
//
//	name = "Praxis für Gefäßmedizin Remscheid"
//	notification_email = "termine@example.de"
//
//	[appointment]
//	duration = "30m"
//	reminder = "24h"
//	default_time = "09:00"
type practiceFile struct {
	domain.Practice
	Appointment struct {
		Duration    string `toml:"duration"`
		Reminder    string `toml:"reminder"`
		DefaultTime string `toml:"default_time"`
	} `toml:"appointment"`
}

// LoadPractice returns the practice identity. Keys present in the TOML file at path
// override the built-in defaults; an empty path returns the defaults.
func LoadPractice(path string) (domain.Practice, error) {
	if path == "" {
		return domain.DefaultPractice(), nil
	}
	f := practiceFile{Practice: domain.DefaultPractice()}
	md, err := toml.DecodeFile(path, &f)
	if err != nil {
		return domain.Practice{}, fmt.Errorf("practice config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return domain.Practice{}, fmt.Errorf("practice config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	p := f.Practice
	if s := f.Appointment.Duration; s != "" {
		if p.AppointmentDuration, err = positiveDuration("appointment.duration", s); err != nil {
			return domain.Practice{}, err
		}
	}
	if s := f.Appointment.Reminder; s != "" {
		if p.ReminderBefore, err = positiveDuration("appointment.reminder", s); err != nil {
			return domain.Practice{}, err
		}
	}
	if s := f.Appointment.DefaultTime; s != "" {
		if p.DefaultTime, err = domain.ParseTimeOfDay(s); err != nil {
			return domain.Practice{}, fmt.Errorf("appointment.default_time: %w", err)
		}
	}
	if p.Name == "" || p.NotificationEmail == "" || p.Domain == "" {
		return domain.Practice{}, fmt.Errorf("practice config %s: name, notification_email and domain must not be empty", path)
	}
	return p, nil
}

func positiveDuration(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return d, nil
}
