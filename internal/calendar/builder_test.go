package calendar

import (
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arztpraxis/internal/domain"
)

var fixedNow = time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC)

const fixedUID = "0192b3c4-d5e6-7f80-9a1b-2c3d4e5f6a7b"

func berlin(t *testing.T) *time.Location {
	t.Helper()
	loc, err := Location()
	require.NoError(t, err)
	return loc
}

func testBuilder(t *testing.T) *Builder {
	t.Helper()
	return NewBuilder(domain.DefaultPractice(), berlin(t), func() time.Time { return fixedNow }).
		WithUIDGenerator(func() string { return fixedUID })
}

func annaRequest() *domain.AppointmentRequest {
	return &domain.AppointmentRequest{
		FirstName:       "Anna",
		LastName:        "Muster",
		Birthdate:       domain.Date{Year: 1980, Month: time.May, Day: 4},
		Insurance:       domain.InsuranceStatutory,
		Email:           "a@b.de",
		Phone:           "0123456",
		AppointmentDate: domain.Date{Year: 2026, Month: time.October, Day: 20},
		AppointmentTime: mo.None[domain.TimeOfDay](),
		Reason:          domain.ReasonFirstVisit,
		PrivacyAccepted: true,
		SubmittedAt:     fixedNow,
	}
}

func TestBuilder_Build(t *testing.T) {
	loc := berlin(t)
	ev := testBuilder(t).Build(annaRequest())

	assert.Equal(t, fixedUID+"@praxis-gefaessmedizin.de", ev.UID)
	assert.Equal(t, time.Date(2026, 10, 20, 9, 0, 0, 0, loc), ev.Start)
	assert.Equal(t, time.Date(2026, 10, 20, 9, 30, 0, 0, loc), ev.End)
	assert.Equal(t, 30*time.Minute, ev.Duration())
	assert.Equal(t, fixedNow, ev.Stamp)
	assert.Equal(t, time.UTC, ev.Stamp.Location())
	assert.Equal(t, "Arzttermin - Erstbesuch", ev.Summary)
	assert.Contains(t, ev.Description, "Patient: Anna Muster\n")
	assert.Contains(t, ev.Description, "Grund: Erstbesuch\n")
	assert.Equal(t, "Musterstraße 123, 12345 Musterstadt", ev.Location)
	assert.Equal(t, domain.Participant{Name: "Praxis für Gefäßmedizin Remscheid", Email: "praxis@beispiel.de"}, ev.Organizer)
	assert.Equal(t, domain.Participant{Name: "Anna Muster", Email: "a@b.de"}, ev.Attendee)
	assert.Equal(t, domain.EventStatusTentative, ev.Status)
	assert.Equal(t, 0, ev.Sequence)
	assert.Equal(t, 24*time.Hour, ev.Alarm.Before)
}

func TestBuilder_Build_TimeAndReason(t *testing.T) {
	loc := berlin(t)
	tests := []struct {
		name        string
		at          mo.Option[domain.TimeOfDay]
		reason      domain.Reason
		wantStart   time.Time
		wantSummary string
	}{
		{
			name:        "explicit time",
			at:          mo.Some(domain.TimeOfDay{Hour: 14, Minute: 15}),
			reason:      domain.ReasonCertificate,
			wantStart:   time.Date(2026, 10, 20, 14, 15, 0, 0, loc),
			wantSummary: "Arzttermin - Attest/Bescheinigung",
		},
		{
			name:        "default time",
			at:          mo.None[domain.TimeOfDay](),
			reason:      domain.ReasonAcute,
			wantStart:   time.Date(2026, 10, 20, 9, 0, 0, 0, loc),
			wantSummary: "Arzttermin - Akute Beschwerden",
		},
		{
			name:        "unknown reason falls back to raw code",
			at:          mo.None[domain.TimeOfDay](),
			reason:      domain.Reason("zweitmeinung"),
			wantStart:   time.Date(2026, 10, 20, 9, 0, 0, 0, loc),
			wantSummary: "Arzttermin - zweitmeinung",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := annaRequest()
			req.AppointmentTime = tt.at
			req.Reason = tt.reason
			ev := testBuilder(t).Build(req)
			assert.Equal(t, tt.wantStart, ev.Start)
			assert.Equal(t, tt.wantStart.Add(30*time.Minute), ev.End)
			assert.Equal(t, tt.wantSummary, ev.Summary)
		})
	}
}

func TestBuilder_Build_UnescapesHTML(t *testing.T) {
	req := annaRequest()
	req.LastName = "M&uuml;ller &amp; S&ouml;hne"
	ev := testBuilder(t).Build(req)
	assert.Equal(t, "Anna Müller & Söhne", ev.Attendee.Name)
	assert.Contains(t, ev.Description, "Patient: Anna Müller & Söhne")
}

func TestBuilder_Build_UniqueUIDs(t *testing.T) {
	b := NewBuilder(domain.DefaultPractice(), berlin(t), nil)
	seen := make(map[string]struct{})
	for range 100 {
		uid := b.Build(annaRequest()).UID
		_, dup := seen[uid]
		require.False(t, dup, "duplicate uid %s", uid)
		seen[uid] = struct{}{}
	}
}

func TestBuilder_Build_DoesNotShareState(t *testing.T) {
	b := testBuilder(t)
	first := b.Build(annaRequest())
	req := annaRequest()
	req.FirstName = "Bernd"
	_ = b.Build(req)
	assert.Equal(t, "Anna Muster", first.Attendee.Name)
}
