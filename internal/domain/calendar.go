package domain

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// EventStatus is the iCalendar STATUS of an event.
type EventStatus string

const (
	EventStatusTentative EventStatus = "TENTATIVE"
	EventStatusConfirmed EventStatus = "CONFIRMED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// Participant is a calendar user address with a display name.
type Participant struct {
	Name  string
	Email string
}

// Alarm is a display reminder that fires Before the event start.
type Alarm struct {
	Before      time.Duration
	Description string
}

// CalendarEvent is the in-memory form of one appointment invite.
// Start and End are wall-clock times in TimeZone; Stamp is UTC.
type CalendarEvent struct {
	ProductID    string
	CalendarName string
	TimeZone     string

	UID         string
	Stamp       time.Time
	Start       time.Time
	End         time.Time
	Summary     string
	Description string
	Location    string
	Organizer   Participant
	Attendee    Participant
	Status      EventStatus
	Sequence    int
	Alarm       Alarm
}

// Duration returns End - Start.
func (e CalendarEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// InviteKeyPrefix prefixes every storage key and names the retrieval path segment.
const InviteKeyPrefix = "termin"

var inviteKeyRegexp = regexp.MustCompile(`^termin-[0-9]{8}-[0-9a-f]{16}$`)

// NewInviteKey returns a storage key of the form termin-YYYYMMDD-<16 hex>.
func NewInviteKey(submitted time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	return fmt.Sprintf("%s-%s-%s", InviteKeyPrefix, submitted.Format("20060102"), suffix)
}

// ValidInviteKey reports whether key has the storage key shape.
func ValidInviteKey(key string) bool {
	return inviteKeyRegexp.MatchString(key)
}

// Invite is a serialized calendar event plus its storage key. Write-once.
type Invite struct {
	Key       string    `json:"key"`
	ICS       string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Filename returns the attachment / download name.
func (i *Invite) Filename() string {
	return i.Key + ".ics"
}

// InviteSummary is the decoded view of a stored invite used by the admin listing.
// swagger:model InviteSummary
type InviteSummary struct {
	Key           string    `json:"key"`
	UID           string    `json:"uid"`
	Summary       string    `json:"summary"`
	Status        string    `json:"status"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	AttendeeName  string    `json:"attendee_name"`
	AttendeeEmail string    `json:"attendee_email"`
	CreatedAt     time.Time `json:"created_at"`
}

// InviteStore persists invites. There is no update or delete.
type InviteStore interface {
	// Save writes inv under inv.Key. Returns ErrInviteExists if the key is taken.
	Save(ctx context.Context, inv *Invite) error
	// Get returns ErrNotFound for unknown keys.
	Get(ctx context.Context, key string) (*Invite, error)
	// List returns one page of invites, newest first, and the total count.
	List(ctx context.Context, params PaginationParams) ([]*Invite, int, error)
}
