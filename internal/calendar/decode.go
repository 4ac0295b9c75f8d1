package calendar

import (
	"fmt"
	"strings"

	"github.com/emersion/go-ical"

	"arztpraxis/internal/domain"
)

// Decode parses ics and returns its single VEVENT.
func Decode(ics string) (*ical.Event, error) {
	cal, err := ical.NewDecoder(strings.NewReader(ics)).Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode calendar: %w", err)
	}
	events := cal.Events()
	if len(events) == 0 {
		return nil, fmt.Errorf("no events found in calendar")
	}
	if len(events) > 1 {
		return nil, fmt.Errorf("multiple events found in calendar")
	}
	return &events[0], nil
}

// Summarize decodes a stored invite into the fields shown in the admin listing.
func Summarize(inv *domain.Invite) (*domain.InviteSummary, error) {
	ev, err := Decode(inv.ICS)
	if err != nil {
		return nil, fmt.Errorf("invite %s: %w", inv.Key, err)
	}
	loc, err := Location()
	if err != nil {
		return nil, err
	}
	start, err := ev.DateTimeStart(loc)
	if err != nil {
		return nil, fmt.Errorf("invite %s: DTSTART: %w", inv.Key, err)
	}
	end, err := ev.DateTimeEnd(loc)
	if err != nil {
		return nil, fmt.Errorf("invite %s: DTEND: %w", inv.Key, err)
	}

	sum := &domain.InviteSummary{
		Key:       inv.Key,
		Start:     start,
		End:       end,
		CreatedAt: inv.CreatedAt,
	}
	sum.UID, _ = ev.Props.Text(ical.PropUID)
	sum.Summary, _ = ev.Props.Text(ical.PropSummary)
	if p := ev.Props.Get(ical.PropStatus); p != nil {
		sum.Status = p.Value
	}
	if p := ev.Props.Get(ical.PropAttendee); p != nil {
		sum.AttendeeName = p.Params.Get(ical.ParamCommonName)
		sum.AttendeeEmail = mailtoAddress(p.Value)
	}
	return sum, nil
}

func mailtoAddress(uri string) string {
	if len(uri) >= len("mailto:") && strings.EqualFold(uri[:len("mailto:")], "mailto:") {
		return uri[len("mailto:"):]
	}
	return uri
}
