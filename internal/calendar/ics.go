package calendar

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"arztpraxis/internal/domain"
)

const (
	crlf          = "\r\n"
	maxLineOctets = 75
	localLayout   = "20060102T150405"
	utcLayout     = "20060102T150405Z"
)

// berlinTimeZone is the VTIMEZONE block for Europe/Berlin (EU rules since 1996).
var berlinTimeZone = []string{
	"BEGIN:VTIMEZONE",
	"TZID:" + TimeZoneID,
	"BEGIN:DAYLIGHT",
	"TZOFFSETFROM:+0100",
	"TZOFFSETTO:+0200",
	"DTSTART:19700329T020000",
	"RRULE:FREQ=YEARLY;BYMONTH=3;BYDAY=-1SU",
	"TZNAME:CEST",
	"END:DAYLIGHT",
	"BEGIN:STANDARD",
	"TZOFFSETFROM:+0200",
	"TZOFFSETTO:+0100",
	"DTSTART:19701025T030000",
	"RRULE:FREQ=YEARLY;BYMONTH=10;BYDAY=-1SU",
	"TZNAME:CET",
	"END:STANDARD",
	"END:VTIMEZONE",
}

// Serialize renders ev as an iCalendar object. Property order is fixed; the same
// event always yields the same bytes.
func Serialize(ev domain.CalendarEvent) string {
	var b strings.Builder
	line := func(s string) { writeFolded(&b, s) }

	line("BEGIN:VCALENDAR")
	line("VERSION:2.0")
	line("PRODID:" + escapeText(ev.ProductID))
	line("CALSCALE:GREGORIAN")
	line("METHOD:REQUEST")
	line("X-WR-CALNAME:" + escapeText(ev.CalendarName))
	line("X-WR-TIMEZONE:" + TimeZoneID)
	for _, l := range berlinTimeZone {
		line(l)
	}

	line("BEGIN:VEVENT")
	line("UID:" + ev.UID)
	line("DTSTAMP:" + ev.Stamp.UTC().Format(utcLayout))
	line("DTSTART;TZID=" + TimeZoneID + ":" + ev.Start.Format(localLayout))
	line("DTEND;TZID=" + TimeZoneID + ":" + ev.End.Format(localLayout))
	line("SUMMARY:" + escapeText(ev.Summary))
	line("DESCRIPTION:" + escapeText(ev.Description))
	line("LOCATION:" + escapeText(ev.Location))
	line("ORGANIZER;CN=" + paramValue(ev.Organizer.Name) + ":mailto:" + ev.Organizer.Email)
	line("ATTENDEE;CN=" + paramValue(ev.Attendee.Name) + ";RSVP=TRUE:mailto:" + ev.Attendee.Email)
	line("STATUS:" + string(ev.Status))
	line(fmt.Sprintf("SEQUENCE:%d", ev.Sequence))
	line("BEGIN:VALARM")
	line("TRIGGER:" + formatTrigger(ev.Alarm.Before))
	line("ACTION:DISPLAY")
	line("DESCRIPTION:" + escapeText(ev.Alarm.Description))
	line("END:VALARM")
	line("END:VEVENT")
	line("END:VCALENDAR")
	return b.String()
}

// writeFolded writes one content line, folding at 75 octets without splitting
// a UTF-8 sequence. Continuation lines start with a single space.
func writeFolded(b *strings.Builder, s string) {
	width := maxLineOctets
	for len(s) > width {
		cut := width
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		b.WriteString(s[:cut])
		b.WriteString(crlf + " ")
		s = s[cut:]
		width = maxLineOctets - 1
	}
	b.WriteString(s)
	b.WriteString(crlf)
}

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
	"\r", "",
)

// escapeText applies RFC 5545 TEXT escaping.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}

// paramValue quotes a parameter value when it contains a delimiter.
// DQUOTE is not representable inside a quoted-string and becomes an apostrophe.
func paramValue(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		if r == '"' {
			return '\''
		}
		return r
	}, s)
	if strings.ContainsAny(s, ":;,") {
		return `"` + s + `"`
	}
	return s
}

// formatTrigger renders the relative TRIGGER for an alarm firing before ahead of DTSTART.
func formatTrigger(before time.Duration) string {
	before = before.Truncate(time.Second)
	if before <= 0 {
		return "PT0S"
	}
	var b strings.Builder
	b.WriteString("-PT")
	h := before / time.Hour
	before -= h * time.Hour
	m := before / time.Minute
	before -= m * time.Minute
	s := before / time.Second
	if h > 0 {
		fmt.Fprintf(&b, "%dH", h)
	}
	if m > 0 {
		fmt.Fprintf(&b, "%dM", m)
	}
	if s > 0 {
		fmt.Fprintf(&b, "%dS", s)
	}
	return b.String()
}
