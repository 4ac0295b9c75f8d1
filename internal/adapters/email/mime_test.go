package email

import (
	"bytes"
	"encoding/base64"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"arztpraxis/internal/domain"
)

const testICS = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nSUMMARY:Arzttermin - Erstbesuch\r\nEND:VCALENDAR\r\n"

func testEnvelope() Envelope {
	return Envelope{
		From:      mail.Address{Name: "Praxis für Gefäßmedizin Remscheid", Address: "praxis@beispiel.de"},
		Boundary:  "b0123456789abcdef",
		MessageID: "0123456789abcdef@beispiel.de",
		Date:      time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC),
	}
}

func testMessage() *domain.Message {
	return &domain.Message{
		To:      "anna@example.com",
		ReplyTo: "praxis@beispiel.de",
		Subject: "Bestätigung Ihrer Terminanfrage",
		HTML:    "<p>Grüße</p>\n<p>Ihr Praxisteam</p>",
		Attachments: []domain.Attachment{{
			Filename:    "termin.ics",
			ContentType: "text/calendar; method=REQUEST; charset=UTF-8",
			Data:        []byte(testICS),
		}},
	}
}

type rawPart struct {
	Header textproto.MIMEHeader
	Body   []byte
}

func readParts(t *testing.T, r io.Reader, boundary string) []rawPart {
	t.Helper()
	mr := multipart.NewReader(r, boundary)
	var parts []rawPart
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			return parts
		}
		require.NoError(t, err)
		body, err := io.ReadAll(p)
		require.NoError(t, err)
		parts = append(parts, rawPart{Header: p.Header, Body: body})
	}
}

func TestBuildRawMessage_headers(t *testing.T) {
	raw, err := BuildRawMessage(testEnvelope(), testMessage())
	require.NoError(t, err)

	m, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	from, err := m.Header.AddressList("From")
	require.NoError(t, err)
	require.Len(t, from, 1)
	assert.Equal(t, "Praxis für Gefäßmedizin Remscheid", from[0].Name)
	assert.Equal(t, "praxis@beispiel.de", from[0].Address)
	assert.Equal(t, "anna@example.com", m.Header.Get("To"))
	assert.Equal(t, "praxis@beispiel.de", m.Header.Get("Reply-To"))
	assert.Equal(t, "1.0", m.Header.Get("MIME-Version"))
	assert.Equal(t, "<0123456789abcdef@beispiel.de>", m.Header.Get("Message-ID"))

	subject, err := new(mime.WordDecoder).DecodeHeader(m.Header.Get("Subject"))
	require.NoError(t, err)
	assert.Equal(t, "Bestätigung Ihrer Terminanfrage", subject)

	date, err := m.Header.Date()
	require.NoError(t, err)
	assert.True(t, date.Equal(testEnvelope().Date))

	mediaType, params, err := mime.ParseMediaType(m.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)
	assert.Equal(t, "b0123456789abcdef", params["boundary"])
}

func TestBuildRawMessage_is_seven_bit(t *testing.T) {
	msg := testMessage()
	msg.Text = "Grüße aus der Praxis"
	raw, err := BuildRawMessage(testEnvelope(), msg)
	require.NoError(t, err)

	for i, b := range raw {
		require.Less(t, b, byte(0x80), "non-ASCII byte at offset %d", i)
	}
	for _, line := range strings.Split(string(raw), "\r\n") {
		assert.LessOrEqual(t, len(line), maxBodyLineLength)
		assert.NotContains(t, line, "\n")
	}
}

func TestBuildRawMessage_html_and_attachment(t *testing.T) {
	raw, err := BuildRawMessage(testEnvelope(), testMessage())
	require.NoError(t, err)
	m, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	parts := readParts(t, m.Body, "b0123456789abcdef")
	require.Len(t, parts, 2)

	html := parts[0]
	assert.Equal(t, "text/html; charset=UTF-8", html.Header.Get("Content-Type"))
	assert.Equal(t, "7bit", html.Header.Get("Content-Transfer-Encoding"))
	assert.Equal(t, "<p>Gr&#252;&#223;e</p>\r\n<p>Ihr Praxisteam</p>", string(html.Body))

	att := parts[1]
	mediaType, params, err := mime.ParseMediaType(att.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "text/calendar", mediaType)
	assert.Equal(t, "REQUEST", params["method"])
	assert.Equal(t, "termin.ics", params["name"])
	assert.Equal(t, "base64", att.Header.Get("Content-Transfer-Encoding"))
	disposition, dparams, err := mime.ParseMediaType(att.Header.Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, "termin.ics", dparams["filename"])

	encoded := string(att.Body)
	for _, line := range strings.Split(strings.TrimSuffix(encoded, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), base64LineLength)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(encoded, "\r\n", ""))
	require.NoError(t, err)
	assert.Equal(t, testICS, string(decoded))
}

func TestBuildRawMessage_with_text_alternative(t *testing.T) {
	msg := testMessage()
	msg.Text = "Grüße\nIhr Praxisteam"
	raw, err := BuildRawMessage(testEnvelope(), msg)
	require.NoError(t, err)
	m, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)

	parts := readParts(t, m.Body, "b0123456789abcdef")
	require.Len(t, parts, 2)
	mediaType, params, err := mime.ParseMediaType(parts[0].Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/alternative", mediaType)
	assert.Equal(t, "alt-b0123456789abcdef", params["boundary"])

	inner := readParts(t, bytes.NewReader(parts[0].Body), params["boundary"])
	require.Len(t, inner, 2)
	// multipart.Reader decodes quoted-printable transparently
	assert.Equal(t, "text/plain; charset=UTF-8", inner[0].Header.Get("Content-Type"))
	assert.Equal(t, "Grüße\r\nIhr Praxisteam", string(inner[0].Body))
	assert.Equal(t, "text/html; charset=UTF-8", inner[1].Header.Get("Content-Type"))
}

func TestBuildRawMessage_strips_header_line_breaks(t *testing.T) {
	msg := testMessage()
	msg.Subject = "Neue Terminanfrage: Anna\r\nBcc: evil@example.com"
	raw, err := BuildRawMessage(testEnvelope(), msg)
	require.NoError(t, err)
	m, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Empty(t, m.Header.Get("Bcc"))
	assert.Equal(t, "Neue Terminanfrage: Anna Bcc: evil@example.com", m.Header.Get("Subject"))
}

func TestBuildRawMessage_invalid(t *testing.T) {
	_, err := BuildRawMessage(testEnvelope(), nil)
	require.Error(t, err)

	env := testEnvelope()
	env.Boundary = ""
	_, err = BuildRawMessage(env, testMessage())
	require.Error(t, err)
}

func TestSevenBitHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii", "<p>Hallo</p>", "<p>Hallo</p>"},
		{"umlauts", "Müller, Straße", "M&#252;ller, Stra&#223;e"},
		{"emoji", "📅", "&#128197;"},
		{"newlines", "a\nb\r\nc\rd", "a\r\nb\r\nc\r\nd"},
		{"control", "a\x00b", "a&#0;b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SevenBitHTML(tt.in))
		})
	}
}

func TestSevenBitHTML_wraps_long_lines(t *testing.T) {
	long := strings.Repeat("wort ", 400)
	out := SevenBitHTML(long)
	for _, line := range strings.Split(out, "\r\n") {
		assert.LessOrEqual(t, len(line), maxBodyLineLength)
	}
	assert.Equal(t, strings.Fields(long), strings.Fields(out))
}

func TestWrapLine(t *testing.T) {
	assert.Equal(t, []string{"aaa", "bbb ccc"}, wrapLine("aaa bbb ccc", 7))
	assert.Equal(t, []string{"abcdefg", "hij"}, wrapLine("abcdefghij", 7))
	assert.Equal(t, []string{"short"}, wrapLine("short", 7))
}
