package email

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net/mail"
	"net/textproto"
	"strings"
	"time"
	"unicode/utf8"

	"arztpraxis/internal/domain"
)

const (
	base64LineLength = 76
	// RFC 5322 hard limit is 998 octets per line excluding CRLF.
	maxBodyLineLength = 998
)

// Envelope holds the transport-level fields of a raw message.
type Envelope struct {
	From      mail.Address
	Boundary  string
	MessageID string
	Date      time.Time
}

// BuildRawMessage encodes msg as a multipart/mixed MIME message: the HTML body
// (7bit, wrapped in multipart/alternative with a quoted-printable text part when
// msg.Text is set) followed by one base64 part per attachment.
func BuildRawMessage(env Envelope, msg *domain.Message) ([]byte, error) {
	if msg == nil {
		return nil, fmt.Errorf("message is nil")
	}
	var buf bytes.Buffer
	writeHeader(&buf, "From", env.From.String())
	writeHeader(&buf, "To", msg.To)
	if msg.ReplyTo != "" {
		writeHeader(&buf, "Reply-To", msg.ReplyTo)
	}
	writeHeader(&buf, "Subject", mime.QEncoding.Encode("utf-8", headerValue(msg.Subject)))
	writeHeader(&buf, "Date", env.Date.Format(time.RFC1123Z))
	if env.MessageID != "" {
		writeHeader(&buf, "Message-ID", "<"+env.MessageID+">")
	}
	writeHeader(&buf, "MIME-Version", "1.0")
	writeHeader(&buf, "Content-Type", fmt.Sprintf("multipart/mixed; boundary=%q", env.Boundary))
	buf.WriteString("\r\n")

	mw := multipart.NewWriter(&buf)
	if err := mw.SetBoundary(env.Boundary); err != nil {
		return nil, fmt.Errorf("set boundary: %w", err)
	}

	if msg.Text != "" {
		alt := "alt-" + env.Boundary
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Type": {fmt.Sprintf("multipart/alternative; boundary=%q", alt)},
		})
		if err != nil {
			return nil, err
		}
		aw := multipart.NewWriter(part)
		if err := aw.SetBoundary(alt); err != nil {
			return nil, fmt.Errorf("set boundary: %w", err)
		}
		if err := writeTextPart(aw, msg.Text); err != nil {
			return nil, err
		}
		if err := writeHTMLPart(aw, msg.HTML); err != nil {
			return nil, err
		}
		if err := aw.Close(); err != nil {
			return nil, err
		}
	} else if err := writeHTMLPart(mw, msg.HTML); err != nil {
		return nil, err
	}

	for _, att := range msg.Attachments {
		if err := writeAttachment(mw, att); err != nil {
			return nil, fmt.Errorf("attachment %s: %w", att.Filename, err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeHeader(w io.Writer, name, value string) {
	fmt.Fprintf(w, "%s: %s\r\n", name, value)
}

// headerValue drops line breaks so user input cannot start a new header.
func headerValue(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func writeTextPart(w *multipart.Writer, text string) error {
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/plain; charset=UTF-8"},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write([]byte(normalizeNewlines(text))); err != nil {
		return err
	}
	return qp.Close()
}

func writeHTMLPart(w *multipart.Writer, body string) error {
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {"text/html; charset=UTF-8"},
		"Content-Transfer-Encoding": {"7bit"},
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(part, SevenBitHTML(body))
	return err
}

func writeAttachment(w *multipart.Writer, att domain.Attachment) error {
	name := headerValue(att.Filename)
	part, err := w.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {fmt.Sprintf("%s; name=%q", att.ContentType, name)},
		"Content-Transfer-Encoding": {"base64"},
		"Content-Disposition":       {fmt.Sprintf("attachment; filename=%q", name)},
	})
	if err != nil {
		return err
	}
	encoded := base64.StdEncoding.EncodeToString(att.Data)
	for len(encoded) > base64LineLength {
		if _, err := io.WriteString(part, encoded[:base64LineLength]+"\r\n"); err != nil {
			return err
		}
		encoded = encoded[base64LineLength:]
	}
	_, err = io.WriteString(part, encoded+"\r\n")
	return err
}

// SevenBitHTML makes an HTML document safe for 7bit transfer: non-ASCII runes become
// numeric character references, line endings become CRLF and overlong lines are
// broken at whitespace.
func SevenBitHTML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == utf8.RuneError:
			b.WriteString("&#xFFFD;")
		case r > 0x7e || (r < 0x20 && r != '\n' && r != '\r' && r != '\t'):
			fmt.Fprintf(&b, "&#%d;", r)
		default:
			b.WriteRune(r)
		}
	}
	lines := strings.Split(normalizeNewlines(b.String()), "\r\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		out = append(out, wrapLine(l, maxBodyLineLength)...)
	}
	return strings.Join(out, "\r\n")
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

// wrapLine splits l at the last space before limit; a line without spaces is cut hard.
func wrapLine(l string, limit int) []string {
	var out []string
	for len(l) > limit {
		cut := strings.LastIndexByte(l[:limit], ' ')
		if cut <= 0 {
			cut = limit
		}
		out = append(out, l[:cut])
		l = strings.TrimLeft(l[cut:], " ")
	}
	return append(out, l)
}
