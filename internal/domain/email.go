package domain

import "context"

// Attachment is a file carried by an outgoing message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Message is an outgoing email before MIME encoding.
type Message struct {
	To          string
	ReplyTo     string
	FromName    string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
// Templates without a plain-text variant render an empty textBody.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// PracticeNotificationEmailData holds data for the practice-facing new request email.
// Fields are plain text; the HTML templates escape them.
type PracticeNotificationEmailData struct {
	FullName       string
	Birthdate      string
	Insurance      string
	Email          string
	Phone          string
	Date           string
	Time           string
	Reason         string
	Message        string
	HasMessage     bool
	ReceivedAt     string
	PracticeName   string
	InviteFilename string
}

// PatientConfirmationEmailData holds data for the patient-facing confirmation email.
type PatientConfirmationEmailData struct {
	FullName     string
	Date         string
	Time         string
	Reason       string
	PracticeName string
	Phone        string
}

// DecisionEmailData holds data for the approval / decline email sent from the admin area.
type DecisionEmailData struct {
	FullName     string
	Date         string
	Time         string
	Approved     bool
	PracticeName string
	Phone        string
}

// DispatchResult reports which of the two notifications were delivered.
type DispatchResult struct {
	PracticeNotified bool
	PatientNotified  bool
}

// NotificationService composes and sends appointment emails.
type NotificationService interface {
	// Compose builds the practice-facing and patient-facing messages, each with inv attached.
	Compose(req *AppointmentRequest, inv *Invite) (practice, patient *Message, err error)
	// Dispatch sends practice first. A practice failure returns ErrSendFailed and skips patient;
	// a patient failure is logged and reported only through DispatchResult.
	Dispatch(ctx context.Context, practice, patient *Message) (DispatchResult, error)
	// SendDecision tells the patient whether the requested appointment was approved.
	SendDecision(ctx context.Context, to string, data *DecisionEmailData) error
}
