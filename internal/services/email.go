package services

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"time"

	"arztpraxis/internal/domain"
)

const (
	inviteContentType      = "text/calendar; method=REQUEST; charset=UTF-8"
	patientInviteFilename  = "termin.ics"
	noPreferredTime        = "Keine spezifische Zeit angegeben"
	defaultMailSendTimeout = 15 * time.Second
)

type emailService struct {
	mailer      domain.Mailer
	renderer    domain.EmailTemplateRenderer
	practice    domain.Practice
	loc         *time.Location
	sendTimeout time.Duration
	logger      *slog.Logger
}

// NewEmailService returns a NotificationService that renders templates with renderer and
// delivers through mailer. Each send is bounded by sendTimeout.
func NewEmailService(
	mailer domain.Mailer,
	renderer domain.EmailTemplateRenderer,
	practice domain.Practice,
	loc *time.Location,
	sendTimeout time.Duration,
	logger *slog.Logger,
) domain.NotificationService {
	if sendTimeout <= 0 {
		sendTimeout = defaultMailSendTimeout
	}
	return &emailService{
		mailer:      mailer,
		renderer:    renderer,
		practice:    practice,
		loc:         loc,
		sendTimeout: sendTimeout,
		logger:      logger,
	}
}

// Compose renders the practice notification and the patient confirmation for req.
func (s *emailService) Compose(req *domain.AppointmentRequest, inv *domain.Invite) (*domain.Message, *domain.Message, error) {
	if req == nil || inv == nil {
		return nil, nil, fmt.Errorf("compose: request and invite are required")
	}
	fullName := html.UnescapeString(req.FullName())
	date := req.AppointmentDate.German()
	at := noPreferredTime
	if t, ok := req.AppointmentTime.Get(); ok {
		at = t.String() + " Uhr"
	}
	reason := html.UnescapeString(req.Reason.Label())
	email := html.UnescapeString(req.Email)

	practiceData := &domain.PracticeNotificationEmailData{
		FullName:       fullName,
		Birthdate:      req.Birthdate.German(),
		Insurance:      html.UnescapeString(req.Insurance.Label()),
		Email:          email,
		Phone:          html.UnescapeString(req.Phone),
		Date:           date,
		Time:           at,
		Reason:         reason,
		Message:        html.UnescapeString(req.Message.OrEmpty()),
		HasMessage:     req.Message.IsPresent(),
		ReceivedAt:     req.SubmittedAt.In(s.loc).Format("02.01.2006 15:04"),
		PracticeName:   s.practice.Name,
		InviteFilename: inv.Filename(),
	}
	subject, htmlBody, textBody, err := s.renderer.Render("practice_notification", practiceData)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render practice_notification template: %w", err)
	}
	practice := &domain.Message{
		To:       s.practice.NotificationEmail,
		ReplyTo:  email,
		FromName: "Terminbuchung",
		Subject:  subject,
		HTML:     htmlBody,
		Text:     textBody,
		Attachments: []domain.Attachment{
			{Filename: inv.Filename(), ContentType: inviteContentType, Data: []byte(inv.ICS)},
		},
	}

	patientData := &domain.PatientConfirmationEmailData{
		FullName:     fullName,
		Date:         date,
		Time:         at,
		Reason:       reason,
		PracticeName: s.practice.Name,
		Phone:        s.practice.Phone,
	}
	subject, htmlBody, _, err = s.renderer.Render("patient_confirmation", patientData)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to render patient_confirmation template: %w", err)
	}
	patient := &domain.Message{
		To:       email,
		FromName: s.practice.Name,
		Subject:  subject,
		HTML:     htmlBody,
		Attachments: []domain.Attachment{
			{Filename: patientInviteFilename, ContentType: inviteContentType, Data: []byte(inv.ICS)},
		},
	}
	return practice, patient, nil
}

// Dispatch sends the practice message, then the patient message. The patient is only
// contacted once the practice has the request.
func (s *emailService) Dispatch(ctx context.Context, practice, patient *domain.Message) (domain.DispatchResult, error) {
	var res domain.DispatchResult
	if err := s.send(ctx, practice); err != nil {
		return res, fmt.Errorf("%w: practice notification: %w", domain.ErrSendFailed, err)
	}
	res.PracticeNotified = true
	s.logger.InfoContext(ctx, "practice notification sent", "to", practice.To)

	if patient == nil {
		return res, nil
	}
	if err := s.send(ctx, patient); err != nil {
		s.logger.WarnContext(ctx, "patient confirmation not sent", "to", patient.To, "err", err)
		return res, nil
	}
	res.PatientNotified = true
	s.logger.InfoContext(ctx, "patient confirmation sent", "to", patient.To)
	return res, nil
}

// SendDecision sends the approval or decline email for a reviewed request.
func (s *emailService) SendDecision(ctx context.Context, to string, data *domain.DecisionEmailData) error {
	if data == nil {
		return fmt.Errorf("decision email data is nil")
	}
	name := "decision_declined"
	if data.Approved {
		name = "decision_approved"
	}
	subject, htmlBody, textBody, err := s.renderer.Render(name, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", name, err)
	}
	msg := &domain.Message{
		To:       to,
		FromName: s.practice.Name,
		Subject:  subject,
		HTML:     htmlBody,
		Text:     textBody,
	}
	if err := s.send(ctx, msg); err != nil {
		return fmt.Errorf("%w: decision email: %w", domain.ErrSendFailed, err)
	}
	s.logger.InfoContext(ctx, "decision email sent", "to", to, "approved", data.Approved)
	return nil
}

// send bounds one mailer call by sendTimeout, even if the mailer ignores ctx.
func (s *emailService) send(ctx context.Context, msg *domain.Message) error {
	if msg == nil {
		return fmt.Errorf("message is nil")
	}
	ctx, cancel := context.WithTimeout(ctx, s.sendTimeout)
	defer cancel()

	errc := make(chan error, 1)
	go func() { errc <- s.mailer.Send(ctx, msg) }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		return fmt.Errorf("send to %s: %w", msg.To, ctx.Err())
	}
}
