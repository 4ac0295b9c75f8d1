package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"arztpraxis/internal/calendar"
	"arztpraxis/internal/domain"
)

type appointmentService struct {
	builder  *calendar.Builder
	store    domain.InviteStore
	notifier domain.NotificationService
	loc      *time.Location
	now      domain.Clock
	logger   *slog.Logger
}

// NewAppointmentService creates the appointment-request pipeline:
// validate, build, serialize, store, notify.
func NewAppointmentService(
	builder *calendar.Builder,
	store domain.InviteStore,
	notifier domain.NotificationService,
	loc *time.Location,
	now domain.Clock,
	logger *slog.Logger,
) domain.AppointmentService {
	if now == nil {
		now = time.Now
	}
	return &appointmentService{
		builder:  builder,
		store:    store,
		notifier: notifier,
		loc:      loc,
		now:      now,
		logger:   logger,
	}
}

func (s *appointmentService) Submit(ctx context.Context, fields domain.FormFields) (*domain.SubmissionResult, error) {
	now := s.now()
	req, err := ValidateAppointment(fields, now, s.loc)
	if err != nil {
		return nil, err
	}

	ev := s.builder.Build(req)
	inv := &domain.Invite{
		Key:       domain.NewInviteKey(now.In(s.loc)),
		ICS:       calendar.Serialize(ev),
		CreatedAt: now.UTC(),
	}
	res := &domain.SubmissionResult{InviteKey: inv.Key}

	// The attachment is built from the in-memory text, so a failed write only loses the
	// retrievable copy.
	if err := s.store.Save(ctx, inv); err != nil {
		s.logger.ErrorContext(ctx, "invite not stored", "key", inv.Key, "err", err)
	} else {
		res.Stored = true
	}

	practice, patient, err := s.notifier.Compose(req, inv)
	if err != nil {
		return nil, fmt.Errorf("compose notifications: %w", err)
	}
	dispatch, err := s.notifier.Dispatch(ctx, practice, patient)
	if err != nil {
		return nil, err
	}
	res.ConfirmationSent = dispatch.PatientNotified

	s.logger.InfoContext(ctx, "appointment request accepted",
		"key", inv.Key,
		"uid", ev.UID,
		"stored", res.Stored,
		"confirmation_sent", res.ConfirmationSent,
	)
	return res, nil
}
