package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"arztpraxis/internal/calendar"
	"arztpraxis/internal/domain"
)

const adminSubject = "admin"

type adminService struct {
	passwords   domain.PasswordChecker
	tokens      domain.TokenIssuer
	tokenExpiry time.Duration
	store       domain.InviteStore
	notifier    domain.NotificationService
	practice    domain.Practice
	loc         *time.Location
	now         domain.Clock
	logger      *slog.Logger
}

// NewAdminService creates the AdminService behind the practice's admin endpoints.
func NewAdminService(
	passwords domain.PasswordChecker,
	tokens domain.TokenIssuer,
	tokenExpiry time.Duration,
	store domain.InviteStore,
	notifier domain.NotificationService,
	practice domain.Practice,
	loc *time.Location,
	now domain.Clock,
	logger *slog.Logger,
) domain.AdminService {
	if now == nil {
		now = time.Now
	}
	return &adminService{
		passwords:   passwords,
		tokens:      tokens,
		tokenExpiry: tokenExpiry,
		store:       store,
		notifier:    notifier,
		practice:    practice,
		loc:         loc,
		now:         now,
		logger:      logger,
	}
}

func (s *adminService) Login(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", domain.ErrUnauthorized
	}
	if err := s.passwords.Check(password); err != nil {
		s.logger.WarnContext(ctx, "admin login rejected")
		return "", domain.ErrUnauthorized
	}
	token, err := s.tokens.Issue(adminSubject, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *adminService) ListInvites(ctx context.Context, params domain.PaginationParams) ([]*domain.InviteSummary, int, error) {
	invs, total, err := s.store.List(ctx, params.Normalize())
	if err != nil {
		return nil, 0, fmt.Errorf("list invites: %w", err)
	}
	out := make([]*domain.InviteSummary, 0, len(invs))
	for _, inv := range invs {
		sum, err := calendar.Summarize(inv)
		if err != nil {
			// Keep the row so the practice still sees the file exists.
			s.logger.WarnContext(ctx, "stored invite not decodable", "key", inv.Key, "err", err)
			sum = &domain.InviteSummary{Key: inv.Key, CreatedAt: inv.CreatedAt}
		}
		out = append(out, sum)
	}
	return out, total, nil
}

func (s *adminService) GetInvite(ctx context.Context, key string) (*domain.Invite, error) {
	if !domain.ValidInviteKey(key) {
		return nil, domain.ErrNotFound
	}
	return s.store.Get(ctx, key)
}

func (s *adminService) SendDecision(ctx context.Context, decision *domain.AppointmentDecision) (*domain.DecisionResult, error) {
	if decision == nil || !decision.Status.Valid() {
		return nil, fmt.Errorf("%w: status must be %q or %q", domain.ErrInvalidInput, domain.DecisionApproved, domain.DecisionDeclined)
	}
	inv, err := s.GetInvite(ctx, decision.InviteKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get invite: %w", err)
	}
	sum, err := calendar.Summarize(inv)
	if err != nil {
		return nil, fmt.Errorf("decode invite: %w", err)
	}
	if sum.AttendeeEmail == "" {
		return nil, fmt.Errorf("%w: invite %s has no attendee address", domain.ErrInvalidInput, inv.Key)
	}

	start := sum.Start.In(s.loc)
	data := &domain.DecisionEmailData{
		FullName:     sum.AttendeeName,
		Date:         start.Format("02.01.2006"),
		Time:         start.Format("15:04") + " Uhr",
		Approved:     decision.Status == domain.DecisionApproved,
		PracticeName: s.practice.Name,
		Phone:        s.practice.Phone,
	}
	if err := s.notifier.SendDecision(ctx, sum.AttendeeEmail, data); err != nil {
		return nil, err
	}
	return &domain.DecisionResult{
		InviteKey: inv.Key,
		Status:    decision.Status,
		SentTo:    sum.AttendeeEmail,
		SentAt:    s.now().UTC(),
	}, nil
}
