package domain

import (
	"context"
	"time"
)

// DecisionStatus is the practice's answer to an appointment request.
type DecisionStatus string

const (
	DecisionApproved DecisionStatus = "approved"
	DecisionDeclined DecisionStatus = "declined"
)

// Valid reports whether s is approved or declined.
func (s DecisionStatus) Valid() bool {
	return s == DecisionApproved || s == DecisionDeclined
}

// AppointmentDecision answers the request behind a stored invite.
type AppointmentDecision struct {
	InviteKey string         `json:"invite_key"`
	Status    DecisionStatus `json:"status"`
}

// DecisionResult is returned after the decision email went out.
// swagger:model DecisionResult
type DecisionResult struct {
	InviteKey string         `json:"invite_key"`
	Status    DecisionStatus `json:"status"`
	SentTo    string         `json:"sent_to"`
	SentAt    time.Time      `json:"sent_at"`
}

// PasswordChecker verifies the shared admin secret.
type PasswordChecker interface {
	Check(password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated admin.
type TokenIssuer interface {
	Issue(subject string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AdminService backs the practice's read-only invite listing and decision mails.
type AdminService interface {
	// Login exchanges the admin password for a bearer token. Returns ErrUnauthorized on mismatch.
	Login(ctx context.Context, password string) (string, error)
	ListInvites(ctx context.Context, params PaginationParams) ([]*InviteSummary, int, error)
	GetInvite(ctx context.Context, key string) (*Invite, error)
	SendDecision(ctx context.Context, decision *AppointmentDecision) (*DecisionResult, error)
}
