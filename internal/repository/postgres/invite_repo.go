package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"arztpraxis/internal/domain"

	"github.com/lib/pq"
)

// InvitesSchema creates the invites table. Rows are never updated or deleted.
const InvitesSchema = `
	CREATE TABLE IF NOT EXISTS invites (
		key        TEXT PRIMARY KEY,
		ics        TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS invites_created_at_idx ON invites (created_at DESC);
`

type inviteRepository struct {
	DB *sql.DB
}

// NewInviteRepository returns a domain.InviteStore implemented with Postgres.
func NewInviteRepository(db *sql.DB) domain.InviteStore {
	return &inviteRepository{DB: db}
}

// Migrate applies InvitesSchema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, InvitesSchema); err != nil {
		return fmt.Errorf("migrate invites: %w", err)
	}
	return nil
}

func (r *inviteRepository) Save(ctx context.Context, inv *domain.Invite) error {
	if inv == nil || !domain.ValidInviteKey(inv.Key) {
		return fmt.Errorf("%w: invalid invite key", domain.ErrInvalidInput)
	}
	query := `
		INSERT INTO invites (key, ics, created_at)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, inv.Key, inv.ICS, inv.CreatedAt)
	if err != nil {
		var perr *pq.Error
		if errors.As(err, &perr) && perr.Code == "23505" {
			return domain.ErrInviteExists
		}
		return err
	}
	return nil
}

func (r *inviteRepository) Get(ctx context.Context, key string) (*domain.Invite, error) {
	if !domain.ValidInviteKey(key) {
		return nil, domain.ErrNotFound
	}
	query := `
		SELECT key, ics, created_at
		FROM invites
		WHERE key = $1
	`
	inv := &domain.Invite{}
	err := r.DB.QueryRowContext(ctx, query, key).Scan(&inv.Key, &inv.ICS, &inv.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

func (r *inviteRepository) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Invite, int, error) {
	params = params.Normalize()
	var total int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM invites`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT key, ics, created_at FROM invites
		 ORDER BY created_at DESC, key DESC
		 LIMIT $1 OFFSET $2`, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	invites := []*domain.Invite{}
	for rows.Next() {
		var inv domain.Invite
		if err := rows.Scan(&inv.Key, &inv.ICS, &inv.CreatedAt); err != nil {
			return nil, 0, err
		}
		invites = append(invites, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return invites, total, nil
}
