package repositories

import (
	"context"

	"github.com/google/uuid"
)

type InvitationRepository interface {
	// CountPending counts invitations not yet accepted and not yet expired.
	CountPending(ctx context.Context, companyID uuid.UUID) (int, error)
}

type invitationRepo struct {
	db DB
}

func NewInvitationRepo(db DB) InvitationRepository {
	return &invitationRepo{db: db}
}

func (r *invitationRepo) CountPending(ctx context.Context, companyID uuid.UUID) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM company_invitations
		WHERE company_id = $1 AND accepted_at IS NULL AND expires_at > NOW()
	`
	err := r.db.QueryRow(ctx, query, companyID).Scan(&count)
	return count, err
}
