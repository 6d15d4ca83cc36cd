package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"accounthub/internal/domain"
	"accounthub/internal/models"
)

type InviteRepository interface {
	Insert(ctx context.Context, invite *models.Invite) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invite, error)
	ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*models.Invite, error)
	FindOutstanding(ctx context.Context, workspaceID uuid.UUID, email string) (*models.Invite, error)
	Save(ctx context.Context, invite *models.Invite) error
	Delete(ctx context.Context, workspaceID, id uuid.UUID) error
	PruneStale(ctx context.Context, before time.Time) (int64, error)
	Clean(ctx context.Context) error
}

type inviteRepo struct {
	db Database
}

func NewInviteRepo(db Database) InviteRepository {
	return &inviteRepo{db: db}
}

const inviteColumns = `id, workspace_id, email, first_name, last_name, accepted, role,
		invitation, created_at, updated_at, accepted_at`

func (r *inviteRepo) Insert(ctx context.Context, invite *models.Invite) error {
	query := `
		INSERT INTO invites (id, workspace_id, email, first_name, last_name, accepted, role,
			invitation, created_at, updated_at, accepted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.db.Exec(ctx, query,
		invite.ID, invite.WorkspaceID, invite.Email, invite.FirstName, invite.LastName,
		invite.Accepted, invite.Role, invite.Invitation,
		invite.CreatedAt, invite.UpdatedAt, invite.AcceptedAt,
	)
	return mapStoreError(err)
}

func (r *inviteRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE id = $1`
	return r.scanInvite(r.db.QueryRow(ctx, query, id))
}

func (r *inviteRepo) ListByWorkspace(ctx context.Context, workspaceID uuid.UUID) ([]*models.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE workspace_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	defer rows.Close()

	var invites []*models.Invite
	for rows.Next() {
		invite, err := r.scanInvite(rows)
		if err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	return invites, rows.Err()
}

// FindOutstanding returns the non-accepted invite for (workspace, email), or
// ErrNotFound when there is none.
func (r *inviteRepo) FindOutstanding(ctx context.Context, workspaceID uuid.UUID, email string) (*models.Invite, error) {
	query := `SELECT ` + inviteColumns + ` FROM invites WHERE workspace_id = $1 AND email = $2 AND NOT accepted`
	return r.scanInvite(r.db.QueryRow(ctx, query, workspaceID, email))
}

func (r *inviteRepo) Save(ctx context.Context, invite *models.Invite) error {
	query := `
		UPDATE invites
		SET email = $2, first_name = $3, last_name = $4, accepted = $5, role = $6,
			invitation = $7, updated_at = $8, accepted_at = $9
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query,
		invite.ID, invite.Email, invite.FirstName, invite.LastName, invite.Accepted,
		invite.Role, invite.Invitation, invite.UpdatedAt, invite.AcceptedAt,
	)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes an invite scoped to its owning workspace.
func (r *inviteRepo) Delete(ctx context.Context, workspaceID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invites WHERE workspace_id = $1 AND id = $2`, workspaceID, id)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// PruneStale removes invites that were never accepted and predate the
// cutoff. Returns how many rows went away.
func (r *inviteRepo) PruneStale(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM invites WHERE NOT accepted AND created_at < $1`, before)
	if err != nil {
		return 0, mapStoreError(err)
	}
	return tag.RowsAffected(), nil
}

// Clean removes every invite. Danger zone, test-only.
func (r *inviteRepo) Clean(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM invites`)
	return mapStoreError(err)
}

func (r *inviteRepo) scanInvite(row interface{ Scan(dest ...any) error }) (*models.Invite, error) {
	invite := &models.Invite{}
	err := row.Scan(
		&invite.ID, &invite.WorkspaceID, &invite.Email, &invite.FirstName, &invite.LastName,
		&invite.Accepted, &invite.Role, &invite.Invitation,
		&invite.CreatedAt, &invite.UpdatedAt, &invite.AcceptedAt,
	)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return invite, nil
}
