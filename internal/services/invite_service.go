package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"accounthub/internal/credentials"
	"accounthub/internal/domain"
	"accounthub/internal/models"
	"accounthub/internal/repositories"
)

// CreateInviteRequest carries the fields needed to invite someone into a
// workspace. An empty role defaults to "user".
type CreateInviteRequest struct {
	Email     string
	FirstName string
	LastName  string
	Role      string
}

type InviteService interface {
	Create(ctx context.Context, workspaceID uuid.UUID, req CreateInviteRequest) (*models.Invite, error)
	GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*models.Invite, error)
	GetAll(ctx context.Context, workspaceID uuid.UUID) ([]*models.Invite, error)
	Resend(ctx context.Context, workspaceID, id uuid.UUID) (*models.Invite, error)
	Accept(ctx context.Context, workspaceID, id uuid.UUID, code string) (*models.Invite, error)
	Remove(ctx context.Context, workspaceID, id uuid.UUID) error
	Clean(ctx context.Context) error
}

type inviteService struct {
	repo     repositories.InviteRepository
	codec    *credentials.Codec
	notifier models.Notifier
}

func NewInviteService(repo repositories.InviteRepository, codec *credentials.Codec, notifier models.Notifier) InviteService {
	return &inviteService{repo: repo, codec: codec, notifier: notifier}
}

func (s *inviteService) save(ctx context.Context, invite *models.Invite) error {
	if err := invite.PrepareForPersist(s.codec); err != nil {
		return err
	}
	var err error
	if invite.IsNew() {
		err = s.repo.Insert(ctx, invite)
	} else {
		err = s.repo.Save(ctx, invite)
	}
	if err != nil {
		return err
	}
	invite.OnPersisted(ctx, s.notifier)
	return nil
}

// Create enforces at most one outstanding invite per (workspace, email).
func (s *inviteService) Create(ctx context.Context, workspaceID uuid.UUID, req CreateInviteRequest) (*models.Invite, error) {
	if req.Role != "" && !models.ValidRole(req.Role) {
		return nil, domain.NewValidationError("role", "unknown role")
	}

	existing, err := s.repo.FindOutstanding(ctx, workspaceID, req.Email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrConflict
	}

	invite := models.NewInvite(workspaceID, req.Email, req.FirstName, req.LastName, req.Role)
	if err := s.save(ctx, invite); err != nil {
		return nil, err
	}
	return invite, nil
}

// GetByID scopes the lookup to the owning workspace: an invite that exists
// under a different workspace is ErrForbidden, not ErrNotFound.
func (s *inviteService) GetByID(ctx context.Context, workspaceID, id uuid.UUID) (*models.Invite, error) {
	invite, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invite.WorkspaceID != workspaceID {
		return nil, domain.ErrForbidden
	}
	return invite, nil
}

func (s *inviteService) GetAll(ctx context.Context, workspaceID uuid.UUID) ([]*models.Invite, error) {
	return s.repo.ListByWorkspace(ctx, workspaceID)
}

// Resend regenerates the invitation code and re-dispatches the invite email.
// Accepted invites cannot be resent.
func (s *inviteService) Resend(ctx context.Context, workspaceID, id uuid.UUID) (*models.Invite, error) {
	invite, err := s.GetByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if invite.Accepted {
		return nil, domain.ErrConflict
	}
	invite.Resend()
	if err := s.save(ctx, invite); err != nil {
		return nil, err
	}
	return invite, nil
}

// Accept matches code against the invitation slot and, on success, flips the
// accepted flag and clears the slot so the code is single-use.
func (s *inviteService) Accept(ctx context.Context, workspaceID, id uuid.UUID, code string) (*models.Invite, error) {
	invite, err := s.GetByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}
	if invite.Accepted {
		return nil, domain.ErrConflict
	}
	if !invite.CompareInviteCode(s.codec, code) {
		return nil, domain.ErrUnauthorized
	}
	invite.MarkAccepted()
	if err := s.save(ctx, invite); err != nil {
		return nil, err
	}
	return invite, nil
}

func (s *inviteService) Remove(ctx context.Context, workspaceID, id uuid.UUID) error {
	return s.repo.Delete(ctx, workspaceID, id)
}

// Clean bulk-deletes all invites. Danger zone, test-only.
func (s *inviteService) Clean(ctx context.Context) error {
	return s.repo.Clean(ctx)
}
