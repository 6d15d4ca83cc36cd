package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"accounthub/internal/caching"
	"accounthub/internal/domain"
	"accounthub/internal/models"
	"accounthub/internal/repositories"
)

const workspaceCacheTTL = 5 * time.Minute

type WorkspaceService interface {
	Create(ctx context.Context, name string) (*models.Workspace, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error)
	Rename(ctx context.Context, id uuid.UUID, name string) (*models.Workspace, error)
	Remove(ctx context.Context, id uuid.UUID) error
	Clean(ctx context.Context) error
}

type workspaceService struct {
	repo  repositories.WorkspaceRepository
	cache caching.Cache
}

// NewWorkspaceService builds the workspace service. cache may be nil, in
// which case every lookup goes straight to the store.
func NewWorkspaceService(repo repositories.WorkspaceRepository, cache caching.Cache) WorkspaceService {
	return &workspaceService{repo: repo, cache: cache}
}

func (s *workspaceService) Create(ctx context.Context, name string) (*models.Workspace, error) {
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	workspace := models.NewWorkspace(name)
	if err := s.repo.Insert(ctx, workspace); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, workspace)
	return workspace, nil
}

func (s *workspaceService) GetByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetWorkspace(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}
	workspace, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, workspace)
	return workspace, nil
}

func (s *workspaceService) Rename(ctx context.Context, id uuid.UUID, name string) (*models.Workspace, error) {
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	workspace, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	workspace.Name = name
	workspace.UpdatedAt = time.Now()
	if err := s.repo.Save(ctx, workspace); err != nil {
		return nil, err
	}
	s.cacheSet(ctx, workspace)
	return workspace, nil
}

func (s *workspaceService) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.DeleteWorkspace(ctx, id)
	}
	return nil
}

// Clean bulk-deletes all workspaces. Danger zone, test-only.
func (s *workspaceService) Clean(ctx context.Context) error {
	return s.repo.Clean(ctx)
}

// cacheSet is best-effort: a cache write failure never fails the operation.
func (s *workspaceService) cacheSet(ctx context.Context, workspace *models.Workspace) {
	if s.cache == nil {
		return
	}
	_ = s.cache.SetWorkspace(ctx, workspace, workspaceCacheTTL)
}
