package repositories

import (
	"context"

	"github.com/google/uuid"

	"accounthub/internal/domain"
	"accounthub/internal/models"
)

type WorkspaceRepository interface {
	Insert(ctx context.Context, workspace *models.Workspace) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error)
	Save(ctx context.Context, workspace *models.Workspace) error
	Delete(ctx context.Context, id uuid.UUID) error
	Clean(ctx context.Context) error
}

type workspaceRepo struct {
	db Database
}

func NewWorkspaceRepo(db Database) WorkspaceRepository {
	return &workspaceRepo{db: db}
}

func (r *workspaceRepo) Insert(ctx context.Context, workspace *models.Workspace) error {
	query := `
		INSERT INTO workspaces (id, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, workspace.ID, workspace.Name, workspace.CreatedAt, workspace.UpdatedAt)
	return mapStoreError(err)
}

func (r *workspaceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Workspace, error) {
	workspace := &models.Workspace{}
	query := `SELECT id, name, created_at, updated_at FROM workspaces WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&workspace.ID, &workspace.Name, &workspace.CreatedAt, &workspace.UpdatedAt)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return workspace, nil
}

func (r *workspaceRepo) Save(ctx context.Context, workspace *models.Workspace) error {
	query := `UPDATE workspaces SET name = $2, updated_at = $3 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, workspace.ID, workspace.Name, workspace.UpdatedAt)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *workspaceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM workspaces WHERE id = $1`, id)
	if err != nil {
		return mapStoreError(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Clean removes every workspace. Danger zone, test-only.
func (r *workspaceRepo) Clean(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM workspaces`)
	return mapStoreError(err)
}
