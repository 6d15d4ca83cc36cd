package models

import (
	"time"

	"github.com/google/uuid"
)

// Workspace is a tenant boundary. Permissions and invites are scoped to
// exactly one workspace; the workspace itself is a pure reference target.
type Workspace struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewWorkspace creates a workspace with a fresh id.
func NewWorkspace(name string) *Workspace {
	now := time.Now()
	return &Workspace{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
