package authz

import (
	"github.com/google/uuid"

	"accounthub/internal/domain"
	"accounthub/internal/models"
)

// Guard checks whether a caller's workspace-scoped role grants a required
// scope. Role resolution is a pure lookup in the static role table.
type Guard struct{}

func NewGuard() *Guard {
	return &Guard{}
}

// ResolveWorkspace picks the active workspace for a request: an explicitly
// requested workspace wins when present; otherwise the caller's first
// permission grant. Returns false when nothing resolves.
func ResolveWorkspace(requested uuid.UUID, account *models.Account) (uuid.UUID, bool) {
	if requested != uuid.Nil {
		return requested, true
	}
	if account != nil && len(account.Permissions) > 0 {
		return account.Permissions[0].WorkspaceID, true
	}
	return uuid.Nil, false
}

// Authorize allows the call iff the account holds a permission grant for
// workspaceID whose role includes scope. An unresolvable caller denies with
// ErrUnauthorized; everything else denies with ErrForbidden.
func (g *Guard) Authorize(account *models.Account, workspaceID uuid.UUID, scope string) error {
	if account == nil {
		return domain.ErrUnauthorized
	}
	if workspaceID == uuid.Nil {
		return domain.ErrForbidden
	}
	for _, grant := range account.Permissions {
		if grant.WorkspaceID == workspaceID {
			if models.RoleGrants(grant.Role, scope) {
				return nil
			}
			return domain.ErrForbidden
		}
	}
	return domain.ErrForbidden
}
