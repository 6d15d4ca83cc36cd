package common

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"accounthub/internal/models"
)

type contextKey string

const (
	AccountIDKey   contextKey = "account_id"
	WorkspaceIDKey contextKey = "workspace_id"
)

// accountKey stores the loaded account on the echo context so handlers behind
// the auth middleware never re-fetch it.
const accountKey = "auth_account"

// WithIdentity stamps the authenticated account and its active workspace onto
// the request context.
func WithIdentity(ctx context.Context, accountID, workspaceID uuid.UUID) context.Context {
	ctx = context.WithValue(ctx, AccountIDKey, accountID)
	return context.WithValue(ctx, WorkspaceIDKey, workspaceID)
}

// GetAccountIDFromContext extracts the authenticated account id.
func GetAccountIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(AccountIDKey).(uuid.UUID)
	return id, ok
}

// GetWorkspaceIDFromContext extracts the active workspace id. The zero UUID
// means the caller has no resolvable workspace.
func GetWorkspaceIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(WorkspaceIDKey).(uuid.UUID)
	return id, ok
}

// SetAccount caches the loaded account on the echo context.
func SetAccount(c echo.Context, account *models.Account) {
	c.Set(accountKey, account)
}

// GetAccount returns the account cached by the auth middleware.
func GetAccount(c echo.Context) (*models.Account, bool) {
	account, ok := c.Get(accountKey).(*models.Account)
	return account, ok
}
