package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"accounthub/internal/authz"
	"accounthub/internal/common"
	"accounthub/internal/domain"
	"accounthub/internal/repositories"
	"accounthub/internal/token"
)

// WorkspaceHeader carries an explicit workspace choice. A missing or malformed
// value falls back to the caller's first permission grant.
const WorkspaceHeader = "X-Workspace-ID"

// Authenticate verifies the bearer token, loads the caller's account and
// resolves the active workspace onto the request context. A token whose
// subject no longer exists, or a banned account, is rejected as unauthorized.
func Authenticate(issuer *token.Issuer, accounts repositories.AccountRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			claims, err := issuer.Verify(c.Request().Context(), tokenString)
			if err != nil {
				return common.HandleError(c, err)
			}

			accountID, err := claims.AccountID()
			if err != nil {
				return common.HandleError(c, err)
			}

			account, err := accounts.GetByID(c.Request().Context(), accountID)
			if err != nil {
				return common.HandleError(c, domain.ErrUnauthorized)
			}
			if account.Banned {
				return common.HandleError(c, domain.ErrUnauthorized)
			}

			requested := uuid.Nil
			if header := c.Request().Header.Get(WorkspaceHeader); header != "" {
				if id, parseErr := uuid.Parse(strings.TrimSpace(header)); parseErr == nil {
					requested = id
				}
			}
			// unresolved stays uuid.Nil; the scope guard denies later
			workspaceID, _ := authz.ResolveWorkspace(requested, account)

			ctx := common.WithIdentity(c.Request().Context(), accountID, workspaceID)
			c.SetRequest(c.Request().WithContext(ctx))
			common.SetAccount(c, account)

			return next(c)
		}
	}
}
