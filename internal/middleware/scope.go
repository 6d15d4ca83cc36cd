package middleware

import (
	"github.com/labstack/echo/v4"

	"accounthub/internal/authz"
	"accounthub/internal/common"
	"accounthub/internal/domain"
)

type ScopeMiddleware struct {
	guard *authz.Guard
}

func NewScopeMiddleware(guard *authz.Guard) *ScopeMiddleware {
	return &ScopeMiddleware{guard: guard}
}

// RequireScope denies the request unless the caller's role in the active
// workspace grants scope.
func (m *ScopeMiddleware) RequireScope(scope string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account, ok := common.GetAccount(c)
			if !ok {
				return common.HandleError(c, domain.ErrUnauthorized)
			}

			workspaceID, _ := common.GetWorkspaceIDFromContext(c.Request().Context())
			if err := m.guard.Authorize(account, workspaceID, scope); err != nil {
				return common.HandleError(c, err)
			}

			return next(c)
		}
	}
}
