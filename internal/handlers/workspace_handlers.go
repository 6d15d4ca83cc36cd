package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"accounthub/internal/common"
	"accounthub/internal/domain"
	"accounthub/internal/models"
	"accounthub/internal/services"
)

// WorkspaceHandlers manages the workspace reference targets. Creating a
// workspace grants the creator the admin role in it; management of an
// existing workspace requires that admin grant.
type WorkspaceHandlers struct {
	workspaces services.WorkspaceService
	accounts   services.AccountService
}

func NewWorkspaceHandlers(workspaces services.WorkspaceService, accounts services.AccountService) *WorkspaceHandlers {
	return &WorkspaceHandlers{workspaces: workspaces, accounts: accounts}
}

// WorkspaceRequest represents the create/rename payload.
type WorkspaceRequest struct {
	Name string `json:"name" validate:"required"`
}

// Create opens a new workspace and grants the caller its admin role.
func (h *WorkspaceHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.HandleError(c, domain.ErrUnauthorized)
	}

	var req WorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	workspace, err := h.workspaces.Create(ctx, req.Name)
	if err != nil {
		return common.HandleError(c, err)
	}

	if _, err := h.accounts.GrantPermission(ctx, accountID, workspace.ID, models.RoleAdmin); err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusCreated, workspace)
}

// Get returns a workspace the caller is a member of.
func (h *WorkspaceHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HandleError(c, err)
	}
	if err := h.requireMembership(c, id, ""); err != nil {
		return common.HandleError(c, err)
	}

	workspace, err := h.workspaces.GetByID(ctx, id)
	if err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusOK, workspace)
}

// Rename changes a workspace's name. Admin only.
func (h *WorkspaceHandlers) Rename(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HandleError(c, err)
	}
	if err := h.requireMembership(c, id, models.RoleAdmin); err != nil {
		return common.HandleError(c, err)
	}

	var req WorkspaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	workspace, err := h.workspaces.Rename(ctx, id, req.Name)
	if err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusOK, workspace)
}

// Delete removes a workspace. Admin only.
func (h *WorkspaceHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HandleError(c, err)
	}
	if err := h.requireMembership(c, id, models.RoleAdmin); err != nil {
		return common.HandleError(c, err)
	}

	if err := h.workspaces.Remove(ctx, id); err != nil {
		return common.HandleError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// requireMembership checks the caller holds a grant for workspaceID, and when
// role is non-empty, that exact role.
func (h *WorkspaceHandlers) requireMembership(c echo.Context, workspaceID uuid.UUID, role string) error {
	account, ok := common.GetAccount(c)
	if !ok {
		return domain.ErrUnauthorized
	}
	for _, grant := range account.Permissions {
		if grant.WorkspaceID == workspaceID {
			if role == "" || grant.Role == role {
				return nil
			}
			return domain.ErrForbidden
		}
	}
	return domain.ErrForbidden
}
