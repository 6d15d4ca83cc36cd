package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"accounthub/internal/common"
	"accounthub/internal/domain"
	"accounthub/internal/models"
	"accounthub/internal/services"
)

// InviteHandlers manages workspace invitations. All routes except Accept sit
// behind the scope middleware and act on the caller's active workspace.
type InviteHandlers struct {
	invites services.InviteService
}

func NewInviteHandlers(invites services.InviteService) *InviteHandlers {
	return &InviteHandlers{invites: invites}
}

// CreateInviteRequest represents the invite creation payload.
type CreateInviteRequest struct {
	Email     string `json:"email" validate:"required,email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
}

// Create issues a new invite for the active workspace.
func (h *InviteHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	workspaceID, ok := common.GetWorkspaceIDFromContext(ctx)
	if !ok {
		return common.HandleError(c, domain.ErrForbidden)
	}

	var req CreateInviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateEmail(req.Email); err != nil {
		return common.HandleError(c, err)
	}

	invite, err := h.invites.Create(ctx, workspaceID, services.CreateInviteRequest{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusCreated, invite.Safe())
}

// List returns all invites of the active workspace.
func (h *InviteHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	workspaceID, ok := common.GetWorkspaceIDFromContext(ctx)
	if !ok {
		return common.HandleError(c, domain.ErrForbidden)
	}

	invites, err := h.invites.GetAll(ctx, workspaceID)
	if err != nil {
		return common.HandleError(c, err)
	}

	views := make([]models.InviteView, 0, len(invites))
	for _, invite := range invites {
		views = append(views, invite.Safe())
	}
	return c.JSON(http.StatusOK, views)
}

// Get returns one invite of the active workspace.
func (h *InviteHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	workspaceID, ok := common.GetWorkspaceIDFromContext(ctx)
	if !ok {
		return common.HandleError(c, domain.ErrForbidden)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HandleError(c, err)
	}

	invite, err := h.invites.GetByID(ctx, workspaceID, id)
	if err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusOK, invite.Safe())
}

// Resend regenerates the invitation code and re-sends the invite email.
func (h *InviteHandlers) Resend(c echo.Context) error {
	ctx := c.Request().Context()

	workspaceID, ok := common.GetWorkspaceIDFromContext(ctx)
	if !ok {
		return common.HandleError(c, domain.ErrForbidden)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HandleError(c, err)
	}

	invite, err := h.invites.Resend(ctx, workspaceID, id)
	if err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusOK, invite.Safe())
}

// AcceptInviteRequest represents the invite acceptance payload. Acceptance is
// unauthenticated: the invited person proves possession of the emailed code.
type AcceptInviteRequest struct {
	WorkspaceID string `json:"workspace_id" validate:"required"`
	Code        string `json:"code" validate:"required"`
}

// Accept redeems an invitation code.
func (h *InviteHandlers) Accept(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HandleError(c, err)
	}

	var req AcceptInviteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	workspaceID, err := common.ValidateUUID(req.WorkspaceID, "workspace_id")
	if err != nil {
		return common.HandleError(c, err)
	}

	invite, err := h.invites.Accept(ctx, workspaceID, id, req.Code)
	if err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusOK, invite.Safe())
}

// Delete removes an invite from the active workspace.
func (h *InviteHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	workspaceID, ok := common.GetWorkspaceIDFromContext(ctx)
	if !ok {
		return common.HandleError(c, domain.ErrForbidden)
	}

	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.HandleError(c, err)
	}

	if err := h.invites.Remove(ctx, workspaceID, id); err != nil {
		return common.HandleError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
