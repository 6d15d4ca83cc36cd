package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"accounthub/internal/common"
	"accounthub/internal/domain"
	"accounthub/internal/models"
	"accounthub/internal/services"
)

// MeHandlers serves the authenticated caller's own account.
type MeHandlers struct {
	accounts services.AccountService
	media    services.MediaService
}

func NewMeHandlers(accounts services.AccountService, media services.MediaService) *MeHandlers {
	return &MeHandlers{accounts: accounts, media: media}
}

// Get returns the caller's safe account view.
func (h *MeHandlers) Get(c echo.Context) error {
	account, ok := common.GetAccount(c)
	if !ok {
		return common.HandleError(c, domain.ErrUnauthorized)
	}
	return c.JSON(http.StatusOK, account.Safe())
}

// UpdateMeRequest is a partial profile update; absent fields stay untouched
// and device_id appends to the device list.
type UpdateMeRequest struct {
	FirstName         string          `json:"first_name"`
	LastName          string          `json:"last_name"`
	PhoneNumber       string          `json:"phone_number"`
	Email             string          `json:"email"`
	ProfilePictureURL string          `json:"profile_picture_url"`
	DeviceID          string          `json:"device_id"`
	UserMetadata      models.Metadata `json:"user_metadata"`
}

// Patch applies a partial merge to the caller's account.
func (h *MeHandlers) Patch(c echo.Context) error {
	ctx := c.Request().Context()

	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.HandleError(c, domain.ErrUnauthorized)
	}

	var req UpdateMeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email != "" {
		if err := common.ValidateEmail(req.Email); err != nil {
			return common.HandleError(c, err)
		}
	}

	account, err := h.accounts.Update(ctx, accountID, services.AccountPatch{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		PhoneNumber:       req.PhoneNumber,
		Email:             req.Email,
		ProfilePictureURL: req.ProfilePictureURL,
		DeviceID:          req.DeviceID,
		UserMetadata:      req.UserMetadata,
	})
	if err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusOK, account.Safe())
}

// UpdatePasswordRequest carries the replacement password.
type UpdatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

// UpdatePassword replaces the caller's password.
func (h *MeHandlers) UpdatePassword(c echo.Context) error {
	ctx := c.Request().Context()

	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.HandleError(c, domain.ErrUnauthorized)
	}

	var req UpdatePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidatePassword(req.Password); err != nil {
		return common.HandleError(c, err)
	}

	if err := h.accounts.UpdatePassword(ctx, accountID, req.Password); err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
}

// AvatarUploadURL returns a presigned PUT URL for the caller's profile
// picture; the API never proxies the image bytes.
func (h *MeHandlers) AvatarUploadURL(c echo.Context) error {
	ctx := c.Request().Context()

	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.HandleError(c, domain.ErrUnauthorized)
	}

	uploadURL, err := h.media.ProfilePictureUploadURL(ctx, accountID)
	if err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"upload_url": uploadURL})
}

// AvatarURL returns a presigned GET URL for the caller's profile picture.
func (h *MeHandlers) AvatarURL(c echo.Context) error {
	ctx := c.Request().Context()

	accountID, ok := common.GetAccountIDFromContext(ctx)
	if !ok {
		return common.HandleError(c, domain.ErrUnauthorized)
	}

	viewURL, err := h.media.ProfilePictureURL(ctx, accountID)
	if err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"url": viewURL})
}
