package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"accounthub/internal/common"
	"accounthub/internal/credentials"
	"accounthub/internal/domain"
	"accounthub/internal/models"
	"accounthub/internal/services"
	"accounthub/internal/token"
)

// AuthHandlers handles signup, signin and the verification/reset flows.
type AuthHandlers struct {
	accounts services.AccountService
	issuer   *token.Issuer
	codec    *credentials.Codec
}

func NewAuthHandlers(accounts services.AccountService, issuer *token.Issuer, codec *credentials.Codec) *AuthHandlers {
	return &AuthHandlers{
		accounts: accounts,
		issuer:   issuer,
		codec:    codec,
	}
}

// AuthResponse carries a signed session token and the safe account view.
type AuthResponse struct {
	Token string             `json:"token"`
	User  models.AccountView `json:"user"`
}

// SignupRequest represents the signup request payload.
type SignupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// Signup registers a new account and signs it in.
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := common.ValidateEmail(req.Email); err != nil {
		return common.HandleError(c, err)
	}
	if err := common.ValidatePassword(req.Password); err != nil {
		return common.HandleError(c, err)
	}
	if err := common.ValidateRequiredString(req.FirstName, "first_name"); err != nil {
		return common.HandleError(c, err)
	}
	if err := common.ValidateRequiredString(req.LastName, "last_name"); err != nil {
		return common.HandleError(c, err)
	}
	// phone_number backs a NOT NULL UNIQUE column; an empty value would
	// collide on the second signup instead of failing this one.
	if err := common.ValidateRequiredString(req.PhoneNumber, "phone_number"); err != nil {
		return common.HandleError(c, err)
	}

	account, err := h.accounts.Create(ctx, services.CreateAccountRequest{
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Password:    req.Password,
	})
	if err != nil {
		return common.HandleError(c, err)
	}

	signed, tokenID, err := h.issuer.Issue(account.ID)
	if err != nil {
		return common.HandleError(c, err)
	}

	if err := h.accounts.RecordLogin(ctx, account, c.RealIP(), tokenID); err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusCreated, AuthResponse{Token: signed, User: account.Safe()})
}

// SigninRequest represents the signin request payload.
type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signin authenticates email/password credentials. All credential failures
// collapse into the same unauthorized response.
func (h *AuthHandlers) Signin(c echo.Context) error {
	ctx := c.Request().Context()

	var req SigninRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	account, err := h.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return common.HandleError(c, domain.ErrUnauthorized)
	}
	if account.Banned || !account.ComparePassword(h.codec, req.Password) {
		return common.HandleError(c, domain.ErrUnauthorized)
	}

	signed, tokenID, err := h.issuer.Issue(account.ID)
	if err != nil {
		return common.HandleError(c, err)
	}

	if err := h.accounts.RecordLogin(ctx, account, c.RealIP(), tokenID); err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusOK, AuthResponse{Token: signed, User: account.Safe()})
}

// VerifyEmailRequest represents the email verification payload.
type VerifyEmailRequest struct {
	AccountID string `json:"account_id" validate:"required"`
	Code      string `json:"code" validate:"required"`
}

// VerifyEmail matches the submitted code against the verification slot.
func (h *AuthHandlers) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()

	var req VerifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	accountID, err := common.ValidateUUID(req.AccountID, "account_id")
	if err != nil {
		return common.HandleError(c, err)
	}

	if err := h.accounts.VerifyEmail(ctx, accountID, req.Code); err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"verified": true})
}

// ForgotPasswordRequest represents the reset request payload.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword issues a reset code and dispatches the reset notification.
// The code itself never appears in the response body.
func (h *AuthHandlers) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if err := common.ValidateEmail(req.Email); err != nil {
		return common.HandleError(c, err)
	}

	if _, err := h.accounts.RequestPasswordReset(ctx, req.Email); err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password reset notification sent"})
}

// ResetPasswordRequest represents the reset completion payload.
type ResetPasswordRequest struct {
	AccountID   string `json:"account_id" validate:"required"`
	Code        string `json:"code" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// ResetPassword completes the reset flow with the emailed code.
func (h *AuthHandlers) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()

	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	accountID, err := common.ValidateUUID(req.AccountID, "account_id")
	if err != nil {
		return common.HandleError(c, err)
	}
	if err := common.ValidatePassword(req.NewPassword); err != nil {
		return common.HandleError(c, err)
	}

	if err := h.accounts.ResetPassword(ctx, accountID, req.Code, req.NewPassword); err != nil {
		return common.HandleError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Password updated"})
}
