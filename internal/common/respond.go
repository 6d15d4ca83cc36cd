package common

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"accounthub/internal/domain"
)

// ErrorResponse is the standardized error body.
type ErrorResponse struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details,omitempty"`
	} `json:"error"`
}

// NewErrorResponse creates a standardized error response.
func NewErrorResponse(code string, message string, details map[string]string) *ErrorResponse {
	var resp ErrorResponse
	resp.Error.Code = code
	resp.Error.Message = message
	resp.Error.Details = details
	return &resp
}

// HandleError maps a domain error onto an HTTP response. Validation is the
// only kind that leaks field-level detail; credential and code mismatches stay
// behind a generic unauthorized message. Anything unrecognized is logged with
// full detail and surfaced as an opaque internal error.
func HandleError(c echo.Context, err error) error {
	if ve, ok := domain.AsValidation(err); ok {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("VALIDATION_ERROR", "Validation failed", ve.Fields))
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, NewErrorResponse("UNAUTHORIZED", "Unauthorized", nil))
	case errors.Is(err, domain.ErrForbidden):
		return c.JSON(http.StatusForbidden, NewErrorResponse("FORBIDDEN", "Insufficient permissions", nil))
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, NewErrorResponse("NOT_FOUND", "Resource not found", nil))
	case errors.Is(err, domain.ErrConflict):
		return c.JSON(http.StatusConflict, NewErrorResponse("CONFLICT", "Resource already exists", nil))
	}

	c.Logger().Error(err)
	return c.JSON(http.StatusInternalServerError, NewErrorResponse("SERVER_ERROR", "Internal server error", nil))
}
