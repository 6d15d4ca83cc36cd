package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"accounthub/internal/common"
	"accounthub/pkg/logger"
)

// AuditMiddleware writes a structured audit line for every mutating request
// and every failed one. Reads on non-sensitive routes stay quiet.
type AuditMiddleware struct {
	log *logger.Logger
}

func NewAuditMiddleware(log *logger.Logger) *AuditMiddleware {
	return &AuditMiddleware{log: log}
}

func (m *AuditMiddleware) AuditRequest() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)

			method := c.Request().Method
			path := c.Path()
			if !m.shouldLog(method, path, err) {
				return err
			}

			event := m.log.Info()
			if err != nil || c.Response().Status >= http.StatusBadRequest {
				event = m.log.Warn()
			}

			event = event.
				Str("method", method).
				Str("path", path).
				Int("status", c.Response().Status).
				Str("ip", c.RealIP()).
				Str("user_agent", c.Request().UserAgent())

			if account, ok := common.GetAccount(c); ok {
				event = event.Str("account_id", account.ID.String())
			}
			if err != nil {
				event = event.Err(err)
			}

			event.Msg("audit")
			return err
		}
	}
}

func (m *AuditMiddleware) shouldLog(method, path string, reqErr error) bool {
	if reqErr != nil {
		return true
	}

	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}

	sensitivePrefixes := []string{"/v1/auth", "/v1/invites", "/v1/workspaces"}
	for _, prefix := range sensitivePrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
