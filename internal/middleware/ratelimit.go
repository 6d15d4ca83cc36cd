package middleware

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"accounthub/internal/caching"
	"accounthub/internal/common"
)

// RateLimit rejects clients that exceed limit requests per window, keyed by
// client IP and route. Counting lives in Redis so the limit holds across
// replicas. A counting failure fails open.
func RateLimit(cache caching.Cache, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP() + ":" + c.Path()

			limited, err := cache.IsRateLimited(c.Request().Context(), key, limit, window)
			if err != nil {
				c.Logger().Error(err)
				return next(c)
			}
			if limited {
				return c.JSON(http.StatusTooManyRequests,
					common.NewErrorResponse("RATE_LIMITED", "Too many requests", nil))
			}

			return next(c)
		}
	}
}
