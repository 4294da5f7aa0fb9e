package middleware

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type contextKey string

// RequestIDKey is the context key under which the request ID is stored.
const RequestIDKey contextKey = "request_id"

// RequestID assigns each request a unique ID, honoring an inbound
// X-Request-ID header when one is supplied by an upstream proxy.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.New().String()
			}

			c.Set("request_id", rid)
			c.Response().Header().Set("X-Request-ID", rid)

			ctx := context.WithValue(c.Request().Context(), RequestIDKey, rid)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
