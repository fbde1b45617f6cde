package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// HeaderRequestID is the inbound/outbound request correlation header.
const HeaderRequestID = "X-Request-ID"

// RequestID assigns every request a correlation id, honoring one supplied
// by the caller, and echoes it on the response.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(HeaderRequestID)
			if rid == "" {
				rid = uuid.New().String()
			}
			c.Set("request_id", rid)
			c.Response().Header().Set(HeaderRequestID, rid)
			return next(c)
		}
	}
}
