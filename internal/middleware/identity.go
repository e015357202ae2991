package middleware

// identity.go holds helpers shared by the rate limit and cache
// middleware for deriving a stable per-user key.

import (
	"fmt"

	"github.com/labstack/echo/v4"
)

// userKey returns a string identity for the authenticated user, or
// "guest" for anonymous requests.  JWTAuth stores the subject claim as
// a JSON number, so any scalar type is accepted here.
func userKey(c echo.Context) string {
	v := c.Get("user_id")
	if v == nil {
		return "guest"
	}
	switch id := v.(type) {
	case string:
		if id != "" {
			return id
		}
	case float64:
		return fmt.Sprintf("%.0f", id)
	case uint64:
		return fmt.Sprintf("%d", id)
	}
	return "guest"
}
