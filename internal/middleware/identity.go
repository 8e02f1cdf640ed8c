package middleware

import "github.com/labstack/echo/v4"

// userID returns the authenticated user id set by JWTAuth, or "anon" when
// the middleware runs ahead of authentication.
func userID(c echo.Context) string {
	if s, ok := c.Get("user_id").(string); ok && s != "" {
		return s
	}
	return "anon"
}
