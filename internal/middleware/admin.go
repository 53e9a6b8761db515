package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/utils"
)

// AdminAuth gates catalog and account administration endpoints behind the
// configured admin credential.  The expected password hash is computed once
// at startup; requests carry standard HTTP Basic credentials.
func AdminAuth(adminUsername, adminPasswordHash string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Basic ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized access"})
			}
			username, password, ok := decodeBasic(auth)
			if !ok || username != adminUsername || !utils.VerifyPassword(adminPasswordHash, password) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "unauthorized access"})
			}
			return next(c)
		}
	}
}
