package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/utils"
)

// usernameKey is the context key handlers read the acting user from.
const usernameKey = "username"

// Username returns the authenticated username stored by UserAuth, or "".
func Username(c echo.Context) string {
	if v, ok := c.Get(usernameKey).(string); ok {
		return v
	}
	return ""
}

// UserAuth resolves the acting user for tracker endpoints.  Two credential
// forms are accepted: a Bearer access token issued by login, or HTTP Basic
// credentials checked directly against the user directory.  Either way the
// username lands in the request context under "username"; requests with
// neither form, or with failing credentials, are rejected with 401.
func UserAuth(users *repository.UserRepo, jwtSecret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			switch {
			case strings.HasPrefix(auth, "Bearer "):
				raw := strings.TrimPrefix(auth, "Bearer ")
				username, err := utils.ParseAccessToken(jwtSecret, raw)
				if err != nil {
					return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid token"})
				}
				c.Set(usernameKey, username)
				return next(c)
			case strings.HasPrefix(auth, "Basic "):
				username, password, ok := decodeBasic(auth)
				if !ok {
					return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid authorization header"})
				}
				ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
				defer cancel()
				if _, err := users.Authenticate(ctx, username, password); err != nil {
					return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "invalid credentials"})
				}
				c.Set(usernameKey, username)
				return next(c)
			default:
				return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "error": "username and password are required"})
			}
		}
	}
}

// decodeBasic splits an HTTP Basic Authorization header into its username
// and password parts.
func decodeBasic(header string) (username, password string, ok bool) {
	payload, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(header, "Basic "))
	if err != nil {
		return "", "", false
	}
	creds := string(payload)
	i := strings.IndexByte(creds, ':')
	if i < 0 {
		// A password-less header still identifies the user but can never
		// authenticate, so treat it as malformed.
		return "", "", false
	}
	return creds[:i], creds[i+1:], true
}
