package middleware

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iliyamo/habit-tracker/internal/repository"
	"github.com/iliyamo/habit-tracker/internal/store"
	"github.com/iliyamo/habit-tracker/internal/utils"
)

const secret = "test-secret"

func newUsers(t *testing.T) *repository.UserRepo {
	t.Helper()
	users := repository.NewUserRepo(store.NewMemoryStore())
	_, err := users.Create(context.Background(), "maria", "maria@example.com", "Maria", "s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	return users
}

// run sends a request with the given Authorization header through UserAuth
// and reports the status plus the username the next handler saw.
func run(t *testing.T, users *repository.UserRepo, authHeader string) (int, string) {
	t.Helper()
	e := echo.New()
	var seen string
	h := UserAuth(users, secret)(func(c echo.Context) error {
		seen = Username(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec.Code, seen
}

func basic(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

func TestUserAuth_Bearer(t *testing.T) {
	users := newUsers(t)
	access, err := utils.NewAccessToken(secret, "maria", 15)
	require.NoError(t, err)

	code, seen := run(t, users, "Bearer "+access.Token)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "maria", seen)
}

func TestUserAuth_BearerRejectsBadToken(t *testing.T) {
	users := newUsers(t)

	code, _ := run(t, users, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, code)

	// Token signed with a different secret.
	access, err := utils.NewAccessToken("other-secret", "maria", 15)
	require.NoError(t, err)
	code, _ = run(t, users, "Bearer "+access.Token)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestUserAuth_Basic(t *testing.T) {
	users := newUsers(t)

	code, seen := run(t, users, basic("maria", "s3cret"))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "maria", seen)

	code, _ = run(t, users, basic("maria", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = run(t, users, basic("nobody", "s3cret"))
	assert.Equal(t, http.StatusUnauthorized, code)

	// Credentials without the colon separator are malformed.
	code, _ = run(t, users, "Basic "+base64.StdEncoding.EncodeToString([]byte("maria")))
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestUserAuth_MissingHeader(t *testing.T) {
	users := newUsers(t)
	code, _ := run(t, users, "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestAdminAuth(t *testing.T) {
	hash, err := utils.HashPassword("letmein", bcrypt.MinCost)
	require.NoError(t, err)

	e := echo.New()
	h := AdminAuth("admin", hash)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	send := func(header string) int {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		if header != "" {
			req.Header.Set(echo.HeaderAuthorization, header)
		}
		rec := httptest.NewRecorder()
		require.NoError(t, h(e.NewContext(req, rec)))
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send(basic("admin", "letmein")))
	assert.Equal(t, http.StatusUnauthorized, send(basic("admin", "wrong")))
	assert.Equal(t, http.StatusUnauthorized, send(basic("maria", "letmein")))
	assert.Equal(t, http.StatusUnauthorized, send(""))
}
