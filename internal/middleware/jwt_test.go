package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/uniadmit/admission-intake/internal/utils"
)

func newAuthedRequest(t *testing.T, secret, role string) *http.Request {
	t.Helper()
	at, err := utils.NewAccessToken(secret, 7, role, 5)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	return req
}

func TestJWTAuthInjectsClaims(t *testing.T) {
	e := echo.New()
	req := newAuthedRequest(t, "secret", "OFFICER")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := JWTAuth("secret")(func(c echo.Context) error {
		called = true
		require.Equal(t, "OFFICER", c.Get("role"))
		require.NotNil(t, c.Get("user_id"))
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	require.True(t, called)
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, JWTAuth("secret")(next)(e.NewContext(req, rec)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Signed with a different secret.
	req = newAuthedRequest(t, "other-secret", "ADMIN")
	rec = httptest.NewRecorder()
	require.NoError(t, JWTAuth("secret")(next)(e.NewContext(req, rec)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }

	run := func(role interface{}, allowed ...string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if role != nil {
			c.Set("role", role)
		}
		require.NoError(t, RequireRole(allowed...)(next)(c))
		return rec.Code
	}

	require.Equal(t, http.StatusOK, run("ADMIN", "ADMIN", "OFFICER"))
	require.Equal(t, http.StatusOK, run("OFFICER", "ADMIN", "OFFICER"))
	require.Equal(t, http.StatusForbidden, run("MANAGEMENT", "ADMIN", "OFFICER"))
	require.Equal(t, http.StatusForbidden, run(nil, "ADMIN"))
	require.Equal(t, http.StatusForbidden, run(12345, "ADMIN"))
}
