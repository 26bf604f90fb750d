package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/busline/bus-ticket-booking/internal/utils"
)

func invoke(mw echo.MiddlewareFunc, req *http.Request) (*httptest.ResponseRecorder, echo.Context) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	_ = handler(c)
	return rec, c
}

func TestJWTAuthAcceptsIssuedToken(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 5, "CUSTOMER", 15)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec, c := invoke(JWTAuth("secret"), req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 5, c.Get("user_id"))
	assert.Equal(t, "CUSTOMER", c.Get("role"))
}

func TestJWTAuthRejectsBadToken(t *testing.T) {
	at, err := utils.NewAccessToken("secret", 5, "CUSTOMER", 15)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+at.Token)
	rec, _ := invoke(JWTAuth("a-different-secret"), req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _ = invoke(JWTAuth("secret"), req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "missing header")
}

func TestRequireRole(t *testing.T) {
	roleMW := RequireRole("ADMIN")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("role", "ADMIN")
	handler := roleMW(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	c = echo.New().NewContext(req, rec)
	c.Set("role", "CUSTOMER")
	require.NoError(t, handler(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
