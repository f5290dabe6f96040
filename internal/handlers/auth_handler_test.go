package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/headspa-scheduler/internal/middleware"
)

func TestRegisterAndLogin(t *testing.T) {
	e := newEnv(t)

	register := map[string]string{
		"first_name": "Inès",
		"last_name":  "Moreau",
		"email":      "Ines.Moreau@Example.com",
		"password":   "motdepasse",
		"phone":      "0601020304",
	}

	res := e.do(t, http.MethodPost, "/api/v1/auth/register", "", register)
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	user := res.data()["user"].(map[string]any)
	assert.Equal(t, "ines.moreau@example.com", user["email"])
	assert.Equal(t, "client", user["role"])
	assert.Equal(t, "+33601020304", user["phone"])
	assert.NotContains(t, user, "password_hash")

	res = e.do(t, http.MethodPost, "/api/v1/auth/register", "", register)
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, "email_already_exists", res.errorCode())

	res = e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{"email": "x@example.com"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "ines.moreau@example.com", "password": "wrong-pass",
	})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "invalid_credentials", res.errorCode())

	res = e.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "INES.MOREAU@example.com", "password": "motdepasse",
	})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.NotEmpty(t, res.data()["token"])

	// o cookie basta para as rotas autenticadas
	cookies := (&http.Response{Header: res.Header}).Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(cookies[0])
	me := e.serve(t, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "ines.moreau@example.com", me.data()["email"])

	res = e.do(t, http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, res.Code)
}

func TestRegisterRejectsEmailDomain(t *testing.T) {
	e := newEnv(t, func(d *routesDeps) { d.EmailDomainChecker = func(string) bool { return false } })

	res := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"first_name": "A", "last_name": "B", "email": "a@nowhere.invalid", "password": "123456",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "invalid_email_domain", res.errorCode())
}

func TestRegisterRejectsInvalidPhone(t *testing.T) {
	e := newEnv(t)

	res := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"first_name": "Inès",
		"last_name":  "Moreau",
		"email":      "ines@example.com",
		"password":   "motdepasse",
		"phone":      "12",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "invalid_phone", res.errorCode())
}
