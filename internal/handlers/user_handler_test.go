package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

func TestUserAdminCRUD(t *testing.T) {
	e := newEnv(t)
	adminTok := e.token(t, e.admin)
	clientTok := e.token(t, e.client)

	res := e.do(t, http.MethodGet, "/api/v1/users", clientTok, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = e.do(t, http.MethodGet, "/api/v1/users?role=client", adminTok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.Body["total"])

	res = e.do(t, http.MethodGet, "/api/v1/users?role=superuser", adminTok, nil)
	assert.Equal(t, "invalid_role", res.errorCode())

	// qualquer usuário logado vê os admins
	res = e.do(t, http.MethodGet, "/api/v1/users/admins", clientTok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.Body["total"])

	res = e.do(t, http.MethodPost, "/api/v1/users/add", adminTok, map[string]any{
		"first_name": "Nina", "last_name": "Roux", "email": "nina@example.com",
		"password": "secret123", "role": "client",
	})
	assert.Equal(t, "missing_fields", res.errorCode())

	res = e.do(t, http.MethodPost, "/api/v1/users/add", adminTok, map[string]any{
		"first_name": "Nina", "last_name": "Roux", "email": "camille@example.com",
		"password": "secret123", "role": "client", "phone": "0601020304",
	})
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, "email_already_exists", res.errorCode())

	res = e.do(t, http.MethodPost, "/api/v1/users/add", adminTok, map[string]any{
		"first_name": "Nina", "last_name": "Roux", "email": "Nina@Example.com",
		"password": "secret123", "role": "client", "phone": "0601020304",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	ninaID := res.data()["id"].(string)
	assert.Equal(t, "nina@example.com", res.data()["email"])
	assert.Equal(t, "+33601020304", res.data()["phone"])
	assert.NotContains(t, res.data(), "password_hash")

	res = e.do(t, http.MethodGet, "/api/v1/users/email/nina@example.com", adminTok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, ninaID, res.data()["id"])

	res = e.do(t, http.MethodGet, "/api/v1/users/"+ninaID, adminTok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Roux", res.data()["last_name"])

	res = e.do(t, http.MethodDelete, "/api/v1/users/"+e.admin.ID.String(), adminTok, nil)
	assert.Equal(t, "cannot_delete_self", res.errorCode())

	res = e.do(t, http.MethodDelete, "/api/v1/users/"+ninaID, adminTok, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body)

	res = e.do(t, http.MethodGet, "/api/v1/users/"+ninaID, adminTok, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "user_not_found", res.errorCode())
}

func TestUserSelfUpdate(t *testing.T) {
	e := newEnv(t)
	clientTok := e.token(t, e.client)

	res := e.do(t, http.MethodPut, "/api/v1/users/"+e.client.ID.String(), clientTok, map[string]any{"first_name": "Camille"})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, "Camille", res.data()["first_name"])

	res = e.do(t, http.MethodPut, "/api/v1/users/"+e.client.ID.String(), clientTok, map[string]any{"role": "admin"})
	assert.Equal(t, "role_change_forbidden", res.errorCode())

	res = e.do(t, http.MethodPut, "/api/v1/users/"+e.admin.ID.String(), clientTok, map[string]any{"first_name": "Pirate"})
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = e.do(t, http.MethodPut, "/api/v1/users/admin/"+e.client.ID.String(), e.token(t, e.admin), map[string]any{"first_name": "X"})
	assert.Equal(t, "target_not_admin", res.errorCode())

	res = e.do(t, http.MethodPut, "/api/v1/users/admin/"+e.admin.ID.String(), e.token(t, e.admin), map[string]any{"role": "client"})
	assert.Equal(t, "admin_role_locked", res.errorCode())

	res = e.do(t, http.MethodPut, "/api/v1/users/admin/"+e.admin.ID.String(), e.token(t, e.admin), map[string]any{"last_name": "Nana"})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, models.RoleAdmin, res.data()["role"])
}

func TestUserStatsEndpoints(t *testing.T) {
	e := newEnv(t)
	adminTok := e.token(t, e.admin)

	res := e.do(t, http.MethodGet, "/api/v1/users/count", e.token(t, e.client), nil)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = e.do(t, http.MethodGet, "/api/v1/users/count", adminTok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 2, res.data()["count"])

	res = e.do(t, http.MethodGet, "/api/v1/users/registrations-last-7-days", adminTok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	days := res.Body["data"].([]any)
	require.Len(t, days, 7)
	assert.Equal(t, "2025-05-26", days[0].(map[string]any)["date"])
	assert.Equal(t, "2025-06-01", days[6].(map[string]any)["date"])

	res = e.do(t, http.MethodGet, "/api/v1/users/stats/counts-by-role", adminTok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 2, res.data()["total_users"])
	assert.EqualValues(t, 1, res.data()["total_clients"])
	assert.EqualValues(t, 1, res.data()["total_admins"])

	res = e.do(t, http.MethodGet, "/api/v1/users/stats/fidelity-engagement", adminTok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 0, res.data()["users_above_level_500"])
	assert.EqualValues(t, 0, res.data()["total_ads_watched"])

	res = e.do(t, http.MethodGet, "/api/v1/users/recent", adminTok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.data(), "count")
}
