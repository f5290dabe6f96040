package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

func TestAppointmentEndpoints(t *testing.T) {
	e := newEnv(t)
	clientTok := e.token(t, e.client)
	adminTok := e.token(t, e.admin)

	other := e.user(t, "lea@example.com", models.RoleClient)
	otherTok := e.token(t, other)

	booking := map[string]string{
		"formula_id": e.formula.ID.String(),
		"date":       "2025-06-02",
		"start_time": "14:00",
		"end_time":   "15:00",
	}

	t.Run("requires auth", func(t *testing.T) {
		res := e.do(t, http.MethodPost, "/api/v1/appointments", "", booking)
		assert.Equal(t, http.StatusUnauthorized, res.Code)
		assert.Equal(t, false, res.Body["success"])
	})

	var id string
	t.Run("create", func(t *testing.T) {
		res := e.do(t, http.MethodPost, "/api/v1/appointments", clientTok, booking)
		require.Equal(t, http.StatusCreated, res.Code, res.Body)
		assert.Equal(t, true, res.Body["success"])
		assert.Equal(t, "pending", res.data()["status"])
		id, _ = res.data()["id"].(string)
		require.NotEmpty(t, id)
	})

	t.Run("overlap is a conflict", func(t *testing.T) {
		res := e.do(t, http.MethodPost, "/api/v1/appointments", otherTok, map[string]string{
			"formula_id": e.formula.ID.String(),
			"date":       "2025-06-02",
			"start_time": "14:30",
			"end_time":   "15:30",
		})
		assert.Equal(t, http.StatusConflict, res.Code)
		assert.Equal(t, "time_conflict", res.errorCode())
	})

	t.Run("validation errors are 400", func(t *testing.T) {
		res := e.do(t, http.MethodPost, "/api/v1/appointments", clientTok, map[string]string{
			"formula_id": e.formula.ID.String(),
			"date":       "2025-06-02",
			"start_time": "16:00",
			"end_time":   "15:00",
		})
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "invalid_time_range", res.errorCode())
	})

	t.Run("stranger cannot read", func(t *testing.T) {
		res := e.do(t, http.MethodGet, "/api/v1/appointments/"+id, otherTok, nil)
		assert.Equal(t, http.StatusForbidden, res.Code)

		res = e.do(t, http.MethodGet, "/api/v1/appointments/not-a-uuid", clientTok, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "invalid_id", res.errorCode())
	})

	t.Run("mine", func(t *testing.T) {
		res := e.do(t, http.MethodGet, "/api/v1/appointments/my", clientTok, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.EqualValues(t, 1, res.Body["total"])

		res = e.do(t, http.MethodGet, "/api/v1/appointments/my", otherTok, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.EqualValues(t, 0, res.Body["total"])
		assert.Equal(t, []any{}, res.Body["data"])
	})

	t.Run("admin routes", func(t *testing.T) {
		res := e.do(t, http.MethodGet, "/api/v1/appointments/admin", clientTok, nil)
		assert.Equal(t, http.StatusForbidden, res.Code)
		assert.Equal(t, "admin_only", res.errorCode())

		res = e.do(t, http.MethodGet, "/api/v1/appointments/admin?status=pending", adminTok, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.EqualValues(t, 1, res.Body["total"])
		rows := res.Body["data"].([]any)
		row := rows[0].(map[string]any)
		assert.Equal(t, "Rituel Zen", row["formula_title"])
		assert.Equal(t, e.client.Email, row["client_email"])

		res = e.do(t, http.MethodGet, "/api/v1/appointments/admin?status=archived", adminTok, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code)
		assert.Equal(t, "invalid_filter", res.errorCode())

		res = e.do(t, http.MethodGet, "/api/v1/appointments/upcoming", adminTok, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.EqualValues(t, 1, res.Body["total"])
	})

	t.Run("status change", func(t *testing.T) {
		res := e.do(t, http.MethodPut, "/api/v1/appointments/"+id+"/status", clientTok, map[string]string{"status": "confirmed"})
		assert.Equal(t, http.StatusForbidden, res.Code)

		res = e.do(t, http.MethodPut, "/api/v1/appointments/"+id+"/status", adminTok, map[string]string{"status": "confirmed"})
		require.Equal(t, http.StatusOK, res.Code, res.Body)
		assert.Equal(t, "confirmed", res.data()["status"])
	})

	t.Run("stats", func(t *testing.T) {
		res := e.do(t, http.MethodGet, "/api/v1/appointments/stats/counts-by-status", adminTok, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.EqualValues(t, 1, res.data()["total_appointments"])

		res = e.do(t, http.MethodGet, "/api/v1/appointments/stats/monthly-trend", adminTok, nil)
		require.Equal(t, http.StatusOK, res.Code)
		assert.Len(t, res.Body["data"], 3)

		res = e.do(t, http.MethodGet, "/api/v1/appointments/stats/formula-popularity", clientTok, nil)
		assert.Equal(t, http.StatusForbidden, res.Code)
	})

	t.Run("cancel then rebook", func(t *testing.T) {
		res := e.do(t, http.MethodPut, "/api/v1/appointments/"+id+"/cancel", clientTok, nil)
		require.Equal(t, http.StatusOK, res.Code, res.Body)
		assert.Equal(t, "cancelled", res.data()["status"])

		res = e.do(t, http.MethodPost, "/api/v1/appointments", otherTok, map[string]string{
			"formula_id": e.formula.ID.String(),
			"date":       "2025-06-02",
			"start_time": "14:30",
			"end_time":   "15:30",
		})
		assert.Equal(t, http.StatusCreated, res.Code)
	})
}
