package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/headspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/headspa-scheduler/internal/logs"
)

func TestAuditLogs(t *testing.T) {
	var d *audit.Dispatcher
	e := newEnv(t, func(deps *routesDeps) {
		d = audit.NewDispatcher(audit.New(deps.DB), logs.Discard())
		deps.Audit = d
	})
	adminTok := e.token(t, e.admin)

	res := e.do(t, http.MethodPost, "/api/v1/formulas", adminTok, map[string]any{
		"title": "Rituel Express", "price": 35, "duration": "30 min",
	})
	require.Equal(t, http.StatusCreated, res.Code)

	res = e.do(t, http.MethodPost, "/api/v1/appointments", e.token(t, e.client), map[string]string{
		"formula_id": e.formula.ID.String(),
		"date":       "2025-06-04",
		"start_time": "10:00",
		"end_time":   "11:00",
	})
	require.Equal(t, http.StatusCreated, res.Code)

	// drena a fila antes de consultar
	d.Close()

	res = e.do(t, http.MethodGet, "/api/v1/audit-logs", e.token(t, e.client), nil)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = e.do(t, http.MethodGet, "/api/v1/audit-logs", adminTok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 2, res.data()["total"])

	res = e.do(t, http.MethodGet, "/api/v1/audit-logs?entity=formula", adminTok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.data()["total"])
	entries := res.data()["logs"].([]any)
	require.Len(t, entries, 1)
	assert.Equal(t, "formula_created", entries[0].(map[string]any)["action"])

	res = e.do(t, http.MethodGet, "/api/v1/audit-logs?from=01/06/2025", adminTok, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "invalid_from", res.errorCode())
}
