package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormulaCRUD(t *testing.T) {
	e := newEnv(t)
	adminTok := e.token(t, e.admin)
	clientTok := e.token(t, e.client)

	payload := map[string]any{
		"title":    "Head Spa Signature",
		"price":    120,
		"duration": "1h30",
		"soins":    []string{"Diagnostic", "Massage crânien"},
	}

	res := e.do(t, http.MethodPost, "/api/v1/formulas", clientTok, payload)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = e.do(t, http.MethodPost, "/api/v1/formulas", adminTok, map[string]any{"title": "Sans prix", "duration": "1h"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = e.do(t, http.MethodPost, "/api/v1/formulas", adminTok, map[string]any{"title": "Négatif", "duration": "1h", "price": -1})
	assert.Equal(t, "invalid_price", res.errorCode())

	res = e.do(t, http.MethodPost, "/api/v1/formulas", adminTok, payload)
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	id := res.data()["id"].(string)
	assert.Equal(t, true, res.data()["is_active"])
	assert.Len(t, res.data()["soins"], 2)

	res = e.do(t, http.MethodPost, "/api/v1/formulas", adminTok, payload)
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, "formula_title_exists", res.errorCode())

	res = e.do(t, http.MethodGet, "/api/v1/formulas", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 2, res.Body["total"])

	t.Run("inactive hidden from public", func(t *testing.T) {
		res := e.do(t, http.MethodPut, "/api/v1/formulas/"+id, adminTok, map[string]any{"is_active": false, "price": 110})
		require.Equal(t, http.StatusOK, res.Code, res.Body)
		assert.EqualValues(t, 110, res.data()["price"])

		res = e.do(t, http.MethodGet, "/api/v1/formulas", "", nil)
		assert.EqualValues(t, 1, res.Body["total"])

		res = e.do(t, http.MethodGet, "/api/v1/formulas/"+id, "", nil)
		assert.Equal(t, http.StatusNotFound, res.Code)

		res = e.do(t, http.MethodGet, "/api/v1/formulas/"+id, adminTok, nil)
		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("delete", func(t *testing.T) {
		res := e.do(t, http.MethodPost, "/api/v1/appointments", clientTok, map[string]string{
			"formula_id": e.formula.ID.String(),
			"date":       "2025-06-03",
			"start_time": "10:00",
			"end_time":   "11:00",
		})
		require.Equal(t, http.StatusCreated, res.Code)

		res = e.do(t, http.MethodDelete, "/api/v1/formulas/"+e.formula.ID.String(), adminTok, nil)
		assert.Equal(t, http.StatusConflict, res.Code)
		assert.Equal(t, "formula_in_use", res.errorCode())

		res = e.do(t, http.MethodDelete, "/api/v1/formulas/"+id, adminTok, nil)
		assert.Equal(t, http.StatusOK, res.Code)

		res = e.do(t, http.MethodDelete, "/api/v1/formulas/"+id, adminTok, nil)
		assert.Equal(t, http.StatusNotFound, res.Code)
	})
}
