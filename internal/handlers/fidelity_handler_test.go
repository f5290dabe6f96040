package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFidelityEndpoints(t *testing.T) {
	e := newEnv(t)
	tok := e.token(t, e.client)

	res := e.do(t, http.MethodGet, "/api/v1/fidelity/my-level", tok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.data()["level"])
	assert.Equal(t, true, res.data()["can_watch_today"])

	res = e.do(t, http.MethodPost, "/api/v1/fidelity/watch-ad", tok, map[string]string{"ad_id": "promo-juin"})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.EqualValues(t, 2, res.data()["new_level"])
	assert.NotEmpty(t, res.Body["message"])

	res = e.do(t, http.MethodPost, "/api/v1/fidelity/watch-ad", tok, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "already_watched_today", res.errorCode())

	res = e.do(t, http.MethodGet, "/api/v1/fidelity/ad-history", tok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.Body["total"])
}
