package handlers_test

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cabeçalho ftyp mínimo reconhecido como video/mp4
var mp4Header = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")

func bannerRequest(t *testing.T, token string, fields map[string]string, name string, file []byte) *http.Request {
	t.Helper()
	return multipartRequest(t, http.MethodPost, "/api/v1/banners", token, fields, "media", name, file)
}

func TestBannerUpsert(t *testing.T) {
	e := newEnv(t)
	adminTok := e.token(t, e.admin)

	res := e.serve(t, bannerRequest(t, adminTok, map[string]string{"page_name": "inconnue", "type": "gif"}, "a.png", pngBytes(t, 10, 10)))
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "invalid_banner", res.errorCode())

	res = e.serve(t, bannerRequest(t, adminTok, map[string]string{"page_name": "accueil", "type": "image"}, "", nil))
	assert.Equal(t, "media_required", res.errorCode())

	res = e.serve(t, bannerRequest(t, adminTok, map[string]string{"page_name": "accueil", "type": "video"}, "a.png", pngBytes(t, 10, 10)))
	assert.Equal(t, "unsupported_video", res.errorCode())

	res = e.serve(t, bannerRequest(t, adminTok,
		map[string]string{"page_name": "accueil", "type": "image", "title": "Bienvenue"}, "a.png", pngBytes(t, 40, 20)))
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	imageURL := res.data()["media_url"].(string)
	assert.True(t, strings.HasPrefix(imageURL, "https://cdn.test/banners/accueil/"))
	assert.True(t, strings.HasSuffix(imageURL, ".webp"))

	// trocar o tipo exige mídia nova
	res = e.serve(t, bannerRequest(t, adminTok, map[string]string{"page_name": "accueil", "type": "video"}, "", nil))
	assert.Equal(t, "media_required", res.errorCode())

	res = e.serve(t, bannerRequest(t, adminTok,
		map[string]string{"page_name": "accueil", "type": "video", "subtitle": "Détente"}, "intro.mp4", mp4Header))
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, "video", res.data()["type"])
	assert.True(t, strings.HasSuffix(res.data()["media_url"].(string), ".mp4"))
	assert.False(t, e.store.has(strings.TrimPrefix(imageURL, "https://cdn.test/")))
	assert.Equal(t, 1, e.store.len())

	res = e.do(t, http.MethodGet, "/api/v1/banners/accueil", "", nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Détente", res.data()["subtitle"])
	id := res.data()["id"].(string)

	res = e.do(t, http.MethodGet, "/api/v1/banners/contact", "", nil)
	assert.Equal(t, "banner_not_found", res.errorCode())

	res = e.do(t, http.MethodGet, "/api/v1/banners/ailleurs", "", nil)
	assert.Equal(t, "invalid_page", res.errorCode())

	res = e.do(t, http.MethodGet, "/api/v1/banners", "", nil)
	assert.EqualValues(t, 1, res.Body["total"])

	res = e.do(t, http.MethodDelete, "/api/v1/banners/"+id, e.token(t, e.client), nil)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = e.do(t, http.MethodDelete, "/api/v1/banners/"+id, adminTok, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Zero(t, e.store.len())

	res = e.do(t, http.MethodGet, "/api/v1/banners/accueil", "", nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestBannerClearMedia(t *testing.T) {
	e := newEnv(t)
	adminTok := e.token(t, e.admin)

	res := e.serve(t, bannerRequest(t, adminTok, map[string]string{"page_name": "formules", "type": "image"}, "a.png", pngBytes(t, 20, 20)))
	require.Equal(t, http.StatusCreated, res.Code, res.Body)

	res = e.serve(t, bannerRequest(t, adminTok,
		map[string]string{"page_name": "formules", "type": "image", "clear_media": "true"}, "", nil))
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Empty(t, res.data()["media_url"])
	assert.Zero(t, e.store.len())
}
