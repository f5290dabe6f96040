package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/imaging"
	"github.com/BruksfildServices01/headspa-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/headspa-scheduler/internal/logs"
)

const (
	maxImageBytes = 10 << 20 // 10 MB
	maxVideoBytes = 50 << 20 // 50 MB
)

// ==================================================
// 📤 Upload multipart
// ==================================================

// formFile devolve o arquivo do campo ou nil quando ausente.
func formFile(c *gin.Context, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}

// readUpload lê o arquivo inteiro respeitando o limite. Responde e devolve false em erro.
func readUpload(c *gin.Context, fh *multipart.FileHeader, limit int64) ([]byte, bool) {
	if fh.Size > limit {
		httperr.BadRequest(c, "file_too_large",
			fmt.Sprintf("Fichier trop volumineux (max %d Mo).", limit>>20))
		return nil, false
	}

	f, err := fh.Open()
	if err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_read_file", err))
		return nil, false
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_read_file", err))
		return nil, false
	}
	if int64(len(raw)) > limit {
		httperr.BadRequest(c, "file_too_large",
			fmt.Sprintf("Fichier trop volumineux (max %d Mo).", limit>>20))
		return nil, false
	}
	return raw, true
}

// readWebP lê a imagem e converte para WebP.
func readWebP(c *gin.Context, fh *multipart.FileHeader) ([]byte, bool) {
	raw, ok := readUpload(c, fh, maxImageBytes)
	if !ok {
		return nil, false
	}

	encoded, err := imaging.ToWebP(raw)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			httperr.BadRequest(c, "unsupported_image", "Format accepté : PNG, JPEG, GIF ou WebP.")
			return nil, false
		}
		httperr.Respond(c, httperr.ErrInternal("failed_to_convert_image", err))
		return nil, false
	}
	return encoded, true
}

// readVideo aceita qualquer conteúdo detectado como video/*.
func readVideo(c *gin.Context, fh *multipart.FileHeader) ([]byte, string, bool) {
	raw, ok := readUpload(c, fh, maxVideoBytes)
	if !ok {
		return nil, "", false
	}

	ct := http.DetectContentType(raw)
	if !strings.HasPrefix(ct, "video/") {
		httperr.BadRequest(c, "unsupported_video", "Format vidéo non reconnu.")
		return nil, "", false
	}
	return raw, ct, true
}

// requireStore responde 503 quando o bucket não está configurado.
func requireStore(c *gin.Context, store storage.ObjectStore) bool {
	if store == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "storage_unavailable", "Stockage des médias non configuré.")
		return false
	}
	return true
}

// dropObject remove um objeto depois que o banco já foi atualizado.
// Falha só gera log: o objeto fica órfão no bucket.
func dropObject(c *gin.Context, store storage.ObjectStore, key string) {
	if store == nil || key == "" {
		return
	}
	if err := store.Delete(c.Request.Context(), key); err != nil {
		logs.From(c).Warn("orphan object", "key", key, "error", err)
	}
}
