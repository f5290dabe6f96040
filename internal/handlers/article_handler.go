package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/headspa-scheduler/internal/audit"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/headspa-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/headspa-scheduler/internal/middleware"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/slug"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
)

const (
	articleDefaultLimit = 10
	articleMaxLimit     = 50
	articleMinTitle     = 3
	articleMaxTitle     = 200
	articleMinContent   = 50
)

type ArticleHandler struct {
	db    *gorm.DB
	store storage.ObjectStore
	clock *timezone.Clock
	audit *audit.Dispatcher
}

func NewArticleHandler(db *gorm.DB, store storage.ObjectStore, clock *timezone.Clock, audit *audit.Dispatcher) *ArticleHandler {
	return &ArticleHandler{db: db, store: store, clock: clock, audit: audit}
}

// ======================================================
// 📖 LEITURA
// ======================================================

// List é público: só publicados, salvo para admin com include_unpublished=true.
func (h *ArticleHandler) List(c *gin.Context) {
	limit := articleDefaultLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = min(v, articleMaxLimit)
	}
	skip := 0
	if v, err := strconv.Atoi(c.Query("skip")); err == nil && v > 0 {
		skip = v
	}
	dir := "DESC"
	if c.Query("sort_order") == "asc" {
		dir = "ASC"
	}

	q := h.db.Model(&models.Article{})
	if !(middleware.Actor(c).IsAdmin() && c.Query("include_unpublished") == "true") {
		q = q.Where("is_published = ?", true)
	}
	// categoria desconhecida é ignorada ("Toutes les catégories")
	if cat, ok := normalizeCategory(c.Query("category")); ok {
		q = q.Where("category = ?", cat)
	}
	// searchTerm é o nome antigo do parâmetro
	if term := strings.ToLower(strings.TrimSpace(c.DefaultQuery("search", c.Query("searchTerm")))); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_count_articles", err))
		return
	}

	var articles []models.Article
	if err := q.
		Preload("Author").
		Order("published_at " + dir).
		Order("created_at " + dir).
		Limit(limit).
		Offset(skip).
		Find(&articles).Error; err != nil {

		httperr.Respond(c, httperr.ErrInternal("failed_to_list_articles", err))
		return
	}

	httpresp.Paged(c, articles, total, limit, skip)
}

func (h *ArticleHandler) Get(c *gin.Context) {
	article, ok := h.load(c)
	if !ok {
		return
	}
	if !article.IsPublished && !middleware.Actor(c).IsAdmin() {
		httperr.Forbidden(c, "article_not_published", "Cet article n'est pas encore publié.")
		return
	}
	httpresp.OK(c, article)
}

// ======================================================
// ✍️ ESCRITA (admin, multipart)
// ======================================================

func (h *ArticleHandler) Create(c *gin.Context) {
	if !requireStore(c, h.store) {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1<<20)

	fh := formFile(c, "image")
	if fh == nil {
		httperr.BadRequest(c, "image_required", "Une image est requise pour l'article.")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	content := strings.TrimSpace(c.PostForm("content"))
	category, catOK := normalizeCategory(c.PostForm("category"))

	verr := httperr.ErrValidation("invalid_article", "Les champs titre, catégorie et contenu sont requis.")
	if msg := titleProblem(title); msg != "" {
		verr.WithField("title", msg)
	}
	if !catOK {
		verr.WithField("category", "nouveauté ou conseil")
	}
	if utf8.RuneCountInString(content) < articleMinContent {
		verr.WithField("content", "mínimo 50 caracteres")
	}
	if len(verr.Fields) > 0 {
		httperr.Respond(c, verr)
		return
	}

	encoded, ok := readWebP(c, fh)
	if !ok {
		return
	}

	key := "articles/" + uuid.NewString() + ".webp"
	url, err := h.store.Put(c.Request.Context(), key, "image/webp", encoded)
	if err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_upload_image", err))
		return
	}

	actor := middleware.Actor(c)
	article := models.Article{
		Title:       title,
		Slug:        slug.Make(title),
		Category:    category,
		Content:     content,
		AuthorID:    actor.ID,
		ImageKey:    key,
		ImageURL:    url,
		PublishedAt: h.clock.Now().UTC(),
		IsPublished: c.PostForm("is_published") == "true",
	}

	if err := h.db.Create(&article).Error; err != nil {
		dropObject(c, h.store, key)
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "article_title_exists", "Un article avec ce titre existe déjà.")
			return
		}
		httperr.Respond(c, httperr.ErrInternal("failed_to_create_article", err))
		return
	}

	writeAudit(h.audit, c, "article_created", "article", article.ID, map[string]any{"slug": article.Slug})
	httpresp.Created(c, "Article créé avec succès.", article)
}

// Update aceita qualquer subconjunto dos campos. Imagem nova substitui a antiga;
// clear_image=true remove a imagem.
func (h *ArticleHandler) Update(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes+1<<20)

	article, ok := h.load(c)
	if !ok {
		return
	}
	oldKey := article.ImageKey

	verr := httperr.ErrValidation("invalid_article", "Article invalide.")
	if v, set := c.GetPostForm("title"); set {
		v = strings.TrimSpace(v)
		if msg := titleProblem(v); msg != "" {
			verr.WithField("title", msg)
		} else if v != article.Title {
			article.Title = v
			article.Slug = slug.Make(v)
		}
	}
	if v, set := c.GetPostForm("category"); set {
		cat, ok := normalizeCategory(v)
		if !ok {
			verr.WithField("category", "nouveauté ou conseil")
		}
		article.Category = cat
	}
	if v, set := c.GetPostForm("content"); set {
		v = strings.TrimSpace(v)
		if utf8.RuneCountInString(v) < articleMinContent {
			verr.WithField("content", "mínimo 50 caracteres")
		}
		article.Content = v
	}
	if len(verr.Fields) > 0 {
		httperr.Respond(c, verr)
		return
	}

	if v, set := c.GetPostForm("is_published"); set {
		publish := v == "true"
		if publish && !article.IsPublished {
			article.PublishedAt = h.clock.Now().UTC()
		}
		article.IsPublished = publish
	}

	var newKey string
	if fh := formFile(c, "image"); fh != nil {
		if !requireStore(c, h.store) {
			return
		}
		encoded, ok := readWebP(c, fh)
		if !ok {
			return
		}
		newKey = "articles/" + uuid.NewString() + ".webp"
		url, err := h.store.Put(c.Request.Context(), newKey, "image/webp", encoded)
		if err != nil {
			httperr.Respond(c, httperr.ErrInternal("failed_to_upload_image", err))
			return
		}
		article.ImageKey = newKey
		article.ImageURL = url
	} else if c.PostForm("clear_image") == "true" {
		article.ImageKey = ""
		article.ImageURL = ""
	}

	article.Author = nil
	if err := h.db.Save(article).Error; err != nil {
		dropObject(c, h.store, newKey)
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "article_title_exists", "Un autre article avec ce titre existe déjà.")
			return
		}
		httperr.Respond(c, httperr.ErrInternal("failed_to_update_article", err))
		return
	}

	// objeto antigo só sai depois que o banco aponta para o novo
	if oldKey != "" && oldKey != article.ImageKey {
		dropObject(c, h.store, oldKey)
	}

	writeAudit(h.audit, c, "article_updated", "article", article.ID, map[string]any{"slug": article.Slug})
	httpresp.Message(c, "Article mis à jour avec succès.", article)
}

func (h *ArticleHandler) Delete(c *gin.Context) {
	article, ok := h.load(c)
	if !ok {
		return
	}

	if err := h.db.Delete(&models.Article{}, "id = ?", article.ID).Error; err != nil {
		httperr.Respond(c, httperr.ErrInternal("failed_to_delete_article", err))
		return
	}
	dropObject(c, h.store, article.ImageKey)

	writeAudit(h.audit, c, "article_deleted", "article", article.ID, map[string]any{"slug": article.Slug})
	httpresp.Message(c, "Article supprimé avec succès.", nil)
}

// ======================================================
// AUXILIARES
// ======================================================

func (h *ArticleHandler) load(c *gin.Context) (*models.Article, bool) {
	var article models.Article
	if err := h.db.Preload("Author").First(&article, "slug = ?", strings.ToLower(c.Param("slug"))).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "article_not_found", "Article introuvable.")
			return nil, false
		}
		httperr.Respond(c, httperr.ErrInternal("failed_to_get_article", err))
		return nil, false
	}
	return &article, true
}

func normalizeCategory(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case models.ArticleCategoryNews, "nouveaute":
		return models.ArticleCategoryNews, true
	case models.ArticleCategoryAdvice:
		return models.ArticleCategoryAdvice, true
	}
	return "", false
}

func titleProblem(title string) string {
	n := utf8.RuneCountInString(title)
	switch {
	case n < articleMinTitle:
		return "mínimo 3 caracteres"
	case n > articleMaxTitle:
		return "máximo 200 caracteres"
	case slug.Make(title) == "":
		return "precisa conter letras ou números"
	}
	return ""
}
