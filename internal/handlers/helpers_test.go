package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/headspa-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/headspa-scheduler/internal/db"
	"github.com/BruksfildServices01/headspa-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/headspa-scheduler/internal/infra/storage"
	"github.com/BruksfildServices01/headspa-scheduler/internal/logs"
	"github.com/BruksfildServices01/headspa-scheduler/internal/middleware"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/routes"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
	ucChat "github.com/BruksfildServices01/headspa-scheduler/internal/usecase/chat"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// 2025-06-01 10:00 em Paris
var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, timezone.Location("Europe/Paris"))

type memStore struct {
	mu         sync.Mutex
	objects    map[string][]byte
	failDelete bool
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}}
}

func (s *memStore) Put(_ context.Context, key, _ string, body []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = body
	return "https://cdn.test/" + key, nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return errors.New("bucket unavailable")
	}
	delete(s.objects, key)
	return nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok
}

func (s *memStore) setFailDelete(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failDelete = v
}

func (s *memStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

var _ storage.ObjectStore = (*memStore)(nil)

type env struct {
	r       *gin.Engine
	db      *gorm.DB
	cfg     *config.Config
	store   *memStore
	admin   *models.User
	client  *models.User
	formula *models.Formula
}

type routesDeps = routes.Deps

type envOption func(*routesDeps)

func withoutStore() envOption {
	return func(d *routes.Deps) { d.Store = nil }
}

func withHub(h *ucChat.Hub) envOption {
	return func(d *routes.Deps) { d.Hub = h }
}

func withRedis(rdb *redis.Client) envOption {
	return func(d *routes.Deps) { d.Redis = rdb }
}

func newEnv(t *testing.T, opts ...envOption) *env {
	t.Helper()

	db, err := dbpkg.NewSQLite(uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	e := &env{
		db: db,
		cfg: &config.Config{
			JWTSecret: "test-secret",
			JWTTTL:    time.Hour,
			Timezone:  "Europe/Paris",
		},
		store: newMemStore(),
	}

	deps := routes.Deps{
		DB:                 db,
		Config:             e.cfg,
		Logger:             logs.Discard(),
		Clock:              timezone.FixedClock(fixedNow, "Europe/Paris"),
		Locker:             lock.NewLocalDateLocker(5 * time.Second),
		Store:              e.store,
		EmailDomainChecker: func(string) bool { return true },
	}
	for _, opt := range opts {
		opt(&deps)
	}

	e.r = gin.New()
	routes.RegisterRoutes(e.r, deps)

	e.admin = e.user(t, "admin@nanaheadspa.fr", models.RoleAdmin)
	e.client = e.user(t, "camille@example.com", models.RoleClient)

	e.formula = &models.Formula{Title: "Rituel Zen", Price: 75, Duration: "1h", IsActive: true}
	require.NoError(t, db.Create(e.formula).Error)

	return e
}

func (e *env) user(t *testing.T, email, role string) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.User{
		FirstName:     "Test",
		LastName:      role,
		Email:         email,
		PasswordHash:  string(hashed),
		Role:          role,
		FidelityLevel: 1,
	}
	require.NoError(t, e.db.Create(u).Error)
	return u
}

func (e *env) token(t *testing.T, u *models.User) string {
	t.Helper()
	tok, err := middleware.SignToken(e.cfg.JWTSecret, u.ID, u.Role, time.Hour)
	require.NoError(t, err)
	return tok
}

type response struct {
	Code   int
	Header http.Header
	Body   map[string]any
}

func (r response) errorCode() string {
	s, _ := r.Body["error_code"].(string)
	return s
}

func (r response) data() map[string]any {
	m, _ := r.Body["data"].(map[string]any)
	return m
}

func (e *env) do(t *testing.T, method, path, token string, body any) response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.serve(t, req)
}

func (e *env) serve(t *testing.T, req *http.Request) response {
	t.Helper()

	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)

	out := response{Code: w.Code, Header: w.Header()}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out.Body), w.Body.String())
	}
	return out
}
