package appointment

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dbpkg "github.com/BruksfildServices01/headspa-scheduler/internal/db"
	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/infra/lock"
	"github.com/BruksfildServices01/headspa-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
)

// 2025-06-01 10:00 em Paris
var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, timezone.Location("Europe/Paris"))

type fixture struct {
	db      *gorm.DB
	repo    *repository.AppointmentGormRepository
	locker  *lock.LocalDateLocker
	clock   *timezone.Clock
	client  *models.User
	admin   *models.User
	formula *models.Formula
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := dbpkg.NewSQLite(uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	f := &fixture{
		db:     db,
		repo:   repository.NewAppointmentGormRepository(db),
		locker: lock.NewLocalDateLocker(5 * time.Second),
		clock:  timezone.FixedClock(fixedNow, "Europe/Paris"),
	}
	f.client = f.user(t, models.RoleClient)
	f.admin = f.user(t, models.RoleAdmin)
	f.formula = f.newFormula(t, "Rituel Zen")
	return f
}

func (f *fixture) user(t *testing.T, role string) *models.User {
	t.Helper()
	u := &models.User{
		FirstName:    "Camille",
		LastName:     "Martin",
		Email:        uuid.NewString() + "@example.fr",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, f.db.Create(u).Error)
	return u
}

func (f *fixture) newFormula(t *testing.T, title string) *models.Formula {
	t.Helper()
	fm := &models.Formula{Title: title, Price: 90, Duration: "60 min", IsActive: true}
	require.NoError(t, f.db.Create(fm).Error)
	return fm
}

func (f *fixture) create() *CreateAppointment {
	return NewCreateAppointment(f.repo, f.locker, f.clock, nil, nil)
}

func (f *fixture) clientActor() domain.Actor {
	return domain.Actor{ID: f.client.ID, Role: models.RoleClient}
}

func (f *fixture) adminActor() domain.Actor {
	return domain.Actor{ID: f.admin.ID, Role: models.RoleAdmin}
}

func (f *fixture) book(t *testing.T, date, start, end string) *models.Appointment {
	t.Helper()
	ap, err := f.create().Execute(t.Context(), CreateAppointmentInput{
		Actor:     f.clientActor(),
		FormulaID: f.formula.ID.String(),
		Date:      date,
		StartTime: start,
		EndTime:   end,
	})
	require.NoError(t, err)
	return ap
}

func requireKind(t *testing.T, err error, kind httperr.Kind, code string) {
	t.Helper()
	require.Error(t, err)
	e, ok := httperr.As(err)
	require.True(t, ok, "expected *httperr.Error, got %T: %v", err, err)
	require.Equal(t, kind, e.Kind, "kind for %v", err)
	if code != "" {
		require.Equal(t, code, e.Code)
	}
}

func strPtr(s string) *string { return &s }
