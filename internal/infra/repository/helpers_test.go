package repository

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dbpkg "github.com/BruksfildServices01/headspa-scheduler/internal/db"
	domain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := dbpkg.NewSQLite(uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, role string) *models.User {
	t.Helper()
	u := &models.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedFormula(t *testing.T, db *gorm.DB, title string) *models.Formula {
	t.Helper()
	f := &models.Formula{Title: title, Price: 80, Duration: "60 min", IsActive: true}
	require.NoError(t, db.Create(f).Error)
	return f
}

func seedAppointment(
	t *testing.T,
	db *gorm.DB,
	client *models.User,
	formula *models.Formula,
	date, start, end string,
	status domain.Status,
) *models.Appointment {
	t.Helper()
	s, err := domain.ToMinutes(start)
	require.NoError(t, err)
	e, err := domain.ToMinutes(end)
	require.NoError(t, err)

	ap := &models.Appointment{
		ClientID:    client.ID,
		FormulaID:   formula.ID,
		Date:        date,
		StartTime:   start,
		EndTime:     end,
		StartMinute: s,
		EndMinute:   e,
		Status:      string(status),
	}
	require.NoError(t, db.Create(ap).Error)
	return ap
}
