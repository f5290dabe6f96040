package chat

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	dbpkg "github.com/BruksfildServices01/headspa-scheduler/internal/db"
	apDomain "github.com/BruksfildServices01/headspa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/headspa-scheduler/internal/httperr"
	"github.com/BruksfildServices01/headspa-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/headspa-scheduler/internal/models"
	"github.com/BruksfildServices01/headspa-scheduler/internal/timezone"
)

var fixedNow = time.Date(2025, 6, 1, 10, 0, 0, 0, timezone.Location("Europe/Paris"))

type fixture struct {
	db  *gorm.DB
	svc *Service
	hub *Hub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := dbpkg.NewSQLite(uuid.NewString())
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	hub := NewHub()
	return &fixture{
		db:  db,
		hub: hub,
		svc: NewService(repository.NewChatGormRepository(db), hub, timezone.FixedClock(fixedNow, "Europe/Paris"), nil),
	}
}

func (f *fixture) user(t *testing.T, role string) apDomain.Actor {
	t.Helper()
	u := &models.User{
		FirstName:    "Camille",
		LastName:     role,
		Email:        uuid.NewString() + "@example.fr",
		PasswordHash: "x",
		Role:         role,
	}
	require.NoError(t, f.db.Create(u).Error)
	return apDomain.Actor{ID: u.ID, Role: role}
}

func requireKind(t *testing.T, err error, kind httperr.Kind, code string) {
	t.Helper()
	require.Error(t, err)
	e, ok := httperr.As(err)
	require.True(t, ok, "expected *httperr.Error, got %v", err)
	assert.Equal(t, kind, e.Kind)
	assert.Equal(t, code, e.Code)
}

func TestStartWithAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	client := f.user(t, models.RoleClient)

	_, err := f.svc.StartWithAdmin(ctx, client)
	requireKind(t, err, httperr.KindNotFound, "no_admin_available")

	admin := f.user(t, models.RoleAdmin)
	f.user(t, models.RoleAdmin) // admin mais novo não é escolhido

	conv, err := f.svc.StartWithAdmin(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, client.ID, conv.ClientID)
	assert.Equal(t, admin.ID, conv.AdminID)
	require.NotNil(t, conv.Admin)

	again, err := f.svc.StartWithAdmin(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, again.ID)

	_, err = f.svc.StartWithAdmin(ctx, admin)
	requireKind(t, err, httperr.KindForbidden, "clients_only")
}

func TestAdminStart(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	client := f.user(t, models.RoleClient)
	admin := f.user(t, models.RoleAdmin)
	other := f.user(t, models.RoleAdmin)

	_, err := f.svc.AdminStart(ctx, client, client.ID)
	requireKind(t, err, httperr.KindForbidden, "admin_only")

	_, err = f.svc.AdminStart(ctx, admin, other.ID)
	requireKind(t, err, httperr.KindNotFound, "client_not_found")

	_, err = f.svc.AdminStart(ctx, admin, uuid.New())
	requireKind(t, err, httperr.KindNotFound, "client_not_found")

	conv, err := f.svc.AdminStart(ctx, admin, client.ID)
	require.NoError(t, err)

	// o cliente cai na mesma conversa
	mine, err := f.svc.StartWithAdmin(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, conv.ID, mine.ID)
}

func TestSendAndRead(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	client := f.user(t, models.RoleClient)
	admin := f.user(t, models.RoleAdmin)
	stranger := f.user(t, models.RoleClient)

	conv, err := f.svc.StartWithAdmin(ctx, client)
	require.NoError(t, err)

	adminFeed, stop := f.hub.Subscribe(admin.ID)
	defer stop()

	t.Run("validation", func(t *testing.T) {
		_, err := f.svc.Send(ctx, client, conv.ID, "   ")
		requireKind(t, err, httperr.KindValidation, "content_required")

		_, err = f.svc.Send(ctx, client, conv.ID, strings.Repeat("é", 2001))
		requireKind(t, err, httperr.KindValidation, "content_too_long")

		_, err = f.svc.Send(ctx, stranger, conv.ID, "bonjour")
		requireKind(t, err, httperr.KindForbidden, "not_a_participant")

		_, err = f.svc.Send(ctx, client, uuid.New(), "bonjour")
		requireKind(t, err, httperr.KindNotFound, "conversation_not_found")
	})

	msg, err := f.svc.Send(ctx, client, conv.ID, "  Bonjour, puis-je décaler ma séance ?  ")
	require.NoError(t, err)
	assert.Equal(t, "Bonjour, puis-je décaler ma séance ?", msg.Content)
	require.NotNil(t, msg.Sender)
	assert.Equal(t, client.ID, msg.Sender.ID)

	select {
	case got := <-adminFeed:
		assert.Equal(t, msg.ID, got.ID)
	default:
		t.Fatal("admin stream did not receive the message")
	}

	_, err = f.svc.Send(ctx, client, conv.ID, "Merci !")
	require.NoError(t, err)

	convs, err := f.svc.Conversations(ctx, admin)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.EqualValues(t, 2, convs[0].UnreadCount)
	assert.Equal(t, "Merci !", convs[0].LastMessagePreview)
	require.NotNil(t, convs[0].LastSenderID)
	assert.Equal(t, client.ID, *convs[0].LastSenderID)

	// o remetente não tem nada a ler
	convs, err = f.svc.Conversations(ctx, client)
	require.NoError(t, err)
	require.Len(t, convs, 1)
	assert.Zero(t, convs[0].UnreadCount)

	msgs, err := f.svc.Messages(ctx, admin, conv.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Bonjour, puis-je décaler ma séance ?", msgs[0].Content)
	assert.Equal(t, "Merci !", msgs[1].Content)

	convs, err = f.svc.Conversations(ctx, admin)
	require.NoError(t, err)
	assert.Zero(t, convs[0].UnreadCount)

	_, err = f.svc.Messages(ctx, stranger, conv.ID)
	requireKind(t, err, httperr.KindForbidden, "not_a_participant")

	convs, err = f.svc.Conversations(ctx, stranger)
	require.NoError(t, err)
	assert.Empty(t, convs)
}
