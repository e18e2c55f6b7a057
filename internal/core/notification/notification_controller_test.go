package notification

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/accesscontrol"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeNotificationRepository struct {
	notifications map[uuid.UUID]models.Notification
	markedRead    []uuid.UUID
	markedAllFor  []uuid.UUID
	deleted       []uuid.UUID
}

func newFakeNotificationRepository() *fakeNotificationRepository {
	return &fakeNotificationRepository{notifications: map[uuid.UUID]models.Notification{}}
}

func (f *fakeNotificationRepository) Read(id uuid.UUID) (models.Notification, error) {
	n, ok := f.notifications[id]
	if !ok {
		return models.Notification{}, gorm.ErrRecordNotFound
	}
	return n, nil
}

func (f *fakeNotificationRepository) Delete(tx core.DB, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeNotificationRepository) GetByRecipientID(recipientID uuid.UUID, unreadOnly bool) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range f.notifications {
		if n.RecipientID != recipientID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (f *fakeNotificationRepository) MarkRead(tx core.DB, id uuid.UUID) error {
	f.markedRead = append(f.markedRead, id)
	return nil
}

func (f *fakeNotificationRepository) MarkAllRead(tx core.DB, recipientID uuid.UUID) error {
	f.markedAllFor = append(f.markedAllFor, recipientID)
	return nil
}

func newRequestContext(target string) echo.Context {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func seed(repo *fakeNotificationRepository, recipientID uuid.UUID, read bool) models.Notification {
	n := models.Notification{RecipientID: recipientID, Message: "m", Category: models.NotificationCategoryInfo, Read: read}
	n.ID = uuid.New()
	repo.notifications[n.ID] = n
	return n
}

func TestListNotifications(t *testing.T) {
	t.Run("requires authentication", func(t *testing.T) {
		h := NewHTTPController(newFakeNotificationRepository())

		ctx := newRequestContext("/")
		core.SetSession(ctx, accesscontrol.NoActor)

		err := h.List(ctx)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 401, he.Code)
	})

	t.Run("returns only the caller's notifications", func(t *testing.T) {
		repo := newFakeNotificationRepository()
		me := uuid.New()
		seed(repo, me, false)
		seed(repo, uuid.New(), false)

		h := NewHTTPController(repo)
		ctx := newRequestContext("/")
		core.SetSession(ctx, accesscontrol.Actor{SubjectID: me, Role: models.RoleJunior})

		require.NoError(t, h.List(ctx))

		got, err := repo.GetByRecipientID(me, false)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("unread filter drops read notifications", func(t *testing.T) {
		repo := newFakeNotificationRepository()
		me := uuid.New()
		seed(repo, me, true)
		unread := seed(repo, me, false)

		got, err := repo.GetByRecipientID(me, true)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, unread.ID, got[0].ID)
	})
}

func TestMarkRead(t *testing.T) {
	t.Run("the recipient marks their notification read", func(t *testing.T) {
		repo := newFakeNotificationRepository()
		me := uuid.New()
		n := seed(repo, me, false)

		h := NewHTTPController(repo)
		ctx := newRequestContext("/")
		ctx.SetParamNames("notificationID")
		ctx.SetParamValues(n.ID.String())
		core.SetSession(ctx, accesscontrol.Actor{SubjectID: me, Role: models.RoleJunior})

		require.NoError(t, h.MarkRead(ctx))
		assert.Equal(t, []uuid.UUID{n.ID}, repo.markedRead)
	})

	t.Run("someone else's notification is forbidden", func(t *testing.T) {
		repo := newFakeNotificationRepository()
		n := seed(repo, uuid.New(), false)

		h := NewHTTPController(repo)
		ctx := newRequestContext("/")
		ctx.SetParamNames("notificationID")
		ctx.SetParamValues(n.ID.String())
		core.SetSession(ctx, accesscontrol.Actor{SubjectID: uuid.New(), Role: models.RoleJunior})

		err := h.MarkRead(ctx)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 403, he.Code)
		assert.Empty(t, repo.markedRead)
	})

	t.Run("a missing notification is a 404", func(t *testing.T) {
		h := NewHTTPController(newFakeNotificationRepository())
		ctx := newRequestContext("/")
		ctx.SetParamNames("notificationID")
		ctx.SetParamValues(uuid.NewString())
		core.SetSession(ctx, accesscontrol.NoActor)

		err := h.MarkRead(ctx)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 404, he.Code)
	})
}

func TestMarkAllRead(t *testing.T) {
	repo := newFakeNotificationRepository()
	me := uuid.New()

	h := NewHTTPController(repo)
	ctx := newRequestContext("/")
	core.SetSession(ctx, accesscontrol.Actor{SubjectID: me, Role: models.RoleCompany})

	require.NoError(t, h.MarkAllRead(ctx))
	assert.Equal(t, []uuid.UUID{me}, repo.markedAllFor)
}
