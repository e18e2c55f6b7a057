// Copyright (C) 2024 JuniorHub Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package comment

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/accesscontrol"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/core/notification"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/juniorhub-dev/juniorhub/internal/pubsub"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCommentRepository struct {
	comments map[uuid.UUID]models.Comment
	deleted  []uuid.UUID
}

func newFakeCommentRepository() *fakeCommentRepository {
	return &fakeCommentRepository{comments: map[uuid.UUID]models.Comment{}}
}

func (f *fakeCommentRepository) Create(tx core.DB, t *models.Comment) error {
	t.ID = uuid.New()
	f.comments[t.ID] = *t
	return nil
}

func (f *fakeCommentRepository) Save(tx core.DB, t *models.Comment) error {
	f.comments[t.ID] = *t
	return nil
}

func (f *fakeCommentRepository) Delete(tx core.DB, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	delete(f.comments, id)
	return nil
}

func (f *fakeCommentRepository) Read(id uuid.UUID) (models.Comment, error) {
	c, ok := f.comments[id]
	if !ok {
		return models.Comment{}, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (f *fakeCommentRepository) GetByProjectID(projectID uuid.UUID) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range f.comments {
		if c.ProjectID == projectID {
			out = append(out, c)
		}
	}
	return out, nil
}

type notificationSink struct{}

func (notificationSink) Create(tx *gorm.DB, n *models.Notification) error {
	n.ID = uuid.New()
	return nil
}

func newTestController(repo *fakeCommentRepository, broker pubsub.Broker) *Controller {
	return NewHTTPController(repo, notification.NewDispatcher(notificationSink{}, broker))
}

func newCommentContext(t *testing.T, method, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

func testProject() models.Project {
	p := models.Project{Title: "Build a CLI", CompanyID: uuid.New()}
	p.ID = uuid.New()
	return p
}

func TestCreateComment(t *testing.T) {
	t.Run("unauthenticated users cannot comment", func(t *testing.T) {
		h := newTestController(newFakeCommentRepository(), pubsub.NewInMemoryBroker())

		ctx, _ := newCommentContext(t, http.MethodPost, `{"body": "hi"}`)
		core.SetProject(ctx, testProject())
		core.SetSession(ctx, accesscontrol.NoActor)

		err := h.Create(ctx)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 401, he.Code)
	})

	t.Run("a comment is persisted and broadcast to the project channel", func(t *testing.T) {
		repo := newFakeCommentRepository()
		broker := pubsub.NewInMemoryBroker()
		h := newTestController(repo, broker)

		project := testProject()
		author := uuid.New()

		ctx, rec := newCommentContext(t, http.MethodPost, `{"body": "looks great"}`)
		core.SetProject(ctx, project)
		core.SetSession(ctx, accesscontrol.Actor{SubjectID: author, Role: models.RoleJunior})

		require.NoError(t, h.Create(ctx))
		assert.Equal(t, 201, rec.Code)
		assert.Len(t, repo.comments, 1)

		assert.Eventually(t, func() bool {
			published := broker.Published()
			return len(published) == 1 && published[0].GetChannel() == pubsub.ProjectChannel(project.ID)
		}, time.Second, 10*time.Millisecond)
	})
}

func TestModifyComment(t *testing.T) {
	t.Run("only the author may edit", func(t *testing.T) {
		repo := newFakeCommentRepository()
		h := newTestController(repo, pubsub.NewInMemoryBroker())

		c := models.Comment{ProjectID: uuid.New(), AuthorID: uuid.New(), Body: "original"}
		c.ID = uuid.New()
		repo.comments[c.ID] = c

		ctx, _ := newCommentContext(t, http.MethodPatch, `{"body": "edited"}`)
		ctx.SetParamNames("commentID")
		ctx.SetParamValues(c.ID.String())
		core.SetSession(ctx, accesscontrol.Actor{SubjectID: uuid.New(), Role: models.RoleJunior})

		err := h.Update(ctx)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 403, he.Code)
		assert.Equal(t, "original", repo.comments[c.ID].Body)
	})

	t.Run("admins moderate comments away", func(t *testing.T) {
		repo := newFakeCommentRepository()
		h := newTestController(repo, pubsub.NewInMemoryBroker())

		c := models.Comment{ProjectID: uuid.New(), AuthorID: uuid.New(), Body: "spam"}
		c.ID = uuid.New()
		repo.comments[c.ID] = c

		ctx, rec := newCommentContext(t, http.MethodDelete, "")
		ctx.SetParamNames("commentID")
		ctx.SetParamValues(c.ID.String())
		core.SetSession(ctx, accesscontrol.Actor{SubjectID: uuid.New(), Role: models.RoleAdmin})

		require.NoError(t, h.Delete(ctx))
		assert.Equal(t, 200, rec.Code)
		assert.Equal(t, []uuid.UUID{c.ID}, repo.deleted)
	})

	t.Run("a missing comment is a 404 before any policy check", func(t *testing.T) {
		h := newTestController(newFakeCommentRepository(), pubsub.NewInMemoryBroker())

		ctx, _ := newCommentContext(t, http.MethodDelete, "")
		ctx.SetParamNames("commentID")
		ctx.SetParamValues(uuid.NewString())
		core.SetSession(ctx, accesscontrol.NoActor)

		err := h.Delete(ctx)
		var he *echo.HTTPError
		require.ErrorAs(t, err, &he)
		assert.Equal(t, 404, he.Code)
	})
}
