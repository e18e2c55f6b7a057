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
	"errors"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/accesscontrol"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/core/notification"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type commentRepository interface {
	Create(tx core.DB, t *models.Comment) error
	Save(tx core.DB, t *models.Comment) error
	Delete(tx core.DB, id uuid.UUID) error
	Read(id uuid.UUID) (models.Comment, error)
	GetByProjectID(projectID uuid.UUID) ([]models.Comment, error)
}

type Controller struct {
	commentRepository commentRepository
	dispatcher        *notification.Dispatcher
}

func NewHTTPController(repository commentRepository, dispatcher *notification.Dispatcher) *Controller {
	return &Controller{
		commentRepository: repository,
		dispatcher:        dispatcher,
	}
}

// Create posts a comment on the project from the context. Comment events
// reach current viewers through an ephemeral broadcast only - nothing is
// persisted per recipient.
func (co *Controller) Create(c core.Context) error {
	actor := core.GetSession(c)
	project := core.GetProject(c)

	decision := accesscontrol.Decide(actor, accesscontrol.ActionCreate, accesscontrol.Resource{Kind: accesscontrol.KindComment})
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	var req createRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := core.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	comment := models.Comment{
		ProjectID: project.ID,
		AuthorID:  actor.SubjectID,
		Body:      req.Body,
	}

	if err := co.commentRepository.Create(nil, &comment); err != nil {
		return echo.NewHTTPError(500, "could not create comment").WithInternal(err)
	}

	co.dispatcher.BroadcastComment(project.ID, "comment-created", commentPayload(comment))

	return c.JSON(201, comment)
}

// List returns the project's comments oldest first. Readable by anyone
// who can see the project.
func (co *Controller) List(c core.Context) error {
	project := core.GetProject(c)

	comments, err := co.commentRepository.GetByProjectID(project.ID)
	if err != nil {
		return echo.NewHTTPError(500, "could not list comments").WithInternal(err)
	}

	return c.JSON(200, comments)
}

func (co *Controller) Update(c core.Context) error {
	comment, err := co.load(c)
	if err != nil {
		return err
	}

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionUpdate, accesscontrol.CommentResource(comment))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	var req patchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := core.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	comment.Body = req.Body
	if err := co.commentRepository.Save(nil, &comment); err != nil {
		return echo.NewHTTPError(500, "could not update comment").WithInternal(err)
	}

	co.dispatcher.BroadcastComment(comment.ProjectID, "comment-updated", commentPayload(comment))

	return c.JSON(200, comment)
}

func (co *Controller) Delete(c core.Context) error {
	comment, err := co.load(c)
	if err != nil {
		return err
	}

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionDelete, accesscontrol.CommentResource(comment))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	if err := co.commentRepository.Delete(nil, comment.ID); err != nil {
		return echo.NewHTTPError(500, "could not delete comment").WithInternal(err)
	}

	co.dispatcher.BroadcastComment(comment.ProjectID, "comment-deleted", map[string]any{
		"id": comment.ID.String(),
	})

	return c.NoContent(200)
}

func (co *Controller) load(c core.Context) (models.Comment, error) {
	id, err := core.GetParamUUID(c, "commentID")
	if err != nil {
		return models.Comment{}, echo.NewHTTPError(400, "invalid comment id").WithInternal(err)
	}

	comment, err := co.commentRepository.Read(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Comment{}, echo.NewHTTPError(404, "could not find comment")
		}
		return models.Comment{}, echo.NewHTTPError(500, "could not load comment").WithInternal(err)
	}

	return comment, nil
}

func commentPayload(comment models.Comment) map[string]any {
	return map[string]any{
		"id":        comment.ID.String(),
		"projectId": comment.ProjectID.String(),
		"authorId":  comment.AuthorID.String(),
		"body":      comment.Body,
		"createdAt": comment.CreatedAt,
	}
}
