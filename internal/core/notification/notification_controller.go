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

package notification

import (
	"errors"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/accesscontrol"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type controllerRepository interface {
	Read(id uuid.UUID) (models.Notification, error)
	Delete(tx core.DB, id uuid.UUID) error
	GetByRecipientID(recipientID uuid.UUID, unreadOnly bool) ([]models.Notification, error)
	MarkRead(tx core.DB, id uuid.UUID) error
	MarkAllRead(tx core.DB, recipientID uuid.UUID) error
}

type Controller struct {
	notificationRepository controllerRepository
}

func NewHTTPController(repository controllerRepository) *Controller {
	return &Controller{
		notificationRepository: repository,
	}
}

// List returns the caller's own notifications. There is no cross-user
// listing - not even for admins, moderation happens per notification.
func (n *Controller) List(c core.Context) error {
	actor := core.GetSession(c)
	if !actor.Authenticated() {
		return core.DenyError(accesscontrol.Deny(accesscontrol.ReasonUnauthenticated))
	}

	unreadOnly := c.QueryParam("unread") == "true"

	notifications, err := n.notificationRepository.GetByRecipientID(actor.SubjectID, unreadOnly)
	if err != nil {
		return echo.NewHTTPError(500, "could not list notifications").WithInternal(err)
	}

	return c.JSON(200, notifications)
}

func (n *Controller) MarkRead(c core.Context) error {
	notification, err := n.load(c)
	if err != nil {
		return err
	}

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionUpdate, accesscontrol.NotificationResource(notification))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	if err := n.notificationRepository.MarkRead(nil, notification.ID); err != nil {
		return echo.NewHTTPError(500, "could not mark notification as read").WithInternal(err)
	}

	return c.NoContent(200)
}

func (n *Controller) MarkAllRead(c core.Context) error {
	actor := core.GetSession(c)
	if !actor.Authenticated() {
		return core.DenyError(accesscontrol.Deny(accesscontrol.ReasonUnauthenticated))
	}

	if err := n.notificationRepository.MarkAllRead(nil, actor.SubjectID); err != nil {
		return echo.NewHTTPError(500, "could not mark notifications as read").WithInternal(err)
	}

	return c.NoContent(200)
}

func (n *Controller) Delete(c core.Context) error {
	notification, err := n.load(c)
	if err != nil {
		return err
	}

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionDelete, accesscontrol.NotificationResource(notification))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	if err := n.notificationRepository.Delete(nil, notification.ID); err != nil {
		return echo.NewHTTPError(500, "could not delete notification").WithInternal(err)
	}

	return c.NoContent(200)
}

// load resolves the target notification. Not-found is decided before any
// authorization check.
func (n *Controller) load(c core.Context) (models.Notification, error) {
	id, err := core.GetParamUUID(c, "notificationID")
	if err != nil {
		return models.Notification{}, echo.NewHTTPError(400, "invalid notification id").WithInternal(err)
	}

	notification, err := n.notificationRepository.Read(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Notification{}, echo.NewHTTPError(404, "could not find notification")
		}
		return models.Notification{}, echo.NewHTTPError(500, "could not load notification").WithInternal(err)
	}

	return notification, nil
}
