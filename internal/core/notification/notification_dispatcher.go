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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/juniorhub-dev/juniorhub/internal/pubsub"
	"gorm.io/gorm"
)

type repository interface {
	Create(tx *gorm.DB, n *models.Notification) error
}

// RelatedRef points a notification at the entity whose transition caused
// it.
type RelatedRef struct {
	Type string
	ID   uuid.UUID
}

// Dispatcher persists notifications and attempts a best effort real time
// push. The broker is injected - tests substitute a recording one.
type Dispatcher struct {
	repository repository
	broker     pubsub.Broker
}

func NewDispatcher(repository repository, broker pubsub.Broker) *Dispatcher {
	return &Dispatcher{
		repository: repository,
		broker:     broker,
	}
}

// Notify always persists the notification first. Only a persistence
// failure is returned to the caller. After a successful write exactly one
// push to the recipient's channel is attempted, fire and forget: the
// handler never waits for it, a failure is logged and never retried. The
// persisted row is the source of truth - clients reconcile missed pushes
// through the pull path.
func (d *Dispatcher) Notify(recipientID uuid.UUID, message string, category models.NotificationCategory, related *RelatedRef) (models.Notification, error) {
	n := models.Notification{
		RecipientID: recipientID,
		Message:     message,
		Category:    category,
	}
	if related != nil {
		n.RelatedType = &related.Type
		n.RelatedID = &related.ID
	}

	if err := d.repository.Create(nil, &n); err != nil {
		return models.Notification{}, fmt.Errorf("could not persist notification: %w", err)
	}

	go d.push(pubsub.UserChannel(recipientID), map[string]any{
		"id":       n.ID.String(),
		"message":  n.Message,
		"category": string(n.Category),
	})

	return n, nil
}

// BroadcastComment pushes a comment stream event to everyone currently
// viewing the project. Ephemeral: nothing is persisted, the destination is
// scoped by project rather than recipient.
func (d *Dispatcher) BroadcastComment(projectID uuid.UUID, event string, payload map[string]any) {
	message := map[string]any{
		"event":   event,
		"comment": payload,
	}
	go d.push(pubsub.ProjectChannel(projectID), message)
}

func (d *Dispatcher) push(channel pubsub.Channel, payload map[string]any) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.broker.Publish(ctx, pubsub.NewSimpleMessage(channel, payload)); err != nil {
		// swallowed on purpose: push is a latency optimization, the
		// persisted record is what counts
		slog.Warn("could not push message", "channel", channel, "err", err)
	}
}
