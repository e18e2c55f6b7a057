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
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/juniorhub-dev/juniorhub/internal/pubsub"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingRepository struct {
	created []models.Notification
	err     error
}

func (r *recordingRepository) Create(tx *gorm.DB, n *models.Notification) error {
	if r.err != nil {
		return r.err
	}
	n.ID = uuid.New()
	r.created = append(r.created, *n)
	return nil
}

type failingBroker struct{}

func (failingBroker) Publish(ctx context.Context, message pubsub.Message) error {
	return errors.New("broker is down")
}

func (failingBroker) Subscribe(topic pubsub.Channel) (<-chan map[string]any, error) {
	return nil, errors.New("broker is down")
}

func (failingBroker) Unsubscribe(topic pubsub.Channel, ch <-chan map[string]any) {}

func TestNotify(t *testing.T) {
	t.Run("persists the notification before any push", func(t *testing.T) {
		repo := &recordingRepository{}
		broker := pubsub.NewInMemoryBroker()
		dispatcher := NewDispatcher(repo, broker)

		recipient := uuid.New()
		n, err := dispatcher.Notify(recipient, "hello", models.NotificationCategoryInfo, nil)

		require.NoError(t, err)
		require.Len(t, repo.created, 1)
		assert.Equal(t, recipient, n.RecipientID)
		assert.Equal(t, "hello", n.Message)
		assert.False(t, n.Read)
	})

	t.Run("pushes exactly one message to the recipient channel", func(t *testing.T) {
		repo := &recordingRepository{}
		broker := pubsub.NewInMemoryBroker()
		dispatcher := NewDispatcher(repo, broker)

		recipient := uuid.New()
		messages, err := broker.Subscribe(pubsub.UserChannel(recipient))
		require.NoError(t, err)

		_, err = dispatcher.Notify(recipient, "hello", models.NotificationCategoryInfo, nil)
		require.NoError(t, err)

		select {
		case payload := <-messages:
			assert.Equal(t, "hello", payload["message"])
			assert.Equal(t, "info", payload["category"])
		case <-time.After(time.Second):
			t.Fatal("expected a push on the recipient channel")
		}

		select {
		case <-messages:
			t.Fatal("expected no second push")
		case <-time.After(50 * time.Millisecond):
		}
	})

	t.Run("surfaces a persistence failure and pushes nothing", func(t *testing.T) {
		repo := &recordingRepository{err: errors.New("disk full")}
		broker := pubsub.NewInMemoryBroker()
		dispatcher := NewDispatcher(repo, broker)

		_, err := dispatcher.Notify(uuid.New(), "hello", models.NotificationCategoryInfo, nil)

		require.Error(t, err)
		assert.Empty(t, broker.Published())
	})

	t.Run("a push failure does not fail the notification", func(t *testing.T) {
		repo := &recordingRepository{}
		dispatcher := NewDispatcher(repo, failingBroker{})

		_, err := dispatcher.Notify(uuid.New(), "hello", models.NotificationCategoryInfo, nil)

		require.NoError(t, err)
		assert.Len(t, repo.created, 1)
	})

	t.Run("carries the related entity reference", func(t *testing.T) {
		repo := &recordingRepository{}
		dispatcher := NewDispatcher(repo, pubsub.NewInMemoryBroker())

		relatedID := uuid.New()
		n, err := dispatcher.Notify(uuid.New(), "hello", models.NotificationCategorySuccess, &RelatedRef{Type: "Application", ID: relatedID})

		require.NoError(t, err)
		require.NotNil(t, n.RelatedType)
		assert.Equal(t, "Application", *n.RelatedType)
		assert.Equal(t, relatedID, *n.RelatedID)
	})
}

func TestBroadcastComment(t *testing.T) {
	t.Run("broadcasts to the project channel without persisting", func(t *testing.T) {
		repo := &recordingRepository{}
		broker := pubsub.NewInMemoryBroker()
		dispatcher := NewDispatcher(repo, broker)

		projectID := uuid.New()
		messages, err := broker.Subscribe(pubsub.ProjectChannel(projectID))
		require.NoError(t, err)

		dispatcher.BroadcastComment(projectID, "comment-created", map[string]any{"body": "hi"})

		select {
		case payload := <-messages:
			assert.Equal(t, "comment-created", payload["event"])
		case <-time.After(time.Second):
			t.Fatal("expected a broadcast on the project channel")
		}

		assert.Empty(t, repo.created)
	})
}
