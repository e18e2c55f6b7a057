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
package pubsub

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

type Channel string

// UserChannel is the recipient scoped destination for real time pushes.
// Dashes are not valid inside unquoted postgres identifiers, so they get
// flattened.
func UserChannel(userID uuid.UUID) Channel {
	return Channel("user_" + strings.ReplaceAll(userID.String(), "-", ""))
}

// ProjectChannel scopes the ephemeral comment stream of a single project.
func ProjectChannel(projectID uuid.UUID) Channel {
	return Channel("project_" + strings.ReplaceAll(projectID.String(), "-", ""))
}

type Message interface {
	GetChannel() Channel
	GetPayload() map[string]any
}

// Broker is the real time push collaborator. Publish is best effort from
// the caller's perspective - the notification dispatcher never blocks a
// request on it and never surfaces its errors.
type Broker interface {
	Publish(ctx context.Context, message Message) error
	Subscribe(topic Channel) (<-chan map[string]any, error)
	// Unsubscribe removes and closes a channel returned by Subscribe.
	// Subscriptions are request scoped, every stream handler must call
	// this on disconnect or the subscriber list grows forever.
	Unsubscribe(topic Channel, ch <-chan map[string]any)
}

type SimpleMessage struct {
	Channel Channel
	Payload map[string]any
}

func (m SimpleMessage) GetChannel() Channel {
	return m.Channel
}

func (m SimpleMessage) GetPayload() map[string]any {
	return m.Payload
}

func NewSimpleMessage(channel Channel, payload map[string]any) SimpleMessage {
	return SimpleMessage{
		Channel: channel,
		Payload: payload,
	}
}
