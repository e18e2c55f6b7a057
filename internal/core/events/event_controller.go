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

package events

import (
	"encoding/json"
	"fmt"

	"github.com/juniorhub-dev/juniorhub/internal/accesscontrol"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/pubsub"
	"github.com/labstack/echo/v4"
)

// Controller bridges the broker's channels onto server sent event
// streams. Streams are a latency optimization only - a dropped connection
// loses nothing, persisted notifications are reconciled over the pull
// endpoint.
type Controller struct {
	broker pubsub.Broker
}

func NewHTTPController(broker pubsub.Broker) *Controller {
	return &Controller{broker: broker}
}

// Stream pushes the caller's own notification events.
func (ec *Controller) Stream(c core.Context) error {
	actor := core.GetSession(c)
	if !actor.Authenticated() {
		return core.DenyError(accesscontrol.Deny(accesscontrol.ReasonUnauthenticated))
	}

	return ec.stream(c, pubsub.UserChannel(actor.SubjectID))
}

// ProjectStream pushes the ephemeral comment events of the project on the
// context. Anyone who can view the project may listen.
func (ec *Controller) ProjectStream(c core.Context) error {
	project := core.GetProject(c)
	return ec.stream(c, pubsub.ProjectChannel(project.ID))
}

func (ec *Controller) stream(c core.Context, channel pubsub.Channel) error {
	messages, err := ec.broker.Subscribe(channel)
	if err != nil {
		return echo.NewHTTPError(500, "could not subscribe").WithInternal(err)
	}
	defer ec.broker.Unsubscribe(channel, messages)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(200)
	res.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case payload, ok := <-messages:
			if !ok {
				return nil
			}
			data, err := json.Marshal(payload)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
