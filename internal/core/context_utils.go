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
package core

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/accesscontrol"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

// SetSession stores the authenticated actor on the request context. The
// session middleware sets accesscontrol.NoActor when no valid token was
// presented - resource loading still happens, public reads stay possible.
func SetSession(ctx Context, actor accesscontrol.Actor) {
	ctx.Set("session", actor)
}

func GetSession(ctx Context) accesscontrol.Actor {
	actor, ok := ctx.Get("session").(accesscontrol.Actor)
	if !ok {
		return accesscontrol.NoActor
	}
	return actor
}

func SetProject(ctx Context, project models.Project) {
	ctx.Set("project", project)
}

func GetProject(ctx Context) models.Project {
	return ctx.Get("project").(models.Project)
}

func SetApplication(ctx Context, application models.Application) {
	ctx.Set("application", application)
}

func GetApplication(ctx Context) models.Application {
	return ctx.Get("application").(models.Application)
}

func GetParamUUID(ctx Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Param(name))
	if err != nil {
		return uuid.Nil, fmt.Errorf("could not parse %s: %w", name, err)
	}
	return id, nil
}
