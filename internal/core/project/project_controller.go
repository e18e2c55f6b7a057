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

package project

import (
	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/accesscontrol"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/juniorhub-dev/juniorhub/internal/storage"

	"github.com/labstack/echo/v4"
)

type controllerRepository interface {
	ListOpen() ([]models.Project, error)
	GetByCompanyID(companyID uuid.UUID) ([]models.Project, error)
}

type applicationRepository interface {
	HasAcceptedApplications(projectID uuid.UUID) (bool, error)
}

type Controller struct {
	projectRepository     controllerRepository
	applicationRepository applicationRepository
	projectService        *Service
	store                 storage.Store
}

func NewHTTPController(repository controllerRepository, applicationRepository applicationRepository, service *Service, store storage.Store) *Controller {
	return &Controller{
		projectRepository:     repository,
		applicationRepository: applicationRepository,
		projectService:        service,
		store:                 store,
	}
}

func (p *Controller) Create(c core.Context) error {
	actor := core.GetSession(c)
	decision := accesscontrol.Decide(actor, accesscontrol.ActionCreate, accesscontrol.Resource{Kind: accesscontrol.KindProject})
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

	project, err := p.projectService.CreateProject(actor.SubjectID, req.toModel())
	if err != nil {
		return echo.NewHTTPError(500, "could not create project").WithInternal(err)
	}

	return c.JSON(201, project)
}

// List serves the public board. Companies can scope the listing to their
// own projects with ?mine=true, which also includes non-open ones.
func (p *Controller) List(c core.Context) error {
	actor := core.GetSession(c)

	if c.QueryParam("mine") == "true" {
		if !actor.Authenticated() {
			return core.DenyError(accesscontrol.Deny(accesscontrol.ReasonUnauthenticated))
		}
		projects, err := p.projectRepository.GetByCompanyID(actor.SubjectID)
		if err != nil {
			return echo.NewHTTPError(500, "could not list projects").WithInternal(err)
		}
		return c.JSON(200, projects)
	}

	projects, err := p.projectRepository.ListOpen()
	if err != nil {
		return echo.NewHTTPError(500, "could not list projects").WithInternal(err)
	}
	return c.JSON(200, projects)
}

func (p *Controller) Read(c core.Context) error {
	project := core.GetProject(c)

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionRead, accesscontrol.ProjectResource(project, false))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	return c.JSON(200, project)
}

func (p *Controller) Update(c core.Context) error {
	project := core.GetProject(c)

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionUpdate, accesscontrol.ProjectResource(project, false))
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

	updated, err := p.projectService.UpdateProject(project, req)
	if err != nil {
		return echo.NewHTTPError(500, "could not update project").WithInternal(err)
	}

	return c.JSON(200, updated)
}

// UploadImage stores a project image. Only the owning company may change
// it.
func (p *Controller) UploadImage(c core.Context) error {
	project := core.GetProject(c)

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionUpdate, accesscontrol.ProjectResource(project, false))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(400, "missing file").WithInternal(err)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(400, "could not read file").WithInternal(err)
	}
	defer f.Close()

	url, err := p.store.Save("projects", fileHeader.Filename, f)
	if err != nil {
		return echo.NewHTTPError(400, "could not store file").WithInternal(err)
	}

	updated, err := p.projectService.UpdateProject(project, patchRequest{ImageURL: &url})
	if err != nil {
		return echo.NewHTTPError(500, "could not save project image").WithInternal(err)
	}

	return c.JSON(200, echo.Map{"imageUrl": updated.ImageURL})
}

// Delete refuses to remove a project that already has an accepted
// application. That fact has to be resolved before consulting the policy.
func (p *Controller) Delete(c core.Context) error {
	project := core.GetProject(c)

	hasAccepted, err := p.applicationRepository.HasAcceptedApplications(project.ID)
	if err != nil {
		return echo.NewHTTPError(500, "could not check project applications").WithInternal(err)
	}

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionDelete, accesscontrol.ProjectResource(project, hasAccepted))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	if err := p.projectService.DeleteProject(project.ID); err != nil {
		return echo.NewHTTPError(500, "could not delete project").WithInternal(err)
	}

	return c.NoContent(200)
}
