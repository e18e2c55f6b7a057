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

package application

import (
	"errors"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/accesscontrol"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/labstack/echo/v4"
)

type controllerRepository interface {
	GetByProjectID(projectID uuid.UUID) ([]models.Application, error)
	GetByApplicantID(applicantID uuid.UUID) ([]models.Application, error)
}

type Controller struct {
	applicationRepository controllerRepository
	applicationService    *Service
}

func NewHTTPController(repository controllerRepository, service *Service) *Controller {
	return &Controller{
		applicationRepository: repository,
		applicationService:    service,
	}
}

// Apply handles a junior applying to the project on the context.
func (a *Controller) Apply(c core.Context) error {
	actor := core.GetSession(c)
	project := core.GetProject(c)

	decision := accesscontrol.Decide(actor, accesscontrol.ActionCreate, accesscontrol.Resource{
		Kind:           accesscontrol.KindApplication,
		ProjectOwnerID: project.CompanyID,
	})
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	// role was fine - now the project itself has to accept applications
	if !project.AcceptsApplications() {
		return core.DenyError(accesscontrol.Deny(accesscontrol.ReasonInvalidState))
	}

	var req applyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := core.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	app, err := a.applicationService.Apply(actor.SubjectID, project, req)
	if err != nil {
		if errors.Is(err, ErrAlreadyApplied) {
			return echo.NewHTTPError(409, echo.Map{"message": "already applied to this project", "reason": "conflict"})
		}
		return echo.NewHTTPError(500, "could not create application").WithInternal(err)
	}

	return c.JSON(201, app)
}

// ListByProject returns all applications for the project on the context.
// Only the owning company (or an admin) sees the inbox.
func (a *Controller) ListByProject(c core.Context) error {
	actor := core.GetSession(c)
	project := core.GetProject(c)

	decision := accesscontrol.Decide(actor, accesscontrol.ActionRead, accesscontrol.Resource{
		Kind:           accesscontrol.KindApplication,
		ProjectOwnerID: project.CompanyID,
	})
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	apps, err := a.applicationRepository.GetByProjectID(project.ID)
	if err != nil {
		return echo.NewHTTPError(500, "could not list applications").WithInternal(err)
	}

	return c.JSON(200, apps)
}

// ListMine returns the calling junior's own applications.
func (a *Controller) ListMine(c core.Context) error {
	actor := core.GetSession(c)
	if !actor.Authenticated() {
		return core.DenyError(accesscontrol.Deny(accesscontrol.ReasonUnauthenticated))
	}

	apps, err := a.applicationRepository.GetByApplicantID(actor.SubjectID)
	if err != nil {
		return echo.NewHTTPError(500, "could not list applications").WithInternal(err)
	}

	return c.JSON(200, apps)
}

func (a *Controller) Read(c core.Context) error {
	app := core.GetApplication(c)
	project := core.GetProject(c)

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionRead, accesscontrol.ApplicationResource(app, project.CompanyID))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	return c.JSON(200, app)
}

// Update is the general edit path. A status carried in the patch body is
// authorized as a transition against its concrete target value, never as
// a plain field write.
func (a *Controller) Update(c core.Context) error {
	actor := core.GetSession(c)
	app := core.GetApplication(c)
	project := core.GetProject(c)

	var req patchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := core.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	resource := accesscontrol.ApplicationResource(app, project.CompanyID)

	if req.Status != nil && *req.Status != app.Status {
		decision := accesscontrol.Decide(actor, accesscontrol.ActionTransitionStatus, resource.WithTargetStatus(*req.Status))
		if !decision.Allowed {
			return core.DenyError(decision)
		}

		updated, err := a.applicationService.Transition(app, project, *req.Status)
		if err != nil {
			return echo.NewHTTPError(500, "could not update application").WithInternal(err)
		}
		app = updated
	}

	if req.CoverLetter != nil {
		decision := accesscontrol.Decide(actor, accesscontrol.ActionUpdate, resource)
		if !decision.Allowed {
			return core.DenyError(decision)
		}

		updated, err := a.applicationService.UpdateCoverLetter(app, *req.CoverLetter)
		if err != nil {
			return echo.NewHTTPError(500, "could not update application").WithInternal(err)
		}
		app = updated
	}

	return c.JSON(200, app)
}

// TransitionStatus is the explicit accept/reject/reset endpoint.
func (a *Controller) TransitionStatus(c core.Context) error {
	app := core.GetApplication(c)
	project := core.GetProject(c)

	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := core.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionTransitionStatus,
		accesscontrol.ApplicationResource(app, project.CompanyID).WithTargetStatus(req.Status))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	updated, err := a.applicationService.Transition(app, project, req.Status)
	if err != nil {
		return echo.NewHTTPError(500, "could not update application").WithInternal(err)
	}

	return c.JSON(200, updated)
}

// Withdraw is sugar for the applicant transitioning their own application
// to withdrawn.
func (a *Controller) Withdraw(c core.Context) error {
	app := core.GetApplication(c)
	project := core.GetProject(c)

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionWithdraw,
		accesscontrol.ApplicationResource(app, project.CompanyID))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	updated, err := a.applicationService.Transition(app, project, models.ApplicationStatusWithdrawn)
	if err != nil {
		return echo.NewHTTPError(500, "could not withdraw application").WithInternal(err)
	}

	return c.JSON(200, updated)
}

func (a *Controller) SubmitWork(c core.Context) error {
	app := core.GetApplication(c)
	project := core.GetProject(c)

	var req submitWorkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := core.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionSubmitWork,
		accesscontrol.ApplicationResource(app, project.CompanyID))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	updated, err := a.applicationService.SubmitWork(app, project, req.WorkSubmissionURL)
	if err != nil {
		return echo.NewHTTPError(500, "could not submit work").WithInternal(err)
	}

	return c.JSON(200, updated)
}
