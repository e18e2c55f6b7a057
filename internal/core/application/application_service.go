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
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/core/notification"
	"github.com/juniorhub-dev/juniorhub/internal/database"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

// ErrAlreadyApplied maps the unique index violation on (project,
// applicant) onto a domain error. The database is the arbiter under
// concurrent applies, not application level locking.
var ErrAlreadyApplied = errors.New("already applied to this project")

type serviceRepository interface {
	Create(tx core.DB, t *models.Application) error
	Save(tx core.DB, t *models.Application) error
}

type Service struct {
	applicationRepository serviceRepository
	dispatcher            *notification.Dispatcher
}

func NewService(applicationRepository serviceRepository, dispatcher *notification.Dispatcher) *Service {
	return &Service{
		applicationRepository: applicationRepository,
		dispatcher:            dispatcher,
	}
}

// Apply creates a pending application and notifies the project's company.
// The application commit and the notification are deliberately not one
// transaction: once the application exists, a notification failure must
// not undo it.
func (s *Service) Apply(applicantID uuid.UUID, project models.Project, req applyRequest) (models.Application, error) {
	app := models.Application{
		ProjectID:   project.ID,
		ApplicantID: applicantID,
		Status:      models.ApplicationStatusPending,
		CoverLetter: req.CoverLetter,
	}

	if err := s.applicationRepository.Create(nil, &app); err != nil {
		if database.IsDuplicateKeyError(err) {
			return models.Application{}, ErrAlreadyApplied
		}
		return models.Application{}, fmt.Errorf("could not create application: %w", err)
	}

	if _, err := s.dispatcher.NotifyNewApplication(project.CompanyID, project.Title, app.ID); err != nil {
		slog.Error("could not notify company about new application", "applicationID", app.ID, "err", err)
	}

	return app, nil
}

// Transition moves the application to the target status and notifies the
// side that did not initiate the change.
func (s *Service) Transition(app models.Application, project models.Project, target models.ApplicationStatus) (models.Application, error) {
	if app.Status == target {
		return app, nil
	}

	app.Status = target
	if err := s.applicationRepository.Save(nil, &app); err != nil {
		return models.Application{}, fmt.Errorf("could not save application: %w", err)
	}

	var err error
	switch target {
	case models.ApplicationStatusAccepted:
		_, err = s.dispatcher.NotifyApplicationAccepted(app.ApplicantID, project.Title, app.ID)
	case models.ApplicationStatusRejected:
		_, err = s.dispatcher.NotifyApplicationRejected(app.ApplicantID, project.Title, app.ID)
	case models.ApplicationStatusWithdrawn:
		_, err = s.dispatcher.NotifyApplicationWithdrawn(project.CompanyID, project.Title, app.ID)
	default:
		_, err = s.dispatcher.NotifyApplicationStatusChanged(app.ApplicantID, project.Title, target, app.ID)
	}
	if err != nil {
		// the status change already committed; its side channel failing
		// is logged, never propagated, the pull endpoint reconciles
		slog.Error("could not dispatch status notification", "applicationID", app.ID, "status", target, "err", err)
	}

	return app, nil
}

// UpdateCoverLetter is the applicant's non-status edit path.
func (s *Service) UpdateCoverLetter(app models.Application, coverLetter string) (models.Application, error) {
	app.CoverLetter = coverLetter
	if err := s.applicationRepository.Save(nil, &app); err != nil {
		return models.Application{}, fmt.Errorf("could not save application: %w", err)
	}
	return app, nil
}

// SubmitWork records the submission URL. The accepted-state gate was
// already decided by the policy.
func (s *Service) SubmitWork(app models.Application, project models.Project, url string) (models.Application, error) {
	app.WorkSubmissionURL = url
	if err := s.applicationRepository.Save(nil, &app); err != nil {
		return models.Application{}, fmt.Errorf("could not save application: %w", err)
	}

	if _, err := s.dispatcher.NotifyWorkSubmitted(project.CompanyID, project.Title, app.ID); err != nil {
		slog.Error("could not notify company about work submission", "applicationID", app.ID, "err", err)
	}

	return app, nil
}
