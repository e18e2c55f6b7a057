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
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

type serviceRepository interface {
	Create(tx core.DB, t *models.Project) error
	Save(tx core.DB, t *models.Project) error
	Delete(tx core.DB, id uuid.UUID) error
}

type Service struct {
	projectRepository serviceRepository
}

func NewService(projectRepository serviceRepository) *Service {
	return &Service{projectRepository: projectRepository}
}

// CreateProject persists a new project for the company. Slugs are unique
// per company, so a title collision gets a numeric suffix instead of
// surfacing a conflict to the caller.
func (s *Service) CreateProject(companyID uuid.UUID, project models.Project) (models.Project, error) {
	project.CompanyID = companyID

	baseSlug := project.Slug
	for attempt := 0; ; attempt++ {
		err := s.projectRepository.Create(nil, &project)
		if err == nil {
			return project, nil
		}
		if !database.IsDuplicateKeyError(err) || attempt >= 5 {
			return models.Project{}, fmt.Errorf("could not create project: %w", err)
		}
		project.Slug = fmt.Sprintf("%s-%d", baseSlug, attempt+2)
		slog.Debug("project slug taken, retrying", "companyID", companyID, "slug", project.Slug)
	}
}

// UpdateProject applies the patch. A title change regenerates the slug,
// so a rename can collide just like a create and gets the same numeric
// suffix treatment.
func (s *Service) UpdateProject(project models.Project, req patchRequest) (models.Project, error) {
	if !req.applyToModel(&project) {
		return project, nil
	}

	baseSlug := project.Slug
	for attempt := 0; ; attempt++ {
		err := s.projectRepository.Save(nil, &project)
		if err == nil {
			return project, nil
		}
		if !database.IsDuplicateKeyError(err) || attempt >= 5 {
			return models.Project{}, fmt.Errorf("could not save project: %w", err)
		}
		project.Slug = fmt.Sprintf("%s-%d", baseSlug, attempt+2)
		slog.Debug("project slug taken, retrying", "projectID", project.ID, "slug", project.Slug)
	}
}

// DeleteProject removes the project. Applications and comments go with it
// through the cascading foreign keys.
func (s *Service) DeleteProject(projectID uuid.UUID) error {
	if err := s.projectRepository.Delete(nil, projectID); err != nil {
		return fmt.Errorf("could not delete project: %w", err)
	}
	return nil
}
