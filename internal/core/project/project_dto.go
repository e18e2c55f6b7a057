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
	"github.com/gosimple/slug"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

type createRequest struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description"`
	Tags        []string `json:"tags" validate:"max=10,dive,max=40"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
}

func (p *createRequest) toModel() models.Project {
	return models.Project{
		Title:       p.Title,
		Slug:        slug.Make(p.Title),
		Description: p.Description,
		Tags:        p.Tags,
		ImageURL:    p.ImageURL,

		Status:                  models.ProjectStatusOpen,
		IsAcceptingApplications: true,
	}
}

type patchRequest struct {
	Title       *string   `json:"title" validate:"omitempty,max=200"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags" validate:"omitempty,max=10,dive,max=40"`
	ImageURL    *string   `json:"imageUrl" validate:"omitempty,url"`

	Status                  *models.ProjectStatus `json:"status" validate:"omitempty,oneof=open in-progress completed canceled"`
	IsAcceptingApplications *bool                 `json:"isAcceptingApplications"`
}

func (p *patchRequest) applyToModel(project *models.Project) bool {
	updated := false
	if p.Title != nil {
		project.Title = *p.Title
		project.Slug = slug.Make(*p.Title)
		updated = true
	}
	if p.Description != nil {
		project.Description = *p.Description
		updated = true
	}
	if p.Tags != nil {
		project.Tags = *p.Tags
		updated = true
	}
	if p.ImageURL != nil {
		project.ImageURL = *p.ImageURL
		updated = true
	}
	if p.Status != nil {
		project.Status = *p.Status
		updated = true
	}
	if p.IsAcceptingApplications != nil {
		project.IsAcceptingApplications = *p.IsAcceptingApplications
		updated = true
	}
	return updated
}
