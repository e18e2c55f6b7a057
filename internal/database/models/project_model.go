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

package models

import (
	"github.com/google/uuid"
)

type ProjectStatus string

const (
	ProjectStatusOpen       ProjectStatus = "open"
	ProjectStatusInProgress ProjectStatus = "in-progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCanceled   ProjectStatus = "canceled"
)

func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusOpen, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusCanceled:
		return true
	}
	return false
}

type Project struct {
	Model
	Title       string    `json:"title" gorm:"type:text;not null"`
	Slug        string    `json:"slug" gorm:"type:text;uniqueIndex:idx_project_company_slug;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CompanyID   uuid.UUID `json:"companyId" gorm:"type:uuid;uniqueIndex:idx_project_company_slug;not null"`
	Company     User      `json:"-" gorm:"foreignKey:CompanyID;references:ID;constraint:OnDelete:CASCADE;"`

	Status ProjectStatus `json:"status" gorm:"type:text;default:'open';not null"`
	// IsAcceptingApplications is an explicit, company controlled flag.
	// Accepting a single application does not flip it.
	IsAcceptingApplications bool `json:"isAcceptingApplications" gorm:"default:true"`

	Tags     []string `json:"tags" gorm:"serializer:json"`
	ImageURL string   `json:"imageUrl" gorm:"type:text"`

	Applications []Application `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;"`
	Comments     []Comment     `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE;"`
}

func (m Project) TableName() string {
	return "projects"
}

func (m *Project) GetSlug() string {
	return m.Slug
}

func (m *Project) SetSlug(slug string) {
	m.Slug = slug
}

// AcceptsApplications is the single invariant gating new applications:
// the project has to be open AND the company has to keep the flag on.
func (m Project) AcceptsApplications() bool {
	return m.Status == ProjectStatusOpen && m.IsAcceptingApplications
}
