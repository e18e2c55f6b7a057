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

type ApplicationStatus string

const (
	ApplicationStatusPending   ApplicationStatus = "pending"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusRejected  ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn ApplicationStatus = "withdrawn"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

type Application struct {
	Model
	// a junior may apply to a given project at most once - enforced by the
	// unique index, not by application level locking.
	ProjectID   uuid.UUID `json:"projectId" gorm:"type:uuid;uniqueIndex:idx_application_project_applicant;not null"`
	Project     Project   `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE;"`
	ApplicantID uuid.UUID `json:"applicantId" gorm:"type:uuid;uniqueIndex:idx_application_project_applicant;not null"`
	Applicant   User      `json:"-" gorm:"foreignKey:ApplicantID;references:ID;constraint:OnDelete:CASCADE;"`

	Status            ApplicationStatus `json:"status" gorm:"type:text;default:'pending';not null"`
	CoverLetter       string            `json:"coverLetter" gorm:"type:text"`
	WorkSubmissionURL string            `json:"workSubmissionUrl" gorm:"type:text"`
}

func (m Application) TableName() string {
	return "applications"
}
