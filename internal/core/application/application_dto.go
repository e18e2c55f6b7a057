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
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

type applyRequest struct {
	CoverLetter string `json:"coverLetter" validate:"max=5000"`
}

// patchRequest is the applicant's general update path. A status change
// travelling through it is still authorized as a transition, not as a
// plain field edit.
type patchRequest struct {
	CoverLetter *string                   `json:"coverLetter" validate:"omitempty,max=5000"`
	Status      *models.ApplicationStatus `json:"status" validate:"omitempty,oneof=pending accepted rejected withdrawn"`
}

type transitionRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required,oneof=pending accepted rejected withdrawn"`
}

type submitWorkRequest struct {
	WorkSubmissionURL string `json:"workSubmissionUrl" validate:"required,url"`
}
