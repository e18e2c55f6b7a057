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

package user

import (
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
)

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=junior company"`

	// role conditional fields - the service enforces the invariants
	ExperienceLevel string `json:"experienceLevel" validate:"omitempty,oneof=beginner intermediate advanced"`
	CompanyName     string `json:"companyName"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// completeRoleRequest finishes signup for an externally authenticated
// identity that still has the unset role.
type completeRoleRequest struct {
	Role            string `json:"role" validate:"required,oneof=junior company"`
	ExperienceLevel string `json:"experienceLevel" validate:"omitempty,oneof=beginner intermediate advanced"`
	CompanyName     string `json:"companyName"`
}

type patchRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatarUrl"`

	ExperienceLevel *string  `json:"experienceLevel" validate:"omitempty,oneof=beginner intermediate advanced"`
	Skills          []string `json:"skills"`
	Bio             *string  `json:"bio"`
	PortfolioURL    *string  `json:"portfolioUrl"`

	CompanyName *string `json:"companyName"`
	Website     *string `json:"website"`
	Description *string `json:"description"`
}

func (p patchRequest) applyToModel(user *models.User) bool {
	updated := false

	if p.Name != nil {
		updated = true
		user.Name = *p.Name
	}
	if p.AvatarURL != nil {
		updated = true
		user.AvatarURL = *p.AvatarURL
	}

	if user.Role == models.RoleJunior && user.JuniorProfile != nil {
		if p.ExperienceLevel != nil {
			updated = true
			user.JuniorProfile.ExperienceLevel = models.ExperienceLevel(*p.ExperienceLevel)
		}
		if p.Skills != nil {
			updated = true
			user.JuniorProfile.Skills = p.Skills
		}
		if p.Bio != nil {
			updated = true
			user.JuniorProfile.Bio = *p.Bio
		}
		if p.PortfolioURL != nil {
			updated = true
			user.JuniorProfile.PortfolioURL = *p.PortfolioURL
		}
	}

	if user.Role == models.RoleCompany && user.CompanyProfile != nil {
		if p.CompanyName != nil {
			updated = true
			user.CompanyProfile.CompanyName = *p.CompanyName
		}
		if p.Website != nil {
			updated = true
			user.CompanyProfile.Website = *p.Website
		}
		if p.Description != nil {
			updated = true
			user.CompanyProfile.Description = *p.Description
		}
	}

	return updated
}

// publicProfile is the view any visitor gets of a user - no email, no
// identities.
type publicProfile struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	AvatarURL string      `json:"avatarUrl"`
	Role      models.Role `json:"role"`

	JuniorProfile  *models.JuniorProfile  `json:"juniorProfile,omitempty"`
	CompanyProfile *models.CompanyProfile `json:"companyProfile,omitempty"`
}

func toPublicProfile(u models.User) publicProfile {
	return publicProfile{
		ID:             u.ID.String(),
		Name:           u.Name,
		AvatarURL:      u.AvatarURL,
		Role:           u.Role,
		JuniorProfile:  u.JuniorProfile,
		CompanyProfile: u.CompanyProfile,
	}
}
