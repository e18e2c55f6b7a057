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

type Role string

const (
	// RoleUnset marks an externally authenticated identity which did not
	// finish the signup completion step yet. It is never assigned again
	// once a concrete role was chosen.
	RoleUnset   Role = "unset"
	RoleJunior  Role = "junior"
	RoleCompany Role = "company"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUnset, RoleJunior, RoleCompany, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	Model
	Email        string  `json:"email" gorm:"type:text;unique;not null"`
	PasswordHash *string `json:"-" gorm:"type:text"`
	// ExternalID is the subject of an OAuth identity. Users created through
	// the external handshake have no password hash.
	ExternalID *string `json:"-" gorm:"type:text;uniqueIndex"`
	Name       string  `json:"name" gorm:"type:text"`
	AvatarURL  string  `json:"avatarUrl" gorm:"type:text"`
	Role       Role    `json:"role" gorm:"type:text;not null;default:'unset'"`

	JuniorProfile  *JuniorProfile  `json:"juniorProfile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	CompanyProfile *CompanyProfile `json:"companyProfile,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`

	Projects     []Project     `json:"-" gorm:"foreignKey:CompanyID;"`
	Applications []Application `json:"-" gorm:"foreignKey:ApplicantID;"`
}

func (m User) TableName() string {
	return "users"
}

func (m User) GetUserID() string {
	return m.ID.String()
}

type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceAdvanced     ExperienceLevel = "advanced"
)

// JuniorProfile carries the fields only a junior has. A user with role
// junior always owns exactly one of these rows.
type JuniorProfile struct {
	Model
	UserID          uuid.UUID       `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	ExperienceLevel ExperienceLevel `json:"experienceLevel" gorm:"type:text;not null"`
	Skills          []string        `json:"skills" gorm:"serializer:json"`
	Bio             string          `json:"bio" gorm:"type:text"`
	PortfolioURL    string          `json:"portfolioUrl" gorm:"type:text"`
}

func (m JuniorProfile) TableName() string {
	return "junior_profiles"
}

// CompanyProfile carries the fields only a company has.
type CompanyProfile struct {
	Model
	UserID      uuid.UUID `json:"userId" gorm:"type:uuid;uniqueIndex;not null"`
	CompanyName string    `json:"companyName" gorm:"type:text;not null"`
	Website     string    `json:"website" gorm:"type:text"`
	Description string    `json:"description" gorm:"type:text"`
}

func (m CompanyProfile) TableName() string {
	return "company_profiles"
}
