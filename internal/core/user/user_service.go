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
	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRoleAlreadySet     = errors.New("role was already set")
	// ErrMissingProfileField fires when the role conditional invariant is
	// violated: a junior without an experience level, a company without a
	// company name.
	ErrMissingProfileField = errors.New("missing required profile field for role")
)

type serviceRepository interface {
	Create(tx core.DB, u *models.User) error
	Save(tx core.DB, u *models.User) error
	ReadWithProfiles(id uuid.UUID) (models.User, error)
	ReadByEmail(email string) (models.User, error)
	SaveJuniorProfile(tx core.DB, profile *models.JuniorProfile) error
	SaveCompanyProfile(tx core.DB, profile *models.CompanyProfile) error
	Transaction(f func(tx core.DB) error) error
}

type Service struct {
	userRepository serviceRepository
}

func NewService(userRepository serviceRepository) *Service {
	return &Service{
		userRepository: userRepository,
	}
}

// Register creates a password based identity with a concrete role. The
// role conditional invariants are enforced at write time: juniors need an
// experience level, companies a company name.
func (s *Service) Register(req registerRequest) (models.User, error) {
	role := models.Role(req.Role)
	if err := checkProfileInvariant(role, req.ExperienceLevel, req.CompanyName); err != nil {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, errors.Wrap(err, "could not hash password")
	}

	user := models.User{
		Email:        req.Email,
		PasswordHash: core.Ptr(string(hash)),
		Name:         req.Name,
		Role:         role,
	}

	err = s.userRepository.Transaction(func(tx core.DB) error {
		if err := s.userRepository.Create(tx, &user); err != nil {
			return err
		}
		return s.createProfile(tx, &user, req.ExperienceLevel, req.CompanyName)
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// Login verifies the password and returns the user. The caller never
// learns whether the email or the password was wrong.
func (s *Service) Login(email, password string) (models.User, error) {
	user, err := s.userRepository.ReadByEmail(email)
	if err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	if user.PasswordHash == nil {
		// externally authenticated identity without a password
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// CompleteRole performs the exactly-once transition from the unset role to
// a concrete one for an externally authenticated identity.
func (s *Service) CompleteRole(userID uuid.UUID, req completeRoleRequest) (models.User, error) {
	user, err := s.userRepository.ReadWithProfiles(userID)
	if err != nil {
		return models.User{}, err
	}

	if user.Role != models.RoleUnset {
		return models.User{}, ErrRoleAlreadySet
	}

	role := models.Role(req.Role)
	if err := checkProfileInvariant(role, req.ExperienceLevel, req.CompanyName); err != nil {
		return models.User{}, err
	}

	user.Role = role
	err = s.userRepository.Transaction(func(tx core.DB) error {
		if err := s.userRepository.Save(tx, &user); err != nil {
			return err
		}
		return s.createProfile(tx, &user, req.ExperienceLevel, req.CompanyName)
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

// UpdateProfile applies a patch, re-checking the role invariants so a
// junior cannot blank out their experience level.
func (s *Service) UpdateProfile(user models.User, patch patchRequest) (models.User, error) {
	if !patch.applyToModel(&user) {
		return user, nil
	}

	if user.Role == models.RoleJunior && user.JuniorProfile != nil && user.JuniorProfile.ExperienceLevel == "" {
		return models.User{}, ErrMissingProfileField
	}
	if user.Role == models.RoleCompany && user.CompanyProfile != nil && user.CompanyProfile.CompanyName == "" {
		return models.User{}, ErrMissingProfileField
	}

	err := s.userRepository.Transaction(func(tx core.DB) error {
		if err := s.userRepository.Save(tx, &user); err != nil {
			return err
		}
		if user.JuniorProfile != nil {
			if err := s.userRepository.SaveJuniorProfile(tx, user.JuniorProfile); err != nil {
				return err
			}
		}
		if user.CompanyProfile != nil {
			if err := s.userRepository.SaveCompanyProfile(tx, user.CompanyProfile); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}

func (s *Service) createProfile(tx core.DB, user *models.User, experienceLevel, companyName string) error {
	switch user.Role {
	case models.RoleJunior:
		profile := models.JuniorProfile{
			UserID:          user.ID,
			ExperienceLevel: models.ExperienceLevel(experienceLevel),
		}
		if err := s.userRepository.SaveJuniorProfile(tx, &profile); err != nil {
			return err
		}
		user.JuniorProfile = &profile
	case models.RoleCompany:
		profile := models.CompanyProfile{
			UserID:      user.ID,
			CompanyName: companyName,
		}
		if err := s.userRepository.SaveCompanyProfile(tx, &profile); err != nil {
			return err
		}
		user.CompanyProfile = &profile
	}
	return nil
}

func checkProfileInvariant(role models.Role, experienceLevel, companyName string) error {
	if role == models.RoleJunior && experienceLevel == "" {
		return ErrMissingProfileField
	}
	if role == models.RoleCompany && companyName == "" {
		return ErrMissingProfileField
	}
	return nil
}
