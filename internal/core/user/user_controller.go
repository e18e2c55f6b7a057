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
	"errors"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/accesscontrol"
	"github.com/juniorhub-dev/juniorhub/internal/auth"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/juniorhub-dev/juniorhub/internal/storage"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type controllerRepository interface {
	ReadWithProfiles(id uuid.UUID) (models.User, error)
	Save(tx core.DB, t *models.User) error
	Delete(tx core.DB, id uuid.UUID) error
}

type Controller struct {
	userRepository controllerRepository
	userService    *Service
	tokenService   *auth.TokenService
	store          storage.Store
}

func NewHTTPController(repository controllerRepository, service *Service, tokens *auth.TokenService, store storage.Store) *Controller {
	return &Controller{
		userRepository: repository,
		userService:    service,
		tokenService:   tokens,
		store:          store,
	}
}

func (u *Controller) Register(c core.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := core.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	user, err := u.userService.Register(req)
	if err != nil {
		if database.IsDuplicateKeyError(err) {
			return echo.NewHTTPError(409, echo.Map{"message": "email already registered", "reason": "conflict"})
		}
		if errors.Is(err, ErrMissingProfileField) {
			return echo.NewHTTPError(400, err.Error())
		}
		return echo.NewHTTPError(500, "could not register user").WithInternal(err)
	}

	tokens, err := u.tokenService.Issue(user.ID, user.Role)
	if err != nil {
		return echo.NewHTTPError(500, "could not issue tokens").WithInternal(err)
	}

	return c.JSON(201, echo.Map{"user": toPublicProfile(user), "tokens": tokens})
}

func (u *Controller) Login(c core.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := core.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	user, err := u.userService.Login(req.Email, req.Password)
	if err != nil {
		return echo.NewHTTPError(401, "invalid email or password")
	}

	tokens, err := u.tokenService.Issue(user.ID, user.Role)
	if err != nil {
		return echo.NewHTTPError(500, "could not issue tokens").WithInternal(err)
	}

	return c.JSON(200, echo.Map{"user": toPublicProfile(user), "tokens": tokens})
}

// Refresh exchanges a valid refresh token for a fresh pair. The role is
// re-read from the store so a completed role shows up in the new tokens.
func (u *Controller) Refresh(c core.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := core.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	subjectID, _, err := u.tokenService.Verify(req.RefreshToken, auth.TokenClassRefresh)
	if err != nil {
		return echo.NewHTTPError(401, "invalid refresh token")
	}

	user, err := u.userRepository.ReadWithProfiles(subjectID)
	if err != nil {
		return echo.NewHTTPError(401, "unknown subject")
	}

	tokens, err := u.tokenService.Issue(user.ID, user.Role)
	if err != nil {
		return echo.NewHTTPError(500, "could not issue tokens").WithInternal(err)
	}

	return c.JSON(200, tokens)
}

func (u *Controller) CompleteRole(c core.Context) error {
	actor := core.GetSession(c)
	if !actor.Authenticated() {
		return core.DenyError(accesscontrol.Deny(accesscontrol.ReasonUnauthenticated))
	}

	var req completeRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := core.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	user, err := u.userService.CompleteRole(actor.SubjectID, req)
	if err != nil {
		if errors.Is(err, ErrRoleAlreadySet) {
			return echo.NewHTTPError(409, echo.Map{"message": "role was already set", "reason": "conflict"})
		}
		if errors.Is(err, ErrMissingProfileField) {
			return echo.NewHTTPError(400, err.Error())
		}
		return echo.NewHTTPError(500, "could not complete signup").WithInternal(err)
	}

	// the old tokens still carry the unset role
	tokens, err := u.tokenService.Issue(user.ID, user.Role)
	if err != nil {
		return echo.NewHTTPError(500, "could not issue tokens").WithInternal(err)
	}

	return c.JSON(200, echo.Map{"user": toPublicProfile(user), "tokens": tokens})
}

func (u *Controller) Whoami(c core.Context) error {
	actor := core.GetSession(c)
	if !actor.Authenticated() {
		return core.DenyError(accesscontrol.Deny(accesscontrol.ReasonUnauthenticated))
	}

	user, err := u.userRepository.ReadWithProfiles(actor.SubjectID)
	if err != nil {
		return echo.NewHTTPError(404, "could not find user")
	}

	return c.JSON(200, user)
}

// Read returns the public view of any profile.
func (u *Controller) Read(c core.Context) error {
	user, err := u.load(c)
	if err != nil {
		return err
	}

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionRead, accesscontrol.UserResource(user))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	return c.JSON(200, toPublicProfile(user))
}

func (u *Controller) Update(c core.Context) error {
	user, err := u.load(c)
	if err != nil {
		return err
	}

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionUpdate, accesscontrol.UserResource(user))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	var req patchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(400, "unable to process request").WithInternal(err)
	}
	if err := core.V.Struct(req); err != nil {
		return echo.NewHTTPError(400, err.Error())
	}

	updated, err := u.userService.UpdateProfile(user, req)
	if err != nil {
		if errors.Is(err, ErrMissingProfileField) {
			return echo.NewHTTPError(400, err.Error())
		}
		return echo.NewHTTPError(500, "could not update profile").WithInternal(err)
	}

	return c.JSON(200, updated)
}

// Delete removes a user. The policy only lets admins through.
func (u *Controller) Delete(c core.Context) error {
	user, err := u.load(c)
	if err != nil {
		return err
	}

	decision := accesscontrol.Decide(core.GetSession(c), accesscontrol.ActionDelete, accesscontrol.UserResource(user))
	if !decision.Allowed {
		return core.DenyError(decision)
	}

	if err := u.userRepository.Delete(nil, user.ID); err != nil {
		return echo.NewHTTPError(500, "could not delete user").WithInternal(err)
	}

	return c.NoContent(200)
}

// UploadAvatar stores the uploaded image and points the caller's avatar
// at the resulting opaque URL.
func (u *Controller) UploadAvatar(c core.Context) error {
	actor := core.GetSession(c)
	if !actor.Authenticated() {
		return core.DenyError(accesscontrol.Deny(accesscontrol.ReasonUnauthenticated))
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(400, "missing file").WithInternal(err)
	}

	f, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(400, "could not read file").WithInternal(err)
	}
	defer f.Close()

	url, err := u.store.Save("avatars", fileHeader.Filename, f)
	if err != nil {
		return echo.NewHTTPError(400, "could not store file").WithInternal(err)
	}

	user, err := u.userRepository.ReadWithProfiles(actor.SubjectID)
	if err != nil {
		return echo.NewHTTPError(404, "could not find user")
	}

	user.AvatarURL = url
	if err := u.userRepository.Save(nil, &user); err != nil {
		return echo.NewHTTPError(500, "could not save avatar").WithInternal(err)
	}

	return c.JSON(200, echo.Map{"avatarUrl": url})
}

func (u *Controller) load(c core.Context) (models.User, error) {
	id, err := core.GetParamUUID(c, "userID")
	if err != nil {
		return models.User{}, echo.NewHTTPError(400, "invalid user id").WithInternal(err)
	}

	user, err := u.userRepository.ReadWithProfiles(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, echo.NewHTTPError(404, "could not find user")
		}
		return models.User{}, echo.NewHTTPError(500, "could not load user").WithInternal(err)
	}

	return user, nil
}
