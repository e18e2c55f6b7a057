package project

import (
	"errors"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type middlewareRepository interface {
	Read(id uuid.UUID) (models.Project, error)
}

// Middleware resolves the :projectID route param and puts the project on
// the request context. Existence is checked here, before any policy
// decision, so a missing project is always a 404.
func Middleware(repository middlewareRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c core.Context) error {
			projectID, err := core.GetParamUUID(c, "projectID")
			if err != nil {
				return echo.NewHTTPError(400, "invalid project id").WithInternal(err)
			}

			project, err := repository.Read(projectID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(404, "could not find project")
				}
				return echo.NewHTTPError(500, "could not load project").WithInternal(err)
			}

			core.SetProject(c, project)
			return next(c)
		}
	}
}
