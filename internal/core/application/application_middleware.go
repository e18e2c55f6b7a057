package application

import (
	"errors"

	"github.com/google/uuid"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/database/models"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

type middlewareRepository interface {
	ReadWithProject(id uuid.UUID) (models.Application, error)
}

// Middleware resolves :applicationID and stores both the application and
// its project on the request context. Existence beats authorization: a
// missing application is a 404 no matter who asks.
func Middleware(repository middlewareRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c core.Context) error {
			applicationID, err := core.GetParamUUID(c, "applicationID")
			if err != nil {
				return echo.NewHTTPError(400, "invalid application id").WithInternal(err)
			}

			app, err := repository.ReadWithProject(applicationID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(404, "could not find application")
				}
				return echo.NewHTTPError(500, "could not load application").WithInternal(err)
			}

			core.SetApplication(c, app)
			core.SetProject(c, app.Project)
			return next(c)
		}
	}
}
