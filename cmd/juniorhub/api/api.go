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

package api

import (
	"log/slog"
	"os"
	"sort"

	"github.com/juniorhub-dev/juniorhub/internal/auth"
	"github.com/juniorhub-dev/juniorhub/internal/core"
	"github.com/juniorhub-dev/juniorhub/internal/core/application"
	"github.com/juniorhub-dev/juniorhub/internal/core/comment"
	"github.com/juniorhub-dev/juniorhub/internal/core/events"
	"github.com/juniorhub-dev/juniorhub/internal/core/notification"
	"github.com/juniorhub-dev/juniorhub/internal/core/project"
	"github.com/juniorhub-dev/juniorhub/internal/core/user"
	"github.com/juniorhub-dev/juniorhub/internal/database/repositories"
	"github.com/juniorhub-dev/juniorhub/internal/echohttp"
	"github.com/juniorhub-dev/juniorhub/internal/pubsub"
	"github.com/juniorhub-dev/juniorhub/internal/storage"
	"github.com/labstack/echo/v4"
)

func health(c echo.Context) error {
	return c.String(200, "ok")
}

func Start(db core.DB) {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		panic("JWT_SECRET is not set")
	}

	broker, err := pubsub.BrokerFactory()
	if err != nil {
		panic(err)
	}

	store, err := storage.LocalStoreFactory()
	if err != nil {
		panic(err)
	}

	// init all repositories using the provided database
	userRepository := repositories.NewUserRepository(db)
	projectRepository := repositories.NewProjectRepository(db)
	applicationRepository := repositories.NewApplicationRepository(db)
	commentRepository := repositories.NewCommentRepository(db)
	notificationRepository := repositories.NewNotificationRepository(db)

	dispatcher := notification.NewDispatcher(notificationRepository, broker)
	tokenService := auth.NewTokenService(jwtSecret)

	userService := user.NewService(userRepository)
	projectService := project.NewService(projectRepository)
	applicationService := application.NewService(applicationRepository, dispatcher)

	// init all http controllers using the repositories
	userController := user.NewHTTPController(userRepository, userService, tokenService, store)
	projectController := project.NewHTTPController(projectRepository, applicationRepository, projectService, store)
	applicationController := application.NewHTTPController(applicationRepository, applicationService)
	commentController := comment.NewHTTPController(commentRepository, dispatcher)
	notificationController := notification.NewHTTPController(notificationRepository)
	eventController := events.NewHTTPController(broker)

	server := echohttp.Server()
	server.Static("/uploads", store.Dir())

	apiV1Router := server.Group("/api/v1")
	// apply the health route without any session middleware
	apiV1Router.GET("/health", health)

	// the session middleware tolerates missing credentials - public reads
	// stay reachable, every handler consults the policy itself
	sessionRouter := apiV1Router.Group("", auth.SessionMiddleware(tokenService))

	authRouter := sessionRouter.Group("/auth")
	authRouter.POST("/register", userController.Register)
	authRouter.POST("/login", userController.Login)
	authRouter.POST("/refresh", userController.Refresh)
	authRouter.POST("/complete-role", userController.CompleteRole)

	sessionRouter.GET("/whoami", userController.Whoami)

	userRouter := sessionRouter.Group("/users")
	userRouter.POST("/avatar", userController.UploadAvatar)
	userRouter.GET("/:userID", userController.Read)
	userRouter.PATCH("/:userID", userController.Update)
	userRouter.DELETE("/:userID", userController.Delete)

	sessionRouter.GET("/projects", projectController.List)
	sessionRouter.POST("/projects", projectController.Create)

	projectRouter := sessionRouter.Group("/projects/:projectID", project.Middleware(projectRepository))
	projectRouter.GET("", projectController.Read)
	projectRouter.PATCH("", projectController.Update)
	projectRouter.DELETE("", projectController.Delete)
	projectRouter.POST("/image", projectController.UploadImage)

	projectRouter.POST("/applications", applicationController.Apply)
	projectRouter.GET("/applications", applicationController.ListByProject)

	projectRouter.POST("/comments", commentController.Create)
	projectRouter.GET("/comments", commentController.List)
	projectRouter.GET("/events", eventController.ProjectStream)

	sessionRouter.PATCH("/comments/:commentID", commentController.Update)
	sessionRouter.DELETE("/comments/:commentID", commentController.Delete)

	sessionRouter.GET("/applications", applicationController.ListMine)

	applicationRouter := sessionRouter.Group("/applications/:applicationID", application.Middleware(applicationRepository))
	applicationRouter.GET("", applicationController.Read)
	applicationRouter.PATCH("", applicationController.Update)
	applicationRouter.PUT("/status", applicationController.TransitionStatus)
	applicationRouter.POST("/withdraw", applicationController.Withdraw)
	applicationRouter.POST("/submit-work", applicationController.SubmitWork)

	notificationRouter := sessionRouter.Group("/notifications")
	notificationRouter.GET("", notificationController.List)
	notificationRouter.PUT("/read-all", notificationController.MarkAllRead)
	notificationRouter.PUT("/:notificationID/read", notificationController.MarkRead)
	notificationRouter.DELETE("/:notificationID", notificationController.Delete)

	sessionRouter.GET("/events", eventController.Stream)

	routes := server.Routes()
	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Path < routes[j].Path
	})
	// print all registered routes
	for _, route := range routes {
		if route.Method != "echo_route_not_found" {
			slog.Info(route.Path, "method", route.Method)
		}
	}
	slog.Error("failed to start server", "err", server.Start(":8080").Error())
}
