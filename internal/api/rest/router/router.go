// Package router assembles the echo engine: routes, authentication and the
// error boundary.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/proposaldesk/docstore/internal/api/rest/handler"
	"github.com/proposaldesk/docstore/internal/api/rest/middleware"
	"github.com/proposaldesk/docstore/internal/logger"
	"github.com/proposaldesk/docstore/internal/service"
)

// Router wires services into the HTTP surface.
type Router struct {
	resolver *service.Resolver
	users    *service.User
	dirs     *service.Directory
	docs     *service.Document
	logger   *logger.Logger
}

// New creates a new Router instance.
func New(
	resolver *service.Resolver,
	users *service.User,
	dirs *service.Directory,
	docs *service.Document,
	logger *logger.Logger,
) *Router {
	return &Router{
		resolver: resolver,
		users:    users,
		dirs:     dirs,
		docs:     docs,
		logger:   logger,
	}
}

// Register builds the echo engine with all routes and middleware. Every route
// except auth_v2 requires a bearer token.
func (r *Router) Register() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.NewErrorHandler(r.logger)

	logging := middleware.NewLogging(r.logger)
	e.Use(logging.Handle)

	userHandler := handler.NewUser(r.users, r.logger)
	dirHandler := handler.NewDirectory(r.dirs, r.logger)
	docHandler := handler.NewDocument(r.docs, r.logger)
	entryHandler := handler.NewEntry(r.dirs, r.docs, r.logger)

	api := e.Group("/api")
	api.POST("/auth_v2", userHandler.AuthV2)

	authenticate := middleware.NewAuthenticate(r.resolver)
	protected := api.Group("", authenticate.Handle)

	protected.POST("/register", userHandler.Register)
	protected.GET("/users/info", userHandler.GetInfo)
	protected.PATCH("/users/info", userHandler.UpdateInfo)
	protected.POST("/users/delete", userHandler.Delete)
	protected.GET("/client_state", userHandler.GetClientState)
	protected.POST("/client_state", userHandler.RecordClientState)

	protected.POST("/dirs", dirHandler.Create)
	protected.GET("/dirs/info", dirHandler.GetInfo)

	protected.POST("/files/upload", docHandler.Upload)
	protected.GET("/files/download/:uuid", docHandler.Download)
	protected.GET("/files/info", docHandler.GetInfo)

	protected.POST("/visibility", entryHandler.ChangeVisibility)
	protected.POST("/entries/delete", entryHandler.Delete)

	return e
}
