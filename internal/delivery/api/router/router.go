// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"authgate/internal/delivery/api/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	CredentialHandler *handler.CredentialHandler
	PageHandler       *handler.PageHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	credentialHandler *handler.CredentialHandler
	pageHandler       *handler.PageHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		credentialHandler: params.CredentialHandler,
		pageHandler:       params.PageHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	e.POST("/signup", r.credentialHandler.Signup)
	e.POST("/login", r.credentialHandler.Login)
}

// RegisterPageRoutes serves the sign-in pages and the rest of the static
// directory. Without a directory the page paths answer 404; /login and
// /signup would otherwise match the POST routes and answer 405.
func (r *router) RegisterPageRoutes(e *echo.Echo) {
	pages := map[string]string{
		"/index":  "index.html",
		"/login":  "login.html",
		"/signup": "signup.html",
	}

	if r.pageHandler == nil || !r.pageHandler.Enabled() {
		for path := range pages {
			e.GET(path, pageNotFound)
		}

		return
	}

	for path, file := range pages {
		e.GET(path, r.pageHandler.Page(file))
	}

	e.Static("/", r.pageHandler.Dir())
}

func pageNotFound(echo.Context) error {
	return echo.ErrNotFound
}
