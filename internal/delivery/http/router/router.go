// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"authd/internal/delivery/http/middleware"
	"authd/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler    *handler.AuthHandler
	AuthMiddleware *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler    *handler.AuthHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:    params.AuthHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/verify", r.authHandler.Verify)
		authGroup.POST("/password", r.authHandler.ChangePassword)
	}

	// User routes that require authentication
	userGroup := e.Group("/users")
	userGroup.Use(r.authMiddleware.Authenticate)
	{
		userGroup.PATCH("/:id", r.authHandler.UpdateProfile)
	}
}
