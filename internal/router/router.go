package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-lighting/internal/handler"
	"github.com/iliyamo/lab-lighting/internal/middleware"
	"github.com/iliyamo/lab-lighting/internal/model"
)

// RegisterRoutes registers routes that do not require authentication: the
// health check and, when metrics is non-nil, the Prometheus endpoint.
func RegisterRoutes(e *echo.Echo, metrics echo.HandlerFunc) {
	e.GET("/healthz", handler.Health)
	if metrics != nil {
		e.GET("/metrics", metrics)
	}
}

// RegisterAuth registers login under /v1/auth and the profile endpoint
// under /v1.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/login", a.Login)

	auth := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleTeacher),
	)
	auth.GET("/me", a.Me)
}
