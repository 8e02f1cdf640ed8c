package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-lighting/internal/handler"
	"github.com/iliyamo/lab-lighting/internal/middleware"
	"github.com/iliyamo/lab-lighting/internal/model"
)

// RegisterTeacher registers lab control endpoints under /v1 for teachers
// (admins are accepted too).  Every GET here is derived from the lab state
// only, so the revision-keyed response cache may be passed in mw.
func RegisterTeacher(e *echo.Echo, h *handler.LabHandler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	chain := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleTeacher, model.RoleAdmin),
	}, mw...)
	g := e.Group("/v1", chain...)

	g.GET("/labs", h.ListLabs)
	g.GET("/labs/:id", h.GetLab)
	g.GET("/labs/:id/energy", h.LabEnergy)
	g.POST("/labs/:id/activate", h.Activate)
	g.POST("/labs/:id/deactivate", h.Deactivate)

	g.PATCH("/labs/:id/lights/:light_id", h.UpdateLight)
	g.POST("/labs/:id/lights/:light_id/wheel", h.Wheel)
	g.POST("/labs/:id/lights/power", h.Power)
	g.POST("/labs/:id/practices/:practice_id/apply", h.ApplyPractice)

	g.GET("/practices", h.ListPractices)
	g.POST("/practices", h.CreatePractice)
	g.DELETE("/practices/:id", h.DeletePractice)
}
