package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-lighting/internal/handler"
	"github.com/iliyamo/lab-lighting/internal/middleware"
	"github.com/iliyamo/lab-lighting/internal/model"
)

// RegisterAdmin registers ADMIN-scoped endpoints under /v1/admin.  mw runs
// after authentication (rate limiting).
func RegisterAdmin(e *echo.Echo, h *handler.LabHandler, t *handler.TeacherHandler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	chain := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	}, mw...)
	g := e.Group("/v1/admin", chain...)

	// ---- Labs ----
	g.GET("/labs", h.ListLabs)
	g.POST("/labs", h.CreateLab)
	g.GET("/labs/:id", h.GetLab)
	g.PATCH("/labs/:id", h.UpdateLab)
	g.DELETE("/labs/:id", h.DeleteLab)
	g.POST("/labs/:id/deactivate", h.ForceDeactivate)

	// ---- Lights ----
	g.POST("/labs/:id/lights", h.AddLight)
	g.PATCH("/labs/:id/lights/:light_id", h.AdminUpdateLight)
	g.DELETE("/labs/:id/lights/:light_id", h.DeleteLight)

	// ---- Teachers ----
	g.GET("/teachers", t.ListTeachers)
	g.POST("/teachers", t.CreateTeacher)
	g.DELETE("/teachers/:id", t.DeleteTeacher)

	// ---- Analytics ----
	g.GET("/analytics/energy", h.Energy)
	g.GET("/analytics/summary", h.Summary)
}
