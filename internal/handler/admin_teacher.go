package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-lighting/internal/labstore"
	"github.com/iliyamo/lab-lighting/internal/model"
	"github.com/iliyamo/lab-lighting/internal/repository"
)

// TeacherHandler lets admins manage teacher accounts.
type TeacherHandler struct {
	Users      *repository.UserRepo
	Store      *labstore.Store
	BcryptCost int
}

func NewTeacherHandler(users *repository.UserRepo, store *labstore.Store, cost int) *TeacherHandler {
	return &TeacherHandler{Users: users, Store: store, BcryptCost: cost}
}

type teacherReq struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=100"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ListTeachers returns every teacher account.
func (h *TeacherHandler) ListTeachers(c echo.Context) error {
	teachers := h.Users.ListByRole(model.RoleTeacher)
	out := make([]userPart, 0, len(teachers))
	for _, u := range teachers {
		out = append(out, toUserPart(u))
	}
	return c.JSON(http.StatusOK, out)
}

// CreateTeacher registers a teacher account.
func (h *TeacherHandler) CreateTeacher(c echo.Context) error {
	var req teacherReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	u, err := h.Users.Create(ctx, req.Email, req.Name, req.Password, model.RoleTeacher, h.BcryptCost)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, toUserPart(u))
}

// DeleteTeacher removes a teacher account and releases every lab it held.
func (h *TeacherHandler) DeleteTeacher(c echo.Context) error {
	id := c.Param("id")
	u, err := h.Users.GetByID(id)
	if err != nil {
		return errorJSON(c, err)
	}
	if u.Role != model.RoleTeacher {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "only teacher accounts can be deleted"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Users.Delete(ctx, id); err != nil {
		return errorJSON(c, err)
	}
	for _, lab := range h.Store.Labs() {
		if lab.ActiveTeacher != nil && *lab.ActiveTeacher == id {
			_ = h.Store.DeactivateLab(lab.ID)
		}
	}
	return c.NoContent(http.StatusNoContent)
}
