package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-lighting/internal/model"
)

type practiceReq struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
	Color       string `json:"color" validate:"required,max=32"`
	Intensity   int    `json:"intensity" validate:"gte=0,lte=100"`
}

// ListPractices returns built-in and custom presets.
func (h *LabHandler) ListPractices(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Practices())
}

// CreatePractice saves a custom preset.
func (h *LabHandler) CreatePractice(c echo.Context) error {
	var req practiceReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	p := h.Store.AddPractice(model.Practice{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
		Intensity:   req.Intensity,
	})
	return c.JSON(http.StatusCreated, p)
}

// DeletePractice removes a custom preset.  Built-in presets are refused
// with 403.
func (h *LabHandler) DeletePractice(c echo.Context) error {
	id := c.Param("id")
	p, err := h.Store.Practice(id)
	if err != nil {
		return errorJSON(c, err)
	}
	if !p.IsCustom {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "built-in practices cannot be deleted"})
	}
	if err := h.Store.DeletePractice(id); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
