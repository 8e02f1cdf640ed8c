package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-lighting/internal/model"
)

// ListLabs returns every lab with its lights.
func (h *LabHandler) ListLabs(c echo.Context) error {
	return c.JSON(http.StatusOK, h.Store.Labs())
}

// GetLab returns one lab.
func (h *LabHandler) GetLab(c echo.Context) error {
	lab, err := h.Store.Lab(c.Param("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, lab)
}

// CreateLab adds a lab, optionally with its initial lights.
func (h *LabHandler) CreateLab(c echo.Context) error {
	var req labReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	lab := model.Lab{
		Name:        req.Name,
		Description: req.Description,
		Building:    req.Building,
		Floor:       req.Floor,
		Room:        req.Room,
		Capacity:    req.Capacity,
		Lights:      make([]model.Light, 0, len(req.Lights)),
	}
	for _, l := range req.Lights {
		lab.Lights = append(lab.Lights, l.toModel())
	}
	return c.JSON(http.StatusCreated, h.Store.CreateLab(lab))
}

// UpdateLab merges the supplied fields into the lab.
func (h *LabHandler) UpdateLab(c echo.Context) error {
	var req labPatchReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	id := c.Param("id")
	if err := h.Store.UpdateLab(id, req.toModel()); err != nil {
		return errorJSON(c, err)
	}
	return h.GetLab(c)
}

// DeleteLab removes a lab and its lights.
func (h *LabHandler) DeleteLab(c echo.Context) error {
	if err := h.Store.DeleteLab(c.Param("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AddLight installs a new light in a lab.
func (h *LabHandler) AddLight(c echo.Context) error {
	var req lightReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	light, err := h.Store.AddLight(c.Param("id"), req.toModel())
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusCreated, light)
}

// AdminUpdateLight edits any light regardless of who holds the lab.
func (h *LabHandler) AdminUpdateLight(c echo.Context) error {
	var req lightPatchReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	labID, lightID := c.Param("id"), c.Param("light_id")
	if err := h.Store.UpdateLight(labID, lightID, req.toModel()); err != nil {
		return errorJSON(c, err)
	}
	return h.lightResponse(c, http.StatusOK, labID, lightID)
}

// DeleteLight uninstalls a light.
func (h *LabHandler) DeleteLight(c echo.Context) error {
	if err := h.Store.DeleteLight(c.Param("id"), c.Param("light_id")); err != nil {
		return errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ForceDeactivate releases a lab whoever holds it.
func (h *LabHandler) ForceDeactivate(c echo.Context) error {
	id := c.Param("id")
	if err := h.Store.DeactivateLab(id); err != nil {
		return errorJSON(c, err)
	}
	return h.GetLab(c)
}
