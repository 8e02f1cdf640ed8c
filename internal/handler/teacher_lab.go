package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-lighting/internal/colorwheel"
	"github.com/iliyamo/lab-lighting/internal/model"
)

type wheelReq struct {
	CX        float64 `json:"cx"`
	CY        float64 `json:"cy"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Intensity *int    `json:"intensity" validate:"omitempty,gte=0,lte=100"`
}

type powerReq struct {
	On *bool `json:"on" validate:"required"`
}

// LabEnergy returns the estimated draw of one lab.
func (h *LabHandler) LabEnergy(c echo.Context) error {
	id := c.Param("id")
	if _, err := h.Store.Lab(id); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"lab_id": id, "watts": h.Store.EnergyConsumption(id)})
}

// Activate claims the lab for the calling teacher.  A lab already held by
// someone else yields 409.
func (h *LabHandler) Activate(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id := c.Param("id")
	ok, err := h.Store.ActivateLab(id, uid)
	if err != nil {
		return errorJSON(c, err)
	}
	if !ok {
		return c.JSON(http.StatusConflict, echo.Map{"error": "lab is active under another teacher"})
	}
	return h.GetLab(c)
}

// Deactivate releases the lab and switches its lights off.  Only the holder
// (or an admin) may do so; a teacher cannot switch off an inactive lab.
func (h *LabHandler) Deactivate(c echo.Context) error {
	id := c.Param("id")
	if err := h.requireHolder(c, id); err != nil {
		return errorJSON(c, err)
	}
	if err := h.Store.DeactivateLab(id); err != nil {
		return errorJSON(c, err)
	}
	return h.GetLab(c)
}

// UpdateLight changes one light of a lab the caller holds.
func (h *LabHandler) UpdateLight(c echo.Context) error {
	var req lightPatchReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	labID, lightID := c.Param("id"), c.Param("light_id")
	if err := h.requireHolder(c, labID); err != nil {
		return errorJSON(c, err)
	}
	if err := h.Store.UpdateLight(labID, lightID, req.toModel()); err != nil {
		return errorJSON(c, err)
	}
	return h.lightResponse(c, http.StatusOK, labID, lightID)
}

// Wheel sets a light's color from a touch on the color wheel: the hue is
// the angle of (x, y) around the centre (cx, cy).  The light is switched on.
func (h *LabHandler) Wheel(c echo.Context) error {
	var req wheelReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	labID, lightID := c.Param("id"), c.Param("light_id")
	if err := h.requireHolder(c, labID); err != nil {
		return errorJSON(c, err)
	}
	color := colorwheel.FromPoint(req.CX, req.CY, req.X, req.Y)
	on := true
	patch := model.LightPatch{Color: &color, IsOn: &on, Intensity: req.Intensity}
	if err := h.Store.UpdateLight(labID, lightID, patch); err != nil {
		return errorJSON(c, err)
	}
	return h.lightResponse(c, http.StatusOK, labID, lightID)
}

// Power switches every light of the lab on or off.
func (h *LabHandler) Power(c echo.Context) error {
	var req powerReq
	if ok, err := bindValid(c, &req); !ok {
		return err
	}
	id := c.Param("id")
	if err := h.requireHolder(c, id); err != nil {
		return errorJSON(c, err)
	}
	if err := h.Store.SetAllLights(id, *req.On); err != nil {
		return errorJSON(c, err)
	}
	return h.GetLab(c)
}

// ApplyPractice copies a preset onto every light of the lab.
func (h *LabHandler) ApplyPractice(c echo.Context) error {
	id := c.Param("id")
	if err := h.requireHolder(c, id); err != nil {
		return errorJSON(c, err)
	}
	if err := h.Store.ApplyPractice(id, c.Param("practice_id")); err != nil {
		return errorJSON(c, err)
	}
	return h.GetLab(c)
}

func (h *LabHandler) requireHolder(c echo.Context, labID string) error {
	lab, err := h.Store.Lab(labID)
	if err != nil {
		return err
	}
	return holder(c, lab)
}
