package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-lighting/internal/labstore"
	"github.com/iliyamo/lab-lighting/internal/model"
	"github.com/iliyamo/lab-lighting/internal/repository"
)

// LabHandler serves lab, light and practice endpoints for both admins and
// teachers.  Admin-only methods live in admin_lab.go, teacher control in
// teacher_lab.go.
type LabHandler struct {
	Store *labstore.Store
}

// NewLabHandler panics on a nil store.
func NewLabHandler(store *labstore.Store) *LabHandler {
	if store == nil {
		panic("nil store passed to NewLabHandler")
	}
	return &LabHandler{Store: store}
}

// ----- DTOs -----

type lightReq struct {
	Name      string         `json:"name" validate:"required,max=100"`
	IP        string         `json:"ip" validate:"omitempty,max=64"`
	Position  model.Position `json:"position"`
	IsOn      bool           `json:"is_on"`
	Color     string         `json:"color" validate:"omitempty,max=32"`
	Intensity int            `json:"intensity" validate:"gte=0,lte=100"`
}

func (r lightReq) toModel() model.Light {
	color := r.Color
	if color == "" {
		color = "#ffffff"
	}
	return model.Light{Name: r.Name, IP: r.IP, Position: r.Position, IsOn: r.IsOn, Color: color, Intensity: r.Intensity}
}

type labReq struct {
	Name        string     `json:"name" validate:"required,max=100"`
	Description string     `json:"description" validate:"max=500"`
	Building    string     `json:"building" validate:"max=100"`
	Floor       string     `json:"floor" validate:"max=20"`
	Room        string     `json:"room" validate:"max=50"`
	Capacity    int        `json:"capacity" validate:"gte=0"`
	Lights      []lightReq `json:"lights" validate:"dive"`
}

type labPatchReq struct {
	Name          *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description   *string `json:"description" validate:"omitempty,max=500"`
	Building      *string `json:"building" validate:"omitempty,max=100"`
	Floor         *string `json:"floor" validate:"omitempty,max=20"`
	Room          *string `json:"room" validate:"omitempty,max=50"`
	Capacity      *int    `json:"capacity" validate:"omitempty,gte=0"`
	IsActive      *bool   `json:"is_active"`
	ActiveTeacher *string `json:"active_teacher"`
}

func (r labPatchReq) toModel() model.LabPatch {
	return model.LabPatch{
		Name: r.Name, Description: r.Description, Building: r.Building, Floor: r.Floor,
		Room: r.Room, Capacity: r.Capacity, IsActive: r.IsActive, ActiveTeacher: r.ActiveTeacher,
	}
}

type lightPatchReq struct {
	Name      *string         `json:"name" validate:"omitempty,min=1,max=100"`
	IP        *string         `json:"ip" validate:"omitempty,max=64"`
	Position  *model.Position `json:"position"`
	IsOn      *bool           `json:"is_on"`
	Color     *string         `json:"color" validate:"omitempty,min=1,max=32"`
	Intensity *int            `json:"intensity" validate:"omitempty,gte=0,lte=100"`
}

func (r lightPatchReq) toModel() model.LightPatch {
	return model.LightPatch{Name: r.Name, IP: r.IP, Position: r.Position, IsOn: r.IsOn, Color: r.Color, Intensity: r.Intensity}
}

// holder enforces that the caller currently holds the lab.  Admins always
// pass.
func holder(c echo.Context, lab model.Lab) error {
	if isAdmin(c) {
		return nil
	}
	uid, err := getUserID(c)
	if err != nil {
		return repository.ErrForbidden
	}
	if !lab.IsActive || lab.ActiveTeacher == nil || *lab.ActiveTeacher != uid {
		return repository.ErrForbidden
	}
	return nil
}

// lightResponse re-reads the lab and returns the light as stored.
func (h *LabHandler) lightResponse(c echo.Context, status int, labID, lightID string) error {
	lab, err := h.Store.Lab(labID)
	if err != nil {
		return errorJSON(c, err)
	}
	i := lab.LightByID(lightID)
	if i < 0 {
		return errorJSON(c, labstore.ErrLightNotFound)
	}
	return c.JSON(status, lab.Lights[i])
}
