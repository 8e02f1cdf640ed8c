package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/lab-lighting/internal/labstore"
)

type summaryResp struct {
	Labs            int     `json:"labs"`
	ActiveLabs      int     `json:"active_labs"`
	Lights          int     `json:"lights"`
	LightsOn        int     `json:"lights_on"`
	Practices       int     `json:"practices"`
	CustomPractices int     `json:"custom_practices"`
	TotalWatts      float64 `json:"total_watts"`
	Revision        uint64  `json:"revision"`
}

// Energy returns the total draw and the per-lab breakdown.
func (h *LabHandler) Energy(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"total_watts": h.Store.EnergyConsumption(""),
		"labs":        h.Store.LabEnergy(),
	})
}

// Summary returns counts for the admin dashboard.
func (h *LabHandler) Summary(c echo.Context) error {
	snap := h.Store.Snapshot()
	out := summaryResp{Labs: len(snap.Labs), Practices: len(snap.Practices), Revision: snap.Revision}
	for _, lab := range snap.Labs {
		if lab.IsActive {
			out.ActiveLabs++
		}
		out.Lights += len(lab.Lights)
		for _, l := range lab.Lights {
			if l.IsOn {
				out.LightsOn++
			}
			out.TotalWatts += labstore.LightWatts(l)
		}
	}
	for _, p := range snap.Practices {
		if p.IsCustom {
			out.CustomPractices++
		}
	}
	return c.JSON(http.StatusOK, out)
}
