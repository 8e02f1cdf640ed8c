package labstore

import (
	"strings"

	"github.com/iliyamo/lab-lighting/internal/model"
)

// Energy model: a light at 100% draws BaseWatts when white and
// BaseWatts*ColorFactor when showing any other color.
const (
	BaseWatts   = 10.0
	WhiteFactor = 1.0
	ColorFactor = 1.2
)

// LabEnergy is the consumption breakdown of one lab.
type LabEnergy struct {
	LabID    string  `json:"lab_id"`
	Name     string  `json:"name"`
	LightsOn int     `json:"lights_on"`
	Watts    float64 `json:"watts"`
}

// IsWhite reports whether a color string denotes pure white.
func IsWhite(color string) bool {
	switch strings.ToLower(strings.ReplaceAll(color, " ", "")) {
	case "#ffffff", "#fff", "ffffff", "white", "rgb(255,255,255)":
		return true
	}
	return false
}

// LightWatts is the contribution of a single light.
func LightWatts(l model.Light) float64 {
	if !l.IsOn {
		return 0
	}
	factor := ColorFactor
	if IsWhite(l.Color) {
		factor = WhiteFactor
	}
	return BaseWatts * (float64(l.Intensity) / 100) * factor
}

func labWatts(lab *model.Lab) (watts float64, on int) {
	for _, l := range lab.Lights {
		if l.IsOn {
			on++
		}
		watts += LightWatts(l)
	}
	return watts, on
}

// EnergyConsumption returns the estimated draw in watts of every powered
// light in the lab, or across all labs when labID is empty.  An unknown lab
// yields 0.  The value is recomputed on every call.
func (s *Store) EnergyConsumption(labID string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var total float64
	for i := range s.labs {
		if labID != "" && s.labs[i].ID != labID {
			continue
		}
		w, _ := labWatts(&s.labs[i])
		total += w
	}
	return total
}

// LabEnergy returns the per-lab breakdown in lab order.
func (s *Store) LabEnergy() []LabEnergy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]LabEnergy, 0, len(s.labs))
	for i := range s.labs {
		w, on := labWatts(&s.labs[i])
		out = append(out, LabEnergy{LabID: s.labs[i].ID, Name: s.labs[i].Name, LightsOn: on, Watts: w})
	}
	return out
}
