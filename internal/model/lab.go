package model

// Position is a 2D layout hint for a light inside a lab floor plan.  The
// values are not interpreted by the store.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Light represents a single controllable RGB fixture.  A light is owned by
// exactly one Lab and is never shared.
//
// Fields:
//  ID        – unique identifier within the system.
//  Name      – display name.
//  IP        – network address of the fixture (not validated).
//  Position  – layout hint.
//  IsOn      – power flag.
//  Color     – hex (#rrggbb) or named color.
//  Intensity – brightness percentage, expected 0..100.
type Light struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	IP        string   `json:"ip"`
	Position  Position `json:"position"`
	IsOn      bool     `json:"is_on"`
	Color     string   `json:"color"`
	Intensity int      `json:"intensity"`
}

// Lab represents a laboratory room and the lights installed in it.
//
// Fields:
//  ID            – unique identifier.
//  Name          – display name.
//  Description   – free text.
//  Building      – building name or code.
//  Floor         – floor label (e.g. "2", "PB").
//  Room          – room label.
//  Capacity      – number of seats.
//  IsActive      – whether a teacher currently holds the lab.
//  ActiveTeacher – identifier of the holding teacher (nil when released).
//  Lights        – ordered lights owned by the lab.
type Lab struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	Building      string  `json:"building"`
	Floor         string  `json:"floor"`
	Room          string  `json:"room"`
	Capacity      int     `json:"capacity"`
	IsActive      bool    `json:"is_active"`
	ActiveTeacher *string `json:"active_teacher"`
	Lights        []Light `json:"lights"`
}

// Clone returns a deep copy of the lab so callers can never alias the
// store's internal slices or pointers.
func (l Lab) Clone() Lab {
	out := l
	if l.ActiveTeacher != nil {
		t := *l.ActiveTeacher
		out.ActiveTeacher = &t
	}
	if l.Lights != nil {
		out.Lights = make([]Light, len(l.Lights))
		copy(out.Lights, l.Lights)
	}
	return out
}

// LightByID returns the index of the light with the given id or -1.
func (l *Lab) LightByID(id string) int {
	for i := range l.Lights {
		if l.Lights[i].ID == id {
			return i
		}
	}
	return -1
}

// LabPatch carries optional lab fields for a partial update.  Only non-nil
// fields are merged.  ActiveTeacher pointing at an empty string clears the
// holder.
type LabPatch struct {
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Building      *string `json:"building"`
	Floor         *string `json:"floor"`
	Room          *string `json:"room"`
	Capacity      *int    `json:"capacity"`
	IsActive      *bool   `json:"is_active"`
	ActiveTeacher *string `json:"active_teacher"`
}

// Apply merges the patch into lab.
func (p LabPatch) Apply(lab *Lab) {
	if p.Name != nil {
		lab.Name = *p.Name
	}
	if p.Description != nil {
		lab.Description = *p.Description
	}
	if p.Building != nil {
		lab.Building = *p.Building
	}
	if p.Floor != nil {
		lab.Floor = *p.Floor
	}
	if p.Room != nil {
		lab.Room = *p.Room
	}
	if p.Capacity != nil {
		lab.Capacity = *p.Capacity
	}
	if p.IsActive != nil {
		lab.IsActive = *p.IsActive
	}
	if p.ActiveTeacher != nil {
		if *p.ActiveTeacher == "" {
			lab.ActiveTeacher = nil
		} else {
			t := *p.ActiveTeacher
			lab.ActiveTeacher = &t
		}
	}
}

// LightPatch carries optional light fields for a partial update.
type LightPatch struct {
	Name      *string   `json:"name"`
	IP        *string   `json:"ip"`
	Position  *Position `json:"position"`
	IsOn      *bool     `json:"is_on"`
	Color     *string   `json:"color"`
	Intensity *int      `json:"intensity"`
}

// Apply merges the patch into light.
func (p LightPatch) Apply(light *Light) {
	if p.Name != nil {
		light.Name = *p.Name
	}
	if p.IP != nil {
		light.IP = *p.IP
	}
	if p.Position != nil {
		light.Position = *p.Position
	}
	if p.IsOn != nil {
		light.IsOn = *p.IsOn
	}
	if p.Color != nil {
		light.Color = *p.Color
	}
	if p.Intensity != nil {
		light.Intensity = *p.Intensity
	}
}
