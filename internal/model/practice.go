package model

// Practice is a reusable lighting preset (color + intensity) that can be
// copied onto the lights of a lab.  IsCustom separates user-created presets
// from the built-in ones shipped with the application; only custom presets
// may be deleted through the API.
type Practice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Intensity   int    `json:"intensity"`
	IsCustom    bool   `json:"is_custom"`
}
