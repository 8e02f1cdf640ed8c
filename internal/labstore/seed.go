package labstore

import "github.com/iliyamo/lab-lighting/internal/model"

// DefaultLabs is the built-in dataset a fresh store starts from.
func DefaultLabs() []model.Lab {
	return []model.Lab{
		{
			ID:          "1",
			Name:        "Chemistry Lab",
			Description: "General and organic chemistry practicals",
			Building:    "A",
			Floor:       "1",
			Room:        "A-101",
			Capacity:    30,
			Lights: []model.Light{
				{ID: "1-1", Name: "Front left", IP: "192.168.1.101", Position: model.Position{X: 0, Y: 0}, Color: "#ffffff", Intensity: 100},
				{ID: "1-2", Name: "Front right", IP: "192.168.1.102", Position: model.Position{X: 1, Y: 0}, Color: "#ffffff", Intensity: 100},
				{ID: "1-3", Name: "Back left", IP: "192.168.1.103", Position: model.Position{X: 0, Y: 1}, Color: "#ffffff", Intensity: 100},
				{ID: "1-4", Name: "Back right", IP: "192.168.1.104", Position: model.Position{X: 1, Y: 1}, Color: "#ffffff", Intensity: 100},
			},
		},
		{
			ID:          "2",
			Name:        "Biology Lab",
			Description: "Microscopy and cell culture",
			Building:    "B",
			Floor:       "2",
			Room:        "B-204",
			Capacity:    24,
			Lights: []model.Light{
				{ID: "2-1", Name: "Bench 1", IP: "192.168.2.101", Position: model.Position{X: 0, Y: 0}, Color: "#ffffff", Intensity: 80},
				{ID: "2-2", Name: "Bench 2", IP: "192.168.2.102", Position: model.Position{X: 1, Y: 0}, Color: "#ffffff", Intensity: 80},
				{ID: "2-3", Name: "Microscopes", IP: "192.168.2.103", Position: model.Position{X: 2, Y: 0}, Color: "#ffffff", Intensity: 60},
			},
		},
		{
			ID:          "3",
			Name:        "Physics Lab",
			Description: "Optics and electronics",
			Building:    "C",
			Floor:       "3",
			Room:        "C-310",
			Capacity:    20,
			Lights: []model.Light{
				{ID: "3-1", Name: "Optics table", IP: "192.168.3.101", Position: model.Position{X: 0, Y: 0}, Color: "#ffffff", Intensity: 100},
				{ID: "3-2", Name: "Electronics bench", IP: "192.168.3.102", Position: model.Position{X: 1, Y: 0}, Color: "#ffffff", Intensity: 100},
			},
		},
	}
}

// DefaultPractices returns the predefined presets.  They are never marked
// custom.
func DefaultPractices() []model.Practice {
	return []model.Practice{
		{ID: "p1", Name: "Microscopy", Description: "Bright neutral light for sample observation", Color: "#ffffff", Intensity: 100},
		{ID: "p2", Name: "Titration", Description: "Warm white to read color changes", Color: "#fff4e5", Intensity: 90},
		{ID: "p3", Name: "Photosensitive", Description: "Dim red for light-sensitive reagents", Color: "#ff0000", Intensity: 30},
		{ID: "p4", Name: "Projection", Description: "Low blue ambient light for presentations", Color: "#3366ff", Intensity: 40},
	}
}
