package labstore

import (
	"errors"

	"github.com/iliyamo/lab-lighting/internal/model"
)

// errActivationConflict never leaves the package; ActivateLab reports it as
// false.
var errActivationConflict = errors.New("lab held by another teacher")

// Labs returns a copy of every lab in order.
func (s *Store) Labs() []model.Lab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneLabs(s.labs)
}

// Lab returns a copy of the lab with the given id.
func (s *Store) Lab(id string) (model.Lab, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.labIndex(id)
	if i < 0 {
		return model.Lab{}, ErrLabNotFound
	}
	return s.labs[i].Clone(), nil
}

// CreateLab appends a new lab.  The id, activation state and every light
// id are assigned by the store.
func (s *Store) CreateLab(lab model.Lab) model.Lab {
	var out model.Lab
	_ = s.mutate(func() (Event, error) {
		lab = lab.Clone()
		lab.ID = s.newID()
		lab.IsActive = false
		lab.ActiveTeacher = nil
		if lab.Lights == nil {
			lab.Lights = []model.Light{}
		}
		for i := range lab.Lights {
			lab.Lights[i].ID = s.newID()
		}
		s.labs = append(s.labs, lab)
		out = lab.Clone()
		return Event{Type: EventLabCreated, LabID: lab.ID}, nil
	})
	return out
}

// DeleteLab removes a lab together with its lights.
func (s *Store) DeleteLab(id string) error {
	return s.mutate(func() (Event, error) {
		i := s.labIndex(id)
		if i < 0 {
			return Event{}, ErrLabNotFound
		}
		s.labs = append(s.labs[:i], s.labs[i+1:]...)
		return Event{Type: EventLabDeleted, LabID: id}, nil
	})
}

// UpdateLab merges patch into the lab.
func (s *Store) UpdateLab(id string, patch model.LabPatch) error {
	return s.mutate(func() (Event, error) {
		i := s.labIndex(id)
		if i < 0 {
			return Event{}, ErrLabNotFound
		}
		patch.Apply(&s.labs[i])
		return Event{Type: EventLabUpdated, LabID: id}, nil
	})
}

// AddLight appends a light to a lab and returns it with its new id.
func (s *Store) AddLight(labID string, light model.Light) (model.Light, error) {
	err := s.mutate(func() (Event, error) {
		i := s.labIndex(labID)
		if i < 0 {
			return Event{}, ErrLabNotFound
		}
		light.ID = s.newID()
		s.labs[i].Lights = append(s.labs[i].Lights, light)
		return Event{Type: EventLightCreated, LabID: labID, LightID: light.ID}, nil
	})
	if err != nil {
		return model.Light{}, err
	}
	return light, nil
}

// UpdateLight merges patch into one light of a lab.
func (s *Store) UpdateLight(labID, lightID string, patch model.LightPatch) error {
	return s.mutate(func() (Event, error) {
		i := s.labIndex(labID)
		if i < 0 {
			return Event{}, ErrLabNotFound
		}
		j := s.labs[i].LightByID(lightID)
		if j < 0 {
			return Event{}, ErrLightNotFound
		}
		patch.Apply(&s.labs[i].Lights[j])
		return Event{Type: EventLightUpdated, LabID: labID, LightID: lightID}, nil
	})
}

// DeleteLight removes one light from a lab.
func (s *Store) DeleteLight(labID, lightID string) error {
	return s.mutate(func() (Event, error) {
		i := s.labIndex(labID)
		if i < 0 {
			return Event{}, ErrLabNotFound
		}
		j := s.labs[i].LightByID(lightID)
		if j < 0 {
			return Event{}, ErrLightNotFound
		}
		lights := s.labs[i].Lights
		s.labs[i].Lights = append(lights[:j], lights[j+1:]...)
		return Event{Type: EventLightDeleted, LabID: labID, LightID: lightID}, nil
	})
}

// ActivateLab marks the lab as held by teacherID.  It returns false without
// changing anything when the lab is already active under a different
// teacher, or active with no holder recorded.  Activating again with the
// same teacher succeeds.
func (s *Store) ActivateLab(labID, teacherID string) (bool, error) {
	err := s.mutate(func() (Event, error) {
		i := s.labIndex(labID)
		if i < 0 {
			return Event{}, ErrLabNotFound
		}
		lab := &s.labs[i]
		// an active lab without a recorded holder is not up for grabs
		if lab.IsActive && (lab.ActiveTeacher == nil || *lab.ActiveTeacher != teacherID) {
			return Event{}, errActivationConflict
		}
		t := teacherID
		lab.IsActive = true
		lab.ActiveTeacher = &t
		return Event{Type: EventLabActivated, LabID: labID, TeacherID: teacherID}, nil
	})
	switch {
	case errors.Is(err, errActivationConflict):
		return false, nil
	case err != nil:
		return false, err
	}
	return true, nil
}

// DeactivateLab releases the lab and switches every one of its lights off.
func (s *Store) DeactivateLab(labID string) error {
	return s.mutate(func() (Event, error) {
		i := s.labIndex(labID)
		if i < 0 {
			return Event{}, ErrLabNotFound
		}
		lab := &s.labs[i]
		var teacher string
		if lab.ActiveTeacher != nil {
			teacher = *lab.ActiveTeacher
		}
		lab.IsActive = false
		lab.ActiveTeacher = nil
		for j := range lab.Lights {
			lab.Lights[j].IsOn = false
		}
		return Event{Type: EventLabDeactivated, LabID: labID, TeacherID: teacher}, nil
	})
}

// SetAllLights switches every light of a lab on or off.
func (s *Store) SetAllLights(labID string, on bool) error {
	return s.mutate(func() (Event, error) {
		i := s.labIndex(labID)
		if i < 0 {
			return Event{}, ErrLabNotFound
		}
		for j := range s.labs[i].Lights {
			s.labs[i].Lights[j].IsOn = on
		}
		return Event{Type: EventLightsSwitched, LabID: labID}, nil
	})
}

// labIndex returns the position of the lab or -1.  Caller holds mu.
func (s *Store) labIndex(id string) int {
	for i := range s.labs {
		if s.labs[i].ID == id {
			return i
		}
	}
	return -1
}
