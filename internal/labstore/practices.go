package labstore

import "github.com/iliyamo/lab-lighting/internal/model"

// Practices returns a copy of every preset in order.
func (s *Store) Practices() []model.Practice {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePractices(s.practices)
}

// Practice returns the preset with the given id.
func (s *Store) Practice(id string) (model.Practice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.practiceIndex(id)
	if i < 0 {
		return model.Practice{}, ErrPracticeNotFound
	}
	return s.practices[i], nil
}

// AddPractice appends a user-created preset.  Any id on p is replaced by a
// time-derived one and the preset is always marked custom.
func (s *Store) AddPractice(p model.Practice) model.Practice {
	_ = s.mutate(func() (Event, error) {
		p.ID = s.newID()
		p.IsCustom = true
		s.practices = append(s.practices, p)
		return Event{Type: EventPracticeCreated, PracticeID: p.ID}, nil
	})
	return p
}

// DeletePractice removes a preset by id.  Built-in presets are not
// protected here; that policy belongs to the caller.
func (s *Store) DeletePractice(id string) error {
	return s.mutate(func() (Event, error) {
		i := s.practiceIndex(id)
		if i < 0 {
			return Event{}, ErrPracticeNotFound
		}
		s.practices = append(s.practices[:i], s.practices[i+1:]...)
		return Event{Type: EventPracticeDeleted, PracticeID: id}, nil
	})
}

// ApplyPractice copies the preset's color and intensity onto every light of
// the lab and switches them on.
func (s *Store) ApplyPractice(labID, practiceID string) error {
	return s.mutate(func() (Event, error) {
		i := s.labIndex(labID)
		if i < 0 {
			return Event{}, ErrLabNotFound
		}
		k := s.practiceIndex(practiceID)
		if k < 0 {
			return Event{}, ErrPracticeNotFound
		}
		p := s.practices[k]
		for j := range s.labs[i].Lights {
			l := &s.labs[i].Lights[j]
			l.Color = p.Color
			l.Intensity = p.Intensity
			l.IsOn = true
		}
		return Event{Type: EventPracticeApplied, LabID: labID, PracticeID: practiceID}, nil
	})
}

func (s *Store) practiceIndex(id string) int {
	for i := range s.practices {
		if s.practices[i].ID == id {
			return i
		}
	}
	return -1
}
