package labstore

import "time"

// EventType names a kind of state change.
type EventType string

const (
	EventLabCreated      EventType = "lab.created"
	EventLabUpdated      EventType = "lab.updated"
	EventLabDeleted      EventType = "lab.deleted"
	EventLabActivated    EventType = "lab.activated"
	EventLabDeactivated  EventType = "lab.deactivated"
	EventLightCreated    EventType = "light.created"
	EventLightUpdated    EventType = "light.updated"
	EventLightDeleted    EventType = "light.deleted"
	EventLightsSwitched  EventType = "lights.switched"
	EventPracticeCreated EventType = "practice.created"
	EventPracticeDeleted EventType = "practice.deleted"
	EventPracticeApplied EventType = "practice.applied"
	EventStateReloaded   EventType = "state.reloaded"
)

// Event describes one committed change.  Only the ids relevant to Type are
// set.
type Event struct {
	Type       EventType
	LabID      string
	LightID    string
	PracticeID string
	TeacherID  string
	Revision   uint64
	At         time.Time
}

// Subscribe registers fn to be called after every committed change, on the
// goroutine that made the change and outside the store lock.  fn may read
// the store but must not block for long.  The returned func removes the
// subscription.
func (s *Store) Subscribe(fn func(Event)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()
	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.Lock()
	fns := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}
