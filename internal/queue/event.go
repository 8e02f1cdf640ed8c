// Package queue defines message payloads exchanged over the message broker
// and the consumer that turns them into an audit log.
package queue

// LabChangedEvent is published after every committed change of the lab
// state.  Only the ids relevant to Type are set.  Revision orders events
// from the same service instance.
type LabChangedEvent struct {
	EventID    string `json:"event_id"`
	Type       string `json:"type"`
	LabID      string `json:"lab_id,omitempty"`
	LightID    string `json:"light_id,omitempty"`
	PracticeID string `json:"practice_id,omitempty"`
	TeacherID  string `json:"teacher_id,omitempty"`
	Revision   uint64 `json:"revision"`
	OccurredAt string `json:"occurred_at"`
}
