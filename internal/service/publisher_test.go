package service

import (
	"testing"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/iliyamo/lab-lighting/internal/labstore"
)

func TestEventFromStore(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	ev := EventFromStore(labstore.Event{Type: labstore.EventLabActivated, LabID: "1", TeacherID: "u1", Revision: 9, At: at})
	if ev.EventID == "" || ev.Type != "lab.activated" || ev.LabID != "1" || ev.TeacherID != "u1" || ev.Revision != 9 {
		t.Fatalf("unexpected event %+v", ev)
	}
	if ev.OccurredAt != "2026-03-04T05:06:07Z" {
		t.Fatalf("occurred_at = %s", ev.OccurredAt)
	}
	if other := EventFromStore(labstore.Event{}); other.EventID == ev.EventID {
		t.Fatalf("event ids must be unique")
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	p := NewPublisher("amqp://unused", "lab.changed", 1, log.New("test"))
	if !p.Enqueue(EventFromStore(labstore.Event{Type: labstore.EventLabCreated})) {
		t.Fatalf("first enqueue should fit")
	}
	if p.Enqueue(EventFromStore(labstore.Event{Type: labstore.EventLabDeleted})) {
		t.Fatalf("second enqueue should be dropped")
	}
	if p.Dropped() != 1 {
		t.Fatalf("dropped = %d", p.Dropped())
	}
}
