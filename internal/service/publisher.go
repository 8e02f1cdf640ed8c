// Package service publishes lab change events to RabbitMQ.  Publishing is
// best effort: events are buffered, failures are logged and the event is
// dropped, and the lab store is never slowed down by the broker.
package service

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/lab-lighting/internal/labstore"
	"github.com/iliyamo/lab-lighting/internal/queue"
)

// EventFromStore converts a store event into its wire form with a fresh id.
func EventFromStore(ev labstore.Event) queue.LabChangedEvent {
	return queue.LabChangedEvent{
		EventID:    uuid.NewString(),
		Type:       string(ev.Type),
		LabID:      ev.LabID,
		LightID:    ev.LightID,
		PracticeID: ev.PracticeID,
		TeacherID:  ev.TeacherID,
		Revision:   ev.Revision,
		OccurredAt: ev.At.UTC().Format(time.RFC3339Nano),
	}
}

// Publisher keeps one connection to the broker and publishes buffered
// events from a single goroutine.
type Publisher struct {
	url     string
	queue   string
	log     *log.Logger
	events  chan queue.LabChangedEvent
	dropped atomic.Uint64

	conn     *amqp.Connection
	ch       *amqp.Channel
	declared bool
}

// NewPublisher returns a publisher with room for buffer pending events.
func NewPublisher(url, queueName string, buffer int, logger *log.Logger) *Publisher {
	if buffer <= 0 {
		buffer = 256
	}
	return &Publisher{url: url, queue: queueName, log: logger, events: make(chan queue.LabChangedEvent, buffer)}
}

// Enqueue hands an event to the publishing goroutine.  It never blocks; when
// the buffer is full the event is dropped and counted.
func (p *Publisher) Enqueue(ev queue.LabChangedEvent) bool {
	select {
	case p.events <- ev:
		return true
	default:
		p.dropped.Add(1)
		return false
	}
}

// Dropped returns how many events were discarded because the buffer was
// full.
func (p *Publisher) Dropped() uint64 { return p.dropped.Load() }

// Run publishes until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) {
	defer p.reset()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.events:
			pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			if err := p.publish(pubCtx, ev); err != nil {
				p.log.Warnf("rabbitmq: publish %s failed: %v", ev.Type, err)
				p.reset()
			}
			cancel()
		}
	}
}

func (p *Publisher) publish(ctx context.Context, ev queue.LabChangedEvent) error {
	if err := p.ensureChannel(); err != nil {
		return err
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    ev.EventID,
			Type:         ev.Type,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

func (p *Publisher) ensureChannel() error {
	if p.conn == nil || p.conn.IsClosed() {
		conn, err := amqp.Dial(p.url)
		if err != nil {
			return err
		}
		p.conn = conn
		p.ch = nil
		p.declared = false
	}
	if p.ch == nil || p.ch.IsClosed() {
		ch, err := p.conn.Channel()
		if err != nil {
			return err
		}
		p.ch = ch
		p.declared = false
	}
	if !p.declared {
		// durable so queued events survive broker restarts
		if _, err := p.ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
			return err
		}
		p.declared = true
	}
	return nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	p.declared = false
}
