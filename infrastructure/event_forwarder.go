package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ledger/events"

	log "github.com/sirupsen/logrus"
)

// EventForwarder relays committed domain events to an external broker
type EventForwarder struct {
	publisher MessagePublisher
	now       func() time.Time
}

// NewEventForwarder creates a forwarder publishing through publisher
func NewEventForwarder(publisher MessagePublisher) *EventForwarder {
	return &EventForwarder{
		publisher: publisher,
		now:       time.Now,
	}
}

// Register subscribes the forwarder to every ledger event type on bus
func (f *EventForwarder) Register(bus *events.Bus) {
	for _, eventType := range events.AllEventTypes {
		bus.Subscribe(eventType, f.handle)
	}
}

func (f *EventForwarder) handle(ctx context.Context, event events.Event) {
	if err := f.Forward(ctx, event); err != nil {
		log.WithFields(log.Fields{
			"eventType": event.Type(),
			"error":     err,
		}).Error("Failed to forward event")
	}
}

// Forward wraps event in an envelope and publishes it
func (f *EventForwarder) Forward(ctx context.Context, event events.Event) error {
	envelope, err := NewEnvelope(event, f.now())
	if err != nil {
		return err
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := SubjectFor(event.Type())
	if err := f.publisher.Publish(ctx, subject, envelope.ID, data); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"eventType": envelope.Type,
		"eventId":   envelope.ID,
		"subject":   subject,
	}).Debug("Forwarded event")
	return nil
}
