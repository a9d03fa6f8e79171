package infrastructure

import (
	"encoding/json"
	"fmt"
	"time"

	"ledger/events"

	"github.com/google/uuid"
)

// SubjectPrefix namespaces every subject the ledger publishes to
const SubjectPrefix = "ledger"

// Envelope wraps a domain event for external consumers
type Envelope struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope serializes event into a fresh envelope
func NewEnvelope(event events.Event, now time.Time) (*Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}

	return &Envelope{
		ID:         uuid.NewString(),
		Type:       string(event.Type()),
		OccurredAt: now.UTC(),
		Payload:    payload,
	}, nil
}

// SubjectFor maps an event type to its subject, e.g. ledger.transfer_completed
func SubjectFor(eventType events.EventType) string {
	return SubjectPrefix + "." + string(eventType)
}

// AllSubjects returns every subject the ledger publishes to
func AllSubjects() []string {
	subjects := make([]string, 0, len(events.AllEventTypes))
	for _, eventType := range events.AllEventTypes {
		subjects = append(subjects, SubjectFor(eventType))
	}
	return subjects
}
