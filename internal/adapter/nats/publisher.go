package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

// MessagePublisher publishes marketplace events. Event payloads are wrapped
// in an envelope carrying a unique event id and emission time.
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, payload interface{}) error
}

type eventEnvelope struct {
	EventID    string      `json:"eventId"`
	Subject    string      `json:"subject"`
	OccurredAt time.Time   `json:"occurredAt"`
	Payload    interface{} `json:"payload"`
}

type natsPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(conn *nats.Conn) (MessagePublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("NATS connection cannot be nil")
	}
	return &natsPublisher{conn: conn}, nil
}

func (p *natsPublisher) Publish(ctx context.Context, subject string, payload interface{}) error {
	envelope := eventEnvelope{
		EventID:    uuid.NewString(),
		Subject:    subject,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event for subject %s: %w", subject, err)
	}

	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS subject %s: %w", subject, err)
	}
	return nil
}
