package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// DefaultKafkaTopic receives ledger envelopes when no topic is configured
const DefaultKafkaTopic = "ledger-events"

// KafkaPublisher writes ledger envelopes to a single Kafka topic
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher for topic on the given brokers
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	if topic == "" {
		topic = DefaultKafkaTopic
	}

	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

// Publish writes data keyed by key; the subject travels as a header
func (p *KafkaPublisher) Publish(ctx context.Context, subject, key string, data []byte) error {
	err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Headers: []kafka.Header{
			{Key: "subject", Value: []byte(subject)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write message for %s to kafka topic %s: %w", subject, p.writer.Topic, err)
	}

	log.WithFields(log.Fields{
		"topic":   p.writer.Topic,
		"subject": subject,
		"size":    len(data),
	}).Debug("Published message to Kafka")
	return nil
}

// Close flushes pending writes and closes the writer
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
