package infrastructure

import (
	"context"
	"fmt"
	"strings"
)

// Supported values of the event sink setting
const (
	SinkNone  = "none"
	SinkNATS  = "nats"
	SinkKafka = "kafka"
)

// SinkConfig selects and addresses the external event sink
type SinkConfig struct {
	Sink         string
	NATSServers  string
	KafkaBrokers string
	KafkaTopic   string
}

// NewMessagePublisher connects the configured sink. It returns nil, nil when
// no sink is configured.
func NewMessagePublisher(ctx context.Context, cfg SinkConfig) (MessagePublisher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Sink)) {
	case "", SinkNone:
		return nil, nil
	case SinkNATS:
		if cfg.NATSServers == "" {
			return nil, fmt.Errorf("NATS_SERVERS is required for the nats event sink")
		}
		client := NewNATSClient(cfg.NATSServers)
		if err := client.Connect(ctx); err != nil {
			return nil, err
		}
		if err := client.EnsureStream(); err != nil {
			client.Close()
			return nil, err
		}
		return client, nil
	case SinkKafka:
		brokers := splitList(cfg.KafkaBrokers)
		if len(brokers) == 0 {
			return nil, fmt.Errorf("KAFKA_BROKERS is required for the kafka event sink")
		}
		return NewKafkaPublisher(brokers, cfg.KafkaTopic), nil
	default:
		return nil, fmt.Errorf("unsupported event sink %q", cfg.Sink)
	}
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
