package infrastructure

import "context"

// MessagePublisher delivers serialized envelopes to an external broker.
// key identifies the message for deduplication or partitioning.
type MessagePublisher interface {
	Publish(ctx context.Context, subject, key string, data []byte) error
	Close() error
}
