package events

import "context"

// NoopPublisher discards every event. The server falls back to it when
// OPTURA_NATS_URL is unset, so mutations never depend on a broker.
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
