// Package pubsub is a small message bus used to fan auth events out to
// background consumers such as the audit log.
package pubsub

import (
	"context"
)

// Message is the structure passed between components on the bus.
type Message struct {
	// Topic identifies the channel the message belongs to (e.g., "auth.attempts").
	Topic string
	// UserID identifies the account the message is about, usually an email.
	UserID string
	// Payload contains the raw message data, JSON for typed events.
	Payload []byte
	// Metadata carries extra key-value pairs through the transport.
	Metadata map[string]string
}

// Handler processes a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher sends messages to the bus.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber receives messages from the bus.
type Subscriber interface {
	// Subscribe starts delivering messages for topic to handler in the
	// background and returns once the subscription is active.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
