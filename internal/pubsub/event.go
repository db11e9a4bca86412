package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
)

// Event binds a topic name to a JSON payload type.
type Event[T any] struct {
	Topic string
}

// NewEvent declares a typed topic.
func NewEvent[T any](topic string) Event[T] {
	return Event[T]{Topic: topic}
}

// Publish encodes payload and sends it on the event's topic.
func (e Event[T]) Publish(ctx context.Context, pub Publisher, userID string, payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode %s payload: %w", e.Topic, err)
	}
	return pub.Publish(ctx, Message{Topic: e.Topic, UserID: userID, Payload: data})
}

// Subscribe decodes each message on the topic before calling fn.
func (e Event[T]) Subscribe(ctx context.Context, sub Subscriber, fn func(ctx context.Context, payload T) error) error {
	return sub.Subscribe(ctx, e.Topic, func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", e.Topic, err)
		}
		return fn(ctx, payload)
	})
}
