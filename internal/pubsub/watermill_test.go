package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type greeting struct {
	Text string `json:"text"`
}

func TestWatermillBridge_RoundTrip(t *testing.T) {
	bus := NewWatermillBridge()
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan Message, 1)
	require.NoError(t, bus.Subscribe(ctx, "test.topic", func(ctx context.Context, msg Message) error {
		received <- msg
		return nil
	}))

	err := bus.Publish(ctx, Message{
		Topic:    "test.topic",
		UserID:   "valid@example.com",
		Payload:  []byte("hello"),
		Metadata: map[string]string{"mode": "login"},
	})
	require.NoError(t, err)

	select {
	case msg := <-received:
		assert.Equal(t, "test.topic", msg.Topic)
		assert.Equal(t, "valid@example.com", msg.UserID)
		assert.Equal(t, []byte("hello"), msg.Payload)
		assert.Equal(t, "login", msg.Metadata["mode"])
		assert.NotContains(t, msg.Metadata, metaKeyTopic)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
	}
}

func TestEvent_TypedRoundTrip(t *testing.T) {
	bus := NewWatermillBridge()
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ev := NewEvent[greeting]("test.greetings")
	received := make(chan greeting, 1)
	require.NoError(t, ev.Subscribe(ctx, bus, func(ctx context.Context, g greeting) error {
		received <- g
		return nil
	}))

	require.NoError(t, ev.Publish(ctx, bus, "someone", greeting{Text: "hi"}))

	select {
	case g := <-received:
		assert.Equal(t, "hi", g.Text)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}
