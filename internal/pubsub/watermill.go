package pubsub

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// WatermillBridge implements Publisher and Subscriber on watermill's
// in-memory GoChannel.
type WatermillBridge struct {
	pub    message.Publisher
	sub    message.Subscriber
	tracer trace.Tracer
}

// BridgeOption configures a WatermillBridge.
type BridgeOption func(*WatermillBridge)

// WithTracer records a span for every publish and every handled message.
func WithTracer(tracer trace.Tracer) BridgeOption {
	return func(wb *WatermillBridge) {
		if tracer != nil {
			wb.tracer = tracer
		}
	}
}

const (
	// Metadata keys used to carry Message fields through watermill.
	metaKeyUserID = "user_id"
	metaKeyTopic  = "topic"
)

// NewWatermillBridge creates an in-memory bus.
func NewWatermillBridge(opts ...BridgeOption) *WatermillBridge {
	logger := watermill.NewStdLogger(false, false)
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		logger,
	)

	wb := &WatermillBridge{
		pub:    goChannel,
		sub:    goChannel,
		tracer: noop.NewTracerProvider().Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(wb)
	}
	return wb
}

func toWatermill(msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)
	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}
	wmMsg.Metadata.Set(metaKeyUserID, msg.UserID)
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)
	return wmMsg
}

func isTransportKey(k string) bool {
	if k == metaKeyTopic || k == metaKeyUserID {
		return true
	}
	for _, f := range traceContext.Fields() {
		if k == f {
			return true
		}
	}
	return false
}

func fromWatermill(wmMsg *message.Message) Message {
	metadata := make(map[string]string, len(wmMsg.Metadata))
	for k, v := range wmMsg.Metadata {
		if !isTransportKey(k) {
			metadata[k] = v
		}
	}
	return Message{
		Topic:    wmMsg.Metadata.Get(metaKeyTopic),
		UserID:   wmMsg.Metadata.Get(metaKeyUserID),
		Payload:  wmMsg.Payload,
		Metadata: metadata,
	}
}

// Publish implements the Publisher interface.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	wmMsg := toWatermill(msg)
	ctx, span := startPublishSpan(ctx, wb.tracer, msg, wmMsg.UUID)
	traceContext.Inject(ctx, propagation.MapCarrier(wmMsg.Metadata))
	wmMsg.SetContext(ctx)

	err := wb.pub.Publish(msg.Topic, wmMsg)
	endSpan(span, err)
	return err
}

// Subscribe implements the Subscriber interface.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.sub.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wmMsg := range messages {
			msg := fromWatermill(wmMsg)
			spanCtx, span := startProcessSpan(ctx, wb.tracer, msg, wmMsg.UUID, wmMsg.Metadata)
			err := handler(spanCtx, msg)
			endSpan(span, err)
			if err != nil {
				slog.Error("Failed to handle message", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
				// The GoChannel redelivers nacked messages, so a poison message
				// would loop forever. Ack it and rely on the log.
			}
			wmMsg.Ack()
		}
		slog.Debug("Subscription message loop ended", "topic", topic)
	}()

	return nil
}

// Close shuts down the bus; open subscriptions end.
func (wb *WatermillBridge) Close() error {
	return wb.sub.Close()
}
