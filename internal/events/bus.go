package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/quizquest/quiz-service/internal/config"
)

// Bus is the in-process audit event bus. Events always flow through the
// gochannel pub/sub so the persister sees them; when Kafka brokers are
// configured the same payloads are mirrored to the audit topic.
type Bus struct {
	channel    *gochannel.GoChannel
	kafkaPub   message.Publisher
	kafkaTopic string
	logger     *slog.Logger
}

func NewBus(cfg *config.Config, logger *slog.Logger) (*Bus, error) {
	wmLogger := watermill.NewSlogLogger(logger)

	bus := &Bus{
		channel: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, wmLogger),
		kafkaTopic: cfg.AuditTopic,
		logger:     logger,
	}

	if len(cfg.KafkaBrokers) > 0 {
		pub, err := kafka.NewPublisher(kafka.PublisherConfig{
			Brokers:   cfg.KafkaBrokers,
			Marshaler: kafka.DefaultMarshaler{},
		}, wmLogger)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
		bus.kafkaPub = pub
	}

	return bus, nil
}

func (b *Bus) PublishAudit(ctx context.Context, event *AuditEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.SetContext(ctx)

	if err := b.channel.Publish(TopicAuditRecorded, msg); err != nil {
		return fmt.Errorf("failed to publish audit event: %w", err)
	}

	if b.kafkaPub != nil {
		// Kafka mirroring is best effort; the local persister is the
		// source of truth for the audit table.
		kafkaMsg := message.NewMessage(event.ID, payload)
		if err := b.kafkaPub.Publish(b.kafkaTopic, kafkaMsg); err != nil {
			b.logger.Warn("failed to mirror audit event to kafka",
				"event_id", event.ID, "error", err)
		}
	}

	return nil
}

// SubscribeAudit runs handler for every audit event until ctx is cancelled.
// Failed events are logged and acked; the audit trail is best effort, not a
// ledger with redelivery.
func (b *Bus) SubscribeAudit(ctx context.Context, handler func(context.Context, *AuditEvent) error) error {
	messages, err := b.channel.Subscribe(ctx, TopicAuditRecorded)
	if err != nil {
		return fmt.Errorf("failed to subscribe to audit topic: %w", err)
	}

	go func() {
		for msg := range messages {
			var event AuditEvent
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Error("failed to decode audit event", "message_id", msg.UUID, "error", err)
				msg.Ack()
				continue
			}

			if err := handler(ctx, &event); err != nil {
				b.logger.Error("failed to handle audit event", "event_id", event.ID, "error", err)
			}
			msg.Ack()
		}
	}()

	return nil
}

func (b *Bus) Close() error {
	if b.kafkaPub != nil {
		if err := b.kafkaPub.Close(); err != nil {
			b.logger.Warn("failed to close kafka publisher", "error", err)
		}
	}
	return b.channel.Close()
}
