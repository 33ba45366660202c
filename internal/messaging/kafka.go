package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/temcen/streamlens/internal/config"
	"github.com/temcen/streamlens/pkg/models"
)

const publishBatchSize = 500

// eventWriter is the subset of kafka.Writer the publisher uses.
type eventWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// EventFirehose publishes generated viewing events to a Kafka topic,
// keyed by user id so one user's events land on one partition in order.
type EventFirehose struct {
	writer eventWriter
	topic  string
	logger *logrus.Logger
}

func NewEventFirehose(cfg *config.Config, logger *logrus.Logger) *EventFirehose {
	return &EventFirehose{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(cfg.Kafka.Brokers...),
			Topic:        cfg.Kafka.Topics.ViewingEvents,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			Async:        false,
			BatchTimeout: 10 * time.Millisecond,
			BatchSize:    100,
		},
		topic:  cfg.Kafka.Topics.ViewingEvents,
		logger: logger,
	}
}

// PublishViewingEvents writes every event to the topic in batches. Events
// are published in generation order.
func (f *EventFirehose) PublishViewingEvents(ctx context.Context, events []models.ViewingEvent) error {
	published := 0
	for offset := 0; offset < len(events); offset += publishBatchSize {
		end := offset + publishBatchSize
		if end > len(events) {
			end = len(events)
		}

		batch := make([]kafka.Message, 0, end-offset)
		for _, event := range events[offset:end] {
			value, err := json.Marshal(event)
			if err != nil {
				return fmt.Errorf("failed to marshal event %s: %w", event.ID, err)
			}
			batch = append(batch, kafka.Message{
				Key:   []byte(event.UserID),
				Value: value,
				Headers: []kafka.Header{
					{Key: "event_id", Value: []byte(event.ID)},
					{Key: "event_type", Value: []byte(event.EventType)},
					{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
				},
			})
		}

		if err := f.writer.WriteMessages(ctx, batch...); err != nil {
			return fmt.Errorf("failed to publish event batch at offset %d: %w", offset, err)
		}
		published += len(batch)
	}

	f.logger.WithFields(logrus.Fields{
		"topic":  f.topic,
		"events": published,
	}).Info("Viewing events published")

	return nil
}

func (f *EventFirehose) Close() error {
	return f.writer.Close()
}
