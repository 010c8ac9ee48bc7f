package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/config"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/dashboard"
	kafkago "github.com/segmentio/kafka-go"
)

// SelectionWriter publishes range selections to a Kafka topic.
// It implements dashboard.SelectionPublisher.
type SelectionWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewSelectionWriter creates an asynchronous Kafka producer for the configured
// selection topic. Delivery failures are logged and never reach the caller.
func NewSelectionWriter(cfg *config.Config, logger *slog.Logger) *SelectionWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaSelectionTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
	}
	sw := &SelectionWriter{writer: w, logger: logger}
	w.Completion = sw.completion
	return sw
}

// PublishSelection queues one selection event. With an async writer the
// returned error only covers serialization and a closed writer.
func (w *SelectionWriter) PublishSelection(ctx context.Context, event dashboard.SelectionEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

// Close flushes pending messages and closes the producer.
func (w *SelectionWriter) Close() error {
	return w.writer.Close()
}

func (w *SelectionWriter) completion(msgs []kafkago.Message, err error) {
	if err != nil {
		w.logger.Warn("selection events not delivered", "count", len(msgs), "error", err)
		return
	}
	w.logger.Debug("selection events delivered", "count", len(msgs))
}

// serializeToMessage marshals a SelectionEvent into a Kafka message keyed by
// its range so repeated selections of one range land on one partition.
func serializeToMessage(event dashboard.SelectionEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize selection event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Start + ".." + event.End),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "generation", Value: []byte(fmt.Sprint(event.Generation))},
			{Key: "computed_at", Value: []byte(event.ComputedAt.Format(time.RFC3339))},
		},
	}, nil
}
