package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/temperature-heatmap/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer publishes enriched records to a Kafka topic.
// It implements pipeline.Publisher.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the given topic.
func NewWriter(brokers []string, topic string, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    500,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

// Publish writes one message per record of the run in a single WriteMessages call.
func (w *Writer) Publish(ctx context.Context, run domain.Run) error {
	if run.Dataset.Len() == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, run.Dataset.Len())
	for i, rec := range run.Dataset.Records {
		msg, err := serializeToMessage(run, rec)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish %d records to %s: %w", len(msgs), w.writer.Topic, err)
	}
	w.logger.Info("records published", "topic", w.writer.Topic, "count", len(msgs), "run_id", run.ID)
	return nil
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an enriched record into a Kafka message keyed by "YYYY-MM".
func serializeToMessage(run domain.Run, rec domain.EnrichedRecord) (kafkago.Message, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize record %s: %w", rec.Key(), err)
	}
	return kafkago.Message{
		Key:   []byte(rec.Key()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "run_id", Value: []byte(run.ID)},
			{Key: "base_temperature", Value: []byte(strconv.FormatFloat(rec.BaseTemperature, 'f', -1, 64))},
			{Key: "generated_at", Value: []byte(run.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
