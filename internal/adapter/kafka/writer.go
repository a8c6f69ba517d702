// Package kafka publishes fired alerts to a Kafka topic for downstream
// consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/tailwatch/tailwatch/internal/domain"
	"github.com/tailwatch/tailwatch/internal/watch"
)

// AlertWriter produces one message per fired alert.
// It implements watch.Notifier.
type AlertWriter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewAlertWriter creates a Kafka producer for the alert topic.
func NewAlertWriter(brokers []string, topic string, logger *slog.Logger) *AlertWriter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &AlertWriter{writer: w, logger: logger}
}

// Notify serializes and publishes the alert behind the notification.
func (w *AlertWriter) Notify(ctx context.Context, n watch.Notification) error {
	msg, err := serializeAlert(n.Alert)
	if err != nil {
		return err
	}
	if err := w.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publishing alert: %w", err)
	}
	w.logger.Debug("alert published", "icao24", n.Alert.ICAO24, "model", n.Alert.ModelKey)
	return nil
}

func (w *AlertWriter) Close() error {
	return w.writer.Close()
}

// serializeAlert marshals an Alert into a Kafka message keyed by airframe so
// alerts for the same aircraft land on the same partition.
func serializeAlert(alert domain.Alert) (kafkago.Message, error) {
	data, err := json.Marshal(alert)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize alert: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(alert.ICAO24),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "model_key", Value: []byte(alert.ModelKey)},
			{Key: "alerted_at", Value: []byte(alert.AlertedAt.Format(time.RFC3339))},
		},
	}, nil
}
