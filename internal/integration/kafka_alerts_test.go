//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	kafkaadapter "github.com/tailwatch/tailwatch/internal/adapter/kafka"
	"github.com/tailwatch/tailwatch/internal/domain"
	"github.com/tailwatch/tailwatch/internal/watch"
)

const testAlertTopic = "test-aircraft-alerts"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka launches a single-node Kafka container and returns its broker
// address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	container, err := tckafka.Run(ctx,
		"confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("tailwatch-test"),
	)
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err)
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err)

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err)
	defer controllerConn.Close()

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// TestAlertWriterPublishes verifies that a fired alert round-trips through a
// real broker with its key, headers, and JSON payload intact.
func TestAlertWriterPublishes(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testAlertTopic)

	writer := kafkaadapter.NewAlertWriter([]string{broker}, testAlertTopic, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	alt := 11000.0
	alert := domain.Alert{
		ICAO24:       "4ca1fa",
		Callsign:     "RYR1WD",
		Registration: "EI-DCL",
		TypeCode:     "B738",
		ModelKey:     "B737",
		ModelName:    "Boeing 737",
		DistanceKm:   10.0,
		AltitudeM:    &alt,
		AlertedAt:    time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, writer.Notify(ctx, watch.Notification{
		Title: "Boeing 737 in your area",
		Body:  "Distance: 10.0km",
		Alert: alert,
	}))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testAlertTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()

	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from alert topic")

	assert.Equal(t, "4ca1fa", string(msg.Key))

	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "B737", headers["model_key"])
	_, err = time.Parse(time.RFC3339, headers["alerted_at"])
	assert.NoError(t, err, "alerted_at should be valid RFC3339")

	var got domain.Alert
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, alert.ICAO24, got.ICAO24)
	assert.Equal(t, alert.Registration, got.Registration)
	assert.Equal(t, alert.ModelName, got.ModelName)
	assert.Equal(t, alert.DistanceKm, got.DistanceKm)
	require.NotNil(t, got.AltitudeM)
	assert.Equal(t, alt, *got.AltitudeM)
	assert.True(t, got.AlertedAt.Equal(alert.AlertedAt))
}
