package kafka

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/config"
	"github.com/couchcryptid/rainfall-forecast-dashboard/internal/dashboard"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	event := dashboard.SelectionEvent{
		Start:      "2024-01-01",
		End:        "2024-01-03",
		Rows:       3,
		Generation: 7,
		ComputedAt: now,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("2024-01-01..2024-01-03"), msg.Key)
	assert.JSONEq(t, `{
		"start": "2024-01-01",
		"end": "2024-01-03",
		"rows": 3,
		"generation": 7,
		"computed_at": "2024-06-01T12:00:00Z"
	}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "generation", msg.Headers[0].Key)
	assert.Equal(t, []byte("7"), msg.Headers[0].Value)
	assert.Equal(t, "computed_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestNewSelectionWriter_UsesConfig(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers:        []string{"broker1:9092", "broker2:9092"},
		KafkaSelectionTopic: "selections",
	}
	w := NewSelectionWriter(cfg, slog.Default())
	defer w.Close()

	assert.Equal(t, "selections", w.writer.Topic)
	assert.True(t, w.writer.Async)
	assert.NotNil(t, w.writer.Completion)
}

func TestCompletion_LogsFailures(t *testing.T) {
	var buf bytes.Buffer
	w := &SelectionWriter{logger: slog.New(slog.NewTextHandler(&buf, nil))}

	w.completion(make([]kafkago.Message, 2), errors.New("broker down"))

	assert.Contains(t, buf.String(), "selection events not delivered")
	assert.Contains(t, buf.String(), "count=2")
	assert.Contains(t, buf.String(), "broker down")
}

func TestPublishSelection_AfterClose(t *testing.T) {
	cfg := &config.Config{
		KafkaBrokers:        []string{"localhost:1"},
		KafkaSelectionTopic: "selections",
	}
	w := NewSelectionWriter(cfg, slog.Default())
	require.NoError(t, w.Close())

	err := w.PublishSelection(context.Background(), dashboard.SelectionEvent{Start: "2024-01-01", End: "2024-01-01"})
	assert.Error(t, err)
}
