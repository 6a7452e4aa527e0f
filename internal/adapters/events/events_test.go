package events

import (
	"bytes"
	"context"
	"delivery-dispatch-service/internal/domain"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func sampleEvent() domain.OrderEvent {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return domain.OrderEvent{
		Type: domain.EventOrderCreated,
		Order: domain.Order{
			Seq:          7,
			Customer:     "Ana",
			Neighborhood: "CENTRO",
			Street:       "Águas",
			Destination:  "CENTRO_R_AGUAS",
			CreatedAt:    at,
		},
		Pending:    3,
		OccurredAt: at,
	}
}

func TestKafkaPublisherWritesKeyedJSON(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, topic: "orders"}

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "7", string(msg.Key))
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "order.created", string(msg.Headers[0].Value))

	var got domain.OrderEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "CENTRO_R_AGUAS", got.Order.Destination)
	assert.Equal(t, 3, got.Pending)

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisherWrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{writer: &fakeWriter{err: boom}, topic: "orders"}

	err := p.Publish(context.Background(), sampleEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "topic=orders")
}

func TestNewKafkaPublisherValidates(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "orders")
	assert.Error(t, err)

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Error(t, err)
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(log.New(&buf, "", 0))

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	line := buf.String()
	assert.True(t, strings.Contains(line, "type=order.created"), line)
	assert.True(t, strings.Contains(line, "seq=7"), line)
	assert.NoError(t, p.Close())
}

func TestNewWithoutBrokersLogs(t *testing.T) {
	p, err := New(context.Background(), nil, "orders")
	require.NoError(t, err)
	assert.IsType(t, &LogPublisher{}, p)
}
