package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"trendora/internal/domain"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed int
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed++
	return nil
}

func TestPublishOrderPlaced(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "trendora.orders")
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return at }

	order := domain.Order{OrderNumber: "ORD-1", Total: decimal.NewFromInt(2900), Status: domain.OrderStatusPending}
	require.NoError(t, p.PublishOrderPlaced(context.Background(), "client-a", order))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	require.Equal(t, "client-a", string(msg.Key))
	require.Equal(t, at, msg.Time)

	var evt OrderPlaced
	require.NoError(t, json.Unmarshal(msg.Value, &evt))
	require.Equal(t, TypeOrderPlaced, evt.Type)
	require.Equal(t, "ORD-1", evt.Order.OrderNumber)
	require.True(t, decimal.NewFromInt(2900).Equal(evt.Order.Total))
}

func TestPublishOrderPlaced_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := newKafkaPublisher(&fakeWriter{err: boom}, "trendora.orders")
	err := p.PublishOrderPlaced(context.Background(), "client-a", domain.Order{OrderNumber: "ORD-1"})
	require.ErrorIs(t, err, boom)
}

func TestClose_Idempotent(t *testing.T) {
	w := &fakeWriter{}
	p := newKafkaPublisher(w, "trendora.orders")
	require.NoError(t, p.Close())
	require.NoError(t, p.Close())
	require.Equal(t, 1, w.closed)

	err := p.PublishOrderPlaced(context.Background(), "client-a", domain.Order{})
	require.ErrorIs(t, err, ErrPublisherClosed)
}

func TestNewKafka_Validation(t *testing.T) {
	_, err := NewKafka(nil, "topic", nil)
	require.Error(t, err)
	_, err = NewKafka([]string{"localhost:9092"}, "", nil)
	require.Error(t, err)

	p, err := NewKafka([]string{"localhost:9092"}, "topic", nil)
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestNop(t *testing.T) {
	p := Nop()
	require.NoError(t, p.PublishOrderPlaced(context.Background(), "c", domain.Order{}))
	require.NoError(t, p.Close())
}
