// Package events publishes order lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"trendora/internal/domain"
)

const TypeOrderPlaced = "order.placed"

var ErrPublisherClosed = errors.New("publisher closed")

// OrderPlaced is emitted once an order has been recorded.
type OrderPlaced struct {
	Type       string       `json:"type"`
	ClientID   string       `json:"clientId"`
	OccurredAt time.Time    `json:"occurredAt"`
	Order      domain.Order `json:"order"`
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, clientID string, order domain.Order) error
	Close() error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type kafkaPublisher struct {
	writer messageWriter
	topic  string
	now    func() time.Time
	closed atomic.Bool
}

// NewKafka returns a synchronous producer for topic. Messages are keyed by
// client id so one client's events stay ordered within a partition.
func NewKafka(brokers []string, topic string, logger *zerolog.Logger) (Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers required")
	}
	if topic == "" {
		return nil, errors.New("kafka topic required")
	}
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "kafka").Str("topic", topic).Logger()
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		MaxAttempts:            3,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
		Transport: &kafka.Transport{
			Dial: func(ctx context.Context, network, address string) (net.Conn, error) {
				dialer := &kafka.Dialer{Timeout: 10 * time.Second, DualStack: true, KeepAlive: 30 * time.Second}
				return dialer.DialContext(ctx, network, address)
			},
		},
		ErrorLogger: kafka.LoggerFunc(func(msg string, args ...interface{}) {
			l.Error().Msgf(msg, args...)
		}),
	}
	return newKafkaPublisher(writer, topic), nil
}

func newKafkaPublisher(w messageWriter, topic string) *kafkaPublisher {
	return &kafkaPublisher{writer: w, topic: topic, now: time.Now}
}

func (p *kafkaPublisher) PublishOrderPlaced(ctx context.Context, clientID string, order domain.Order) error {
	if p.closed.Load() {
		return ErrPublisherClosed
	}
	msg, err := orderPlacedMessage(clientID, order, p.now().UTC())
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s to %s: %w", TypeOrderPlaced, p.topic, err)
	}
	return nil
}

func (p *kafkaPublisher) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	return p.writer.Close()
}

func orderPlacedMessage(clientID string, order domain.Order, at time.Time) (kafka.Message, error) {
	body, err := json.Marshal(OrderPlaced{
		Type:       TypeOrderPlaced,
		ClientID:   clientID,
		OccurredAt: at,
		Order:      order,
	})
	if err != nil {
		return kafka.Message{}, fmt.Errorf("encode %s: %w", TypeOrderPlaced, err)
	}
	return kafka.Message{
		Key:   []byte(clientID),
		Value: body,
		Time:  at,
		Headers: []kafka.Header{
			{Key: "type", Value: []byte(TypeOrderPlaced)},
			{Key: "order_number", Value: []byte(order.OrderNumber)},
		},
	}, nil
}

type nopPublisher struct{}

// Nop discards every event. Used when no brokers are configured.
func Nop() Publisher { return nopPublisher{} }

func (nopPublisher) PublishOrderPlaced(context.Context, string, domain.Order) error { return nil }
func (nopPublisher) Close() error                                                  { return nil }
