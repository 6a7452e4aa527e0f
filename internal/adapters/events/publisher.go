// Package events publishes order lifecycle events.
package events

import (
	"context"
	"delivery-dispatch-service/internal/ports"
	"log"
)

// New picks the Kafka publisher when brokers are configured and falls back
// to logging otherwise.
func New(ctx context.Context, brokers []string, topic string) (ports.EventPublisher, error) {
	if len(brokers) == 0 {
		return NewLogPublisher(nil), nil
	}

	EnsureTopic(ctx, brokers, topic)
	p, err := NewKafkaPublisher(brokers, topic)
	if err != nil {
		return nil, err
	}
	log.Printf("level=info op=events.new backend=kafka brokers=%v topic=%s", brokers, topic)
	return p, nil
}
