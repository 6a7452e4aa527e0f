package events

import (
	"context"
	"delivery-dispatch-service/internal/domain"
	"log"
)

// LogPublisher writes events to a logger. It is used when no broker is configured.
type LogPublisher struct {
	logger *log.Logger
}

func NewLogPublisher(logger *log.Logger) *LogPublisher {
	if logger == nil {
		logger = log.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, event domain.OrderEvent) error {
	p.logger.Printf("level=info op=event type=%s seq=%d customer=%q destination=%s pending=%d",
		event.Type, event.Order.Seq, event.Order.Customer, event.Order.Destination, event.Pending)
	return nil
}

func (p *LogPublisher) Close() error { return nil }
