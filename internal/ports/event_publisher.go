package ports

import (
	"context"
	"delivery-dispatch-service/internal/domain"
)

// Contract for announcing order lifecycle changes to external consumers
// (map renderers, dashboards).
type EventPublisher interface {
	Publish(ctx context.Context, event domain.OrderEvent) error
	Close() error
}
