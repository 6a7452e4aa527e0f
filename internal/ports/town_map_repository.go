package ports

import (
	"context"
	"delivery-dispatch-service/internal/domain"
)

// Port: a boundary for loading the static town map from a data source.
type TownMapRepository interface {
	// Retrieve the depot, nodes, edges and neighborhood catalog.
	LoadTownMap(ctx context.Context) (*domain.TownMap, error)
}
