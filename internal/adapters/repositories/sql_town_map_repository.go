package repositories

import (
	"context"
	"database/sql"
	"delivery-dispatch-service/internal/domain"
	"delivery-dispatch-service/internal/platform/obs"
	"errors"
	"fmt"
)

const metaDepot = "depot"

// ErrMapNotSeeded is returned when the schema exists but holds no depot.
var ErrMapNotSeeded = errors.New("town map has not been seeded")

// SQL-backed implementation of the TownMapRepository port.
type SQLTownMapRepository struct {
	DB     *sql.DB
	Driver string
}

func NewSQLTownMapRepository(conn *sql.DB, driver string) *SQLTownMapRepository {
	return &SQLTownMapRepository{DB: conn, Driver: driver}
}

// Return the stored town map, preserving declaration order of nodes, edges,
// neighborhoods and streets.
func (r *SQLTownMapRepository) LoadTownMap(ctx context.Context) (tm *domain.TownMap, err error) {
	if r.DB == nil {
		return nil, errors.New("sql town map repository: DB is nil")
	}

	done := obs.Time(ctx, "repo.load_town_map")
	defer func() { done(&err) }()

	tm = &domain.TownMap{}

	err = r.DB.QueryRowContext(ctx, Rebind(r.Driver, `SELECT meta_value FROM map_meta WHERE meta_key = ?`), metaDepot).Scan(&tm.Depot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load town map: %w", ErrMapNotSeeded)
	}
	if err != nil {
		return nil, fmt.Errorf("load town map: query depot: %w", err)
	}

	if tm.Nodes, err = r.loadNodes(ctx); err != nil {
		return nil, err
	}
	if tm.Edges, err = r.loadEdges(ctx); err != nil {
		return nil, err
	}
	if tm.Neighborhoods, err = r.loadNeighborhoods(ctx); err != nil {
		return nil, err
	}

	return tm, nil
}

func (r *SQLTownMapRepository) loadNodes(ctx context.Context) ([]domain.Node, error) {
	query := `
	SELECT
		id,
		name,
		pos_x,
		pos_y
	FROM map_nodes
	ORDER BY ord;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load town map: query map_nodes table: %w", err)
	}
	defer rows.Close()

	nodes := make([]domain.Node, 0, 32)
	for rows.Next() {
		var n domain.Node
		var x, y sql.NullFloat64
		if err := rows.Scan(&n.ID, &n.Name, &x, &y); err != nil {
			return nil, fmt.Errorf("load town map: scan node: %w", err)
		}
		if x.Valid && y.Valid {
			n.Position = &domain.Position{X: x.Float64, Y: y.Float64}
		}
		nodes = append(nodes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load town map: node iteration: %w", err)
	}

	return nodes, nil
}

func (r *SQLTownMapRepository) loadEdges(ctx context.Context) ([]domain.Edge, error) {
	query := `
	SELECT
		from_node,
		to_node,
		weight,
		bidirectional
	FROM map_edges
	ORDER BY ord;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load town map: query map_edges table: %w", err)
	}
	defer rows.Close()

	edges := make([]domain.Edge, 0, 32)
	for rows.Next() {
		var e domain.Edge
		if err := rows.Scan(&e.From, &e.To, &e.Weight, &e.Bidirectional); err != nil {
			return nil, fmt.Errorf("load town map: scan edge: %w", err)
		}
		edges = append(edges, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load town map: edge iteration: %w", err)
	}

	return edges, nil
}

func (r *SQLTownMapRepository) loadNeighborhoods(ctx context.Context) ([]domain.Neighborhood, error) {
	query := `
	SELECT
		neighborhood,
		street,
		node
	FROM map_streets
	ORDER BY neighborhood_ord, street_ord;
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load town map: query map_streets table: %w", err)
	}
	defer rows.Close()

	var out []domain.Neighborhood
	for rows.Next() {
		var nb string
		var s domain.Street
		if err := rows.Scan(&nb, &s.Name, &s.Node); err != nil {
			return nil, fmt.Errorf("load town map: scan street: %w", err)
		}
		if len(out) == 0 || out[len(out)-1].Name != nb {
			out = append(out, domain.Neighborhood{Name: nb})
		}
		last := &out[len(out)-1]
		last.Streets = append(last.Streets, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load town map: street iteration: %w", err)
	}

	return out, nil
}
