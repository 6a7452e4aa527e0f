package repositories

import (
	"database/sql"
	"delivery-dispatch-service/internal/domain"
	"errors"
	"fmt"
)

// Replace the stored town map with tm in a single transaction.
func SeedTownMap(conn *sql.DB, driver string, tm *domain.TownMap) error {
	if conn == nil {
		return errors.New("seed town map: DB is nil")
	}
	if tm == nil {
		return errors.New("seed town map: map is nil")
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("seed town map: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"map_meta", "map_nodes", "map_edges", "map_streets"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("seed town map: clear %s: %w", table, err)
		}
	}

	if _, err := tx.Exec(Rebind(driver, `INSERT INTO map_meta (meta_key, meta_value) VALUES (?, ?)`), metaDepot, tm.Depot); err != nil {
		return fmt.Errorf("seed town map: insert depot: %w", err)
	}

	nodeStmt, err := tx.Prepare(Rebind(driver, `
	INSERT INTO map_nodes (id, name, pos_x, pos_y, ord)
	VALUES (?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("seed town map: prepare node insert: %w", err)
	}
	defer nodeStmt.Close()

	for i, n := range tm.Nodes {
		var x, y sql.NullFloat64
		if n.Position != nil {
			x = sql.NullFloat64{Float64: n.Position.X, Valid: true}
			y = sql.NullFloat64{Float64: n.Position.Y, Valid: true}
		}
		if _, err := nodeStmt.Exec(n.ID, n.Name, x, y, i); err != nil {
			return fmt.Errorf("seed town map: insert node id=%s: %w", n.ID, err)
		}
	}

	edgeStmt, err := tx.Prepare(Rebind(driver, `
	INSERT INTO map_edges (ord, from_node, to_node, weight, bidirectional)
	VALUES (?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("seed town map: prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for i, e := range tm.Edges {
		if _, err := edgeStmt.Exec(i, e.From, e.To, e.Weight, e.Bidirectional); err != nil {
			return fmt.Errorf("seed town map: insert edge %s-%s: %w", e.From, e.To, err)
		}
	}

	streetStmt, err := tx.Prepare(Rebind(driver, `
	INSERT INTO map_streets (neighborhood, neighborhood_ord, street, street_ord, node)
	VALUES (?, ?, ?, ?, ?);
	`))
	if err != nil {
		return fmt.Errorf("seed town map: prepare street insert: %w", err)
	}
	defer streetStmt.Close()

	for i, nb := range tm.Neighborhoods {
		for j, s := range nb.Streets {
			if _, err := streetStmt.Exec(nb.Name, i, s.Name, j, s.Node); err != nil {
				return fmt.Errorf("seed town map: insert street %s/%s: %w", nb.Name, s.Name, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed town map: commit tx: %w", err)
	}

	return nil
}
