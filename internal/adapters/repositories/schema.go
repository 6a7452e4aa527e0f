package repositories

import (
	"database/sql"
	"delivery-dispatch-service/internal/platform/db"
	"errors"
	"fmt"
	"strings"
)

// Initialize the town map schema. driver selects the dialect.
func InitSchema(conn *sql.DB, driver string) error {
	if conn == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createMetaQuery := `
	CREATE TABLE IF NOT EXISTS map_meta (
		meta_key TEXT PRIMARY KEY,
		meta_value TEXT NOT NULL
	);
	`

	createNodesQuery := `
	CREATE TABLE IF NOT EXISTS map_nodes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		pos_x DOUBLE PRECISION,
		pos_y DOUBLE PRECISION,
		ord INTEGER NOT NULL
	);
	`

	createEdgesQuery := `
	CREATE TABLE IF NOT EXISTS map_edges (
		ord INTEGER PRIMARY KEY,
		from_node TEXT NOT NULL,
		to_node TEXT NOT NULL,
		weight DOUBLE PRECISION NOT NULL,
		bidirectional BOOLEAN NOT NULL
	);
	`

	createStreetsQuery := `
	CREATE TABLE IF NOT EXISTS map_streets (
		neighborhood TEXT NOT NULL,
		neighborhood_ord INTEGER NOT NULL,
		street TEXT NOT NULL,
		street_ord INTEGER NOT NULL,
		node TEXT NOT NULL,
		PRIMARY KEY (neighborhood, street)
	);
	`

	statements := []string{
		createMetaQuery,
		createNodesQuery,
		createEdgesQuery,
		createStreetsQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d (%s): %w", i+1, driver, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Rebind rewrites ? placeholders to $1, $2, ... for postgres.
func Rebind(driver, query string) string {
	if driver != db.DriverPostgres {
		return query
	}

	n := 0
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
		} else {
			b.WriteByte(query[i])
		}
	}
	return b.String()
}
