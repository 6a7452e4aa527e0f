package main

import (
	"context"
	"database/sql"
	"delivery-dispatch-service/internal/adapters/mapfile"
	"delivery-dispatch-service/internal/adapters/repositories"
	"delivery-dispatch-service/internal/config"
	"delivery-dispatch-service/internal/platform/db"
	"delivery-dispatch-service/internal/services"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
)

const usage = `usage: dbtool [-config file] [-map file] <command>

commands:
  init    create the town map schema
  seed    create the schema and load the town map YAML into it
  export  print the stored town map as YAML`

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfgPath := flag.String("config", config.Get("DISPATCH_CONFIG", ""), "config file (YAML)")
	mapPath := flag.String("map", "", "town map YAML to seed (default: map_path, then the built-in town)")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}
	if cfg.DBDriver == "" {
		log.Fatal("db_driver must be sqlite or postgres")
	}
	if *mapPath != "" {
		cfg.MapPath = *mapPath
	}

	conn, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	switch flag.Arg(0) {
	case "init":
		err = initSchema(conn, cfg.DBDriver)
	case "seed":
		err = initAndSeed(conn, cfg)
	case "export":
		err = export(conn, cfg.DBDriver)
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatal(err)
	}
}

func initSchema(conn *sql.DB, driver string) error {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(conn, driver); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")
	return nil
}

func initAndSeed(conn *sql.DB, cfg *config.Config) error {
	if err := initSchema(conn, cfg.DBDriver); err != nil {
		return err
	}

	tm, err := mapfile.LoadOrDefault(cfg.MapPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	if err := services.ValidateTownMap(tm); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}

	log.Println("Seeding database...")
	if err := repositories.SeedTownMap(conn, cfg.DBDriver, tm); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Printf("Seeding complete. nodes=%d edges=%d neighborhoods=%d", len(tm.Nodes), len(tm.Edges), len(tm.Neighborhoods))
	return nil
}

func export(conn *sql.DB, driver string) error {
	tm, err := repositories.NewSQLTownMapRepository(conn, driver).LoadTownMap(context.Background())
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	out, err := mapfile.Marshal(tm)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}
