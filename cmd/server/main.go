package main

import (
	"context"
	"database/sql"
	"delivery-dispatch-service/internal/adapters/events"
	"delivery-dispatch-service/internal/adapters/mapfile"
	"delivery-dispatch-service/internal/adapters/repositories"
	"delivery-dispatch-service/internal/api"
	"delivery-dispatch-service/internal/config"
	"delivery-dispatch-service/internal/courier"
	"delivery-dispatch-service/internal/platform/db"
	"delivery-dispatch-service/internal/ports"
	"delivery-dispatch-service/internal/services"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

// main is the application composition root.
// It wires concrete adapters (SQL or YAML map source, Kafka or log events)
// behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfgPath := flag.String("config", config.Get("DISPATCH_CONFIG", ""), "config file (YAML)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := openTownMapRepository(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closeRepo()

	tm, err := repo.LoadTownMap(ctx)
	if err != nil {
		log.Fatal(err)
	}

	system, err := services.NewDeliverySystem(tm)
	if err != nil {
		log.Fatal(err)
	}

	publisher, err := events.New(ctx, cfg.KafkaBrokers, cfg.KafkaTopic)
	if err != nil {
		log.Fatal(err)
	}
	defer publisher.Close()

	animator := courier.NewAnimator(system.Graph(), system.Depot(), cfg.CourierTick, cfg.CourierStep, nil)
	defer animator.Stop()

	router := api.NewRouter(api.Deps{
		System:    system,
		Publisher: publisher,
		Courier:   animator,
	})

	log.Printf("Server listening addr=:%s depot=%s nodes=%d", cfg.Port, system.Depot(), len(tm.Nodes))
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	case <-ctx.Done():
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown failed: %v", err)
		}
	}
}

// openTownMapRepository picks the SQL store when a driver is configured and
// the YAML map otherwise. With seed_map set the SQL store is (re)seeded from
// the YAML map first.
func openTownMapRepository(cfg *config.Config) (ports.TownMapRepository, func(), error) {
	fileRepo := mapfile.FileRepository{Path: cfg.MapPath}
	if cfg.DBDriver == "" {
		return fileRepo, func() {}, nil
	}

	conn, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() { conn.Close() }

	if err := initAndSeed(conn, cfg, fileRepo); err != nil {
		closeFn()
		return nil, nil, err
	}

	return repositories.NewSQLTownMapRepository(conn, cfg.DBDriver), closeFn, nil
}

func initAndSeed(conn *sql.DB, cfg *config.Config, source ports.TownMapRepository) error {
	if err := repositories.InitSchema(conn, cfg.DBDriver); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if !cfg.SeedMap {
		return nil
	}

	tm, err := source.LoadTownMap(context.Background())
	if err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if err := services.ValidateTownMap(tm); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if err := repositories.SeedTownMap(conn, cfg.DBDriver, tm); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	return nil
}
