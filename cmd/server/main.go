package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/jw6ventures/icsexport/internal/api"
	"github.com/jw6ventures/icsexport/internal/config"
	"github.com/jw6ventures/icsexport/internal/entity"
	httpserver "github.com/jw6ventures/icsexport/internal/http"
	"github.com/jw6ventures/icsexport/internal/store"
)

func main() {
	log.Println("Starting icsexport server...")
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("failed to read .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stor, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open entity store: %v", err)
	}
	defer closeStore()

	registry := entity.NewStoreRegistry(stor, cfg.Location)
	handler := api.NewHandler(registry, cfg.Location)
	r := httpserver.NewRouter(ctx, cfg, stor, handler)

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("server listening on %s (time zone %s)", cfg.ListenAddr, cfg.Location)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}
}

// openStore picks the YAML file backend when configured, PostgreSQL otherwise.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, func(), error) {
	if cfg.EntitiesFile != "" {
		log.Printf("loading entities from %s", cfg.EntitiesFile)
		stor, err := store.LoadFile(cfg.EntitiesFile)
		return stor, func() {}, err
	}

	pool, err := pgxpool.New(ctx, cfg.DB.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := store.ApplyMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return store.New(pool), pool.Close, nil
}
