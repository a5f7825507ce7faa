package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// Store aggregates the entity repositories of one backend.
type Store struct {
	pool pinger

	Entities EntityRepository
	Events   EventRepository
	Todos    TodoRepository
}

// New wires the PostgreSQL repositories with a shared connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:     pool,
		Entities: &entityRepo{pool: pool},
		Events:   &eventRepo{pool: pool},
		Todos:    &todoRepo{pool: pool},
	}
}

// HealthCheck verifies that the backend is reachable. In-memory stores are always healthy.
func (s *Store) HealthCheck(ctx context.Context) error {
	if s.pool == nil {
		return nil
	}
	defer observeDB(ctx, "db.healthcheck")()
	return s.pool.Ping(ctx)
}
