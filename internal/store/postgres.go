package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// querier is the subset of pgxpool.Pool used by the repositories.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// entityRepo implements EntityRepository.
type entityRepo struct {
	pool querier
}

func (r *entityRepo) GetByID(ctx context.Context, id string) (*Entity, error) {
	defer observeDB(ctx, "entities.get_by_id")()

	const q = `SELECT id, kind, name, created_at FROM entities WHERE id=$1`
	var e Entity
	if err := r.pool.QueryRow(ctx, q, id).Scan(&e.ID, &e.Kind, &e.Name, &e.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get entity %s: %w", id, err)
	}
	return &e, nil
}

// eventRepo implements EventRepository.
type eventRepo struct {
	pool querier
}

func (r *eventRepo) ListInRange(ctx context.Context, entityID string, start, end time.Time) ([]Event, error) {
	defer observeDB(ctx, "events.list_in_range")()

	const q = `SELECT entity_id, uid, summary, description, location, start_at, end_at, all_day
FROM calendar_events
WHERE entity_id=$1 AND start_at < $3 AND end_at > $2
ORDER BY start_at, id`
	rows, err := r.pool.Query(ctx, q, entityID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list events for %s: %w", entityID, err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.EntityID, &ev.UID, &ev.Summary, &ev.Description, &ev.Location, &ev.StartAt, &ev.EndAt, &ev.AllDay); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// todoRepo implements TodoRepository.
type todoRepo struct {
	pool querier
}

func (r *todoRepo) ListForEntity(ctx context.Context, entityID string) ([]TodoItem, error) {
	defer observeDB(ctx, "todos.list_for_entity")()

	const q = `SELECT entity_id, uid, summary, description, due_at, due_all_day, status, position
FROM todo_items
WHERE entity_id=$1
ORDER BY position`
	rows, err := r.pool.Query(ctx, q, entityID)
	if err != nil {
		return nil, fmt.Errorf("list todo items for %s: %w", entityID, err)
	}
	defer rows.Close()

	var out []TodoItem
	for rows.Next() {
		var item TodoItem
		if err := rows.Scan(&item.EntityID, &item.UID, &item.Summary, &item.Description, &item.Due, &item.DueAllDay, &item.Status, &item.Position); err != nil {
			return nil, fmt.Errorf("scan todo item: %w", err)
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
