package store

import (
	"context"
	"time"
)

// EntityRepository looks up registered entities.
type EntityRepository interface {
	GetByID(ctx context.Context, id string) (*Entity, error)
}

// EventRepository reads calendar events.
type EventRepository interface {
	// ListInRange returns events overlapping [start, end), ordered by start.
	ListInRange(ctx context.Context, entityID string, start, end time.Time) ([]Event, error)
}

// TodoRepository reads to-do list items.
type TodoRepository interface {
	// ListForEntity returns the items of a list in display order.
	ListForEntity(ctx context.Context, entityID string) ([]TodoItem, error)
}
