package store

import (
	"context"
	"sort"
	"time"
)

// NewMemory builds a read-only store over fixed slices. Todo items keep the
// order given within each entity unless positions say otherwise.
func NewMemory(entities []Entity, events []Event, todos []TodoItem) *Store {
	byID := make(map[string]Entity, len(entities))
	for _, e := range entities {
		byID[e.ID] = e
	}
	return &Store{
		Entities: &memoryEntityRepo{entities: byID},
		Events:   &memoryEventRepo{events: append([]Event(nil), events...)},
		Todos:    &memoryTodoRepo{items: append([]TodoItem(nil), todos...)},
	}
}

type memoryEntityRepo struct {
	entities map[string]Entity
}

func (r *memoryEntityRepo) GetByID(ctx context.Context, id string) (*Entity, error) {
	e, ok := r.entities[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

type memoryEventRepo struct {
	events []Event
}

func (r *memoryEventRepo) ListInRange(ctx context.Context, entityID string, start, end time.Time) ([]Event, error) {
	var out []Event
	for _, ev := range r.events {
		if ev.EntityID != entityID {
			continue
		}
		if ev.StartAt.Before(end) && ev.EndAt.After(start) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartAt.Before(out[j].StartAt) })
	return out, nil
}

type memoryTodoRepo struct {
	items []TodoItem
}

func (r *memoryTodoRepo) ListForEntity(ctx context.Context, entityID string) ([]TodoItem, error) {
	var out []TodoItem
	for _, item := range r.items {
		if item.EntityID == entityID {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}
