// Package entity resolves host entity ids into the capability they expose.
package entity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jw6ventures/icsexport/internal/export"
	"github.com/jw6ventures/icsexport/internal/store"
)

// Kind tags the outcome of resolving an entity id.
type Kind int

const (
	KindNotFound Kind = iota
	KindCalendar
	KindTodoList
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindCalendar:
		return "calendar"
	case KindTodoList:
		return "todo_list"
	default:
		return "other"
	}
}

// Calendar is an entity that can list its events within a time window.
type Calendar interface {
	Name() string
	Events(ctx context.Context, start, end time.Time) ([]export.CalendarEvent, error)
}

// TodoList is an entity that exposes its current items in display order.
type TodoList interface {
	Name() string
	Items(ctx context.Context) ([]export.TodoItem, error)
}

// Resolution is the tagged result of a lookup. Calendar is set only for
// KindCalendar and TodoList only for KindTodoList.
type Resolution struct {
	Kind     Kind
	Calendar Calendar
	TodoList TodoList
}

// Registry resolves entity ids.
type Registry interface {
	Resolve(ctx context.Context, entityID string) (Resolution, error)
}

// StoreRegistry resolves entities against a store. Event times are
// presented in the host location.
type StoreRegistry struct {
	store *store.Store
	loc   *time.Location
}

// NewStoreRegistry returns a registry over s using loc as the host time zone.
func NewStoreRegistry(s *store.Store, loc *time.Location) *StoreRegistry {
	if loc == nil {
		loc = time.UTC
	}
	return &StoreRegistry{store: s, loc: loc}
}

func (r *StoreRegistry) Resolve(ctx context.Context, entityID string) (Resolution, error) {
	e, err := r.store.Entities.GetByID(ctx, entityID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Resolution{Kind: KindNotFound}, nil
		}
		return Resolution{}, fmt.Errorf("resolve %s: %w", entityID, err)
	}

	switch e.Kind {
	case store.KindCalendar:
		return Resolution{Kind: KindCalendar, Calendar: &storeCalendar{entity: *e, events: r.store.Events, loc: r.loc}}, nil
	case store.KindTodo:
		return Resolution{Kind: KindTodoList, TodoList: &storeTodoList{entity: *e, todos: r.store.Todos, loc: r.loc}}, nil
	default:
		return Resolution{Kind: KindOther}, nil
	}
}

type storeCalendar struct {
	entity store.Entity
	events store.EventRepository
	loc    *time.Location
}

func (c *storeCalendar) Name() string { return c.entity.Name }

func (c *storeCalendar) Events(ctx context.Context, start, end time.Time) ([]export.CalendarEvent, error) {
	rows, err := c.events.ListInRange(ctx, c.entity.ID, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]export.CalendarEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, export.CalendarEvent{
			UID:         row.UID,
			Start:       instant(row.StartAt, row.AllDay, c.loc),
			End:         instant(row.EndAt, row.AllDay, c.loc),
			Summary:     row.Summary,
			Description: deref(row.Description),
			Location:    deref(row.Location),
		})
	}
	return out, nil
}

type storeTodoList struct {
	entity store.Entity
	todos  store.TodoRepository
	loc    *time.Location
}

func (l *storeTodoList) Name() string { return l.entity.Name }

func (l *storeTodoList) Items(ctx context.Context) ([]export.TodoItem, error) {
	rows, err := l.todos.ListForEntity(ctx, l.entity.ID)
	if err != nil {
		return nil, err
	}
	out := make([]export.TodoItem, 0, len(rows))
	for _, row := range rows {
		item := export.TodoItem{
			UID:         row.UID,
			Summary:     row.Summary,
			Description: deref(row.Description),
			Status:      export.TodoStatus(deref(row.Status)),
		}
		if row.Due != nil {
			item.Due = instant(*row.Due, row.DueAllDay, l.loc)
		}
		out = append(out, item)
	}
	return out, nil
}

// instant converts a stored timestamp. All-day values are stored at midnight
// UTC and keep that date; date-times move into the host location.
func instant(t time.Time, allDay bool, loc *time.Location) export.Instant {
	if allDay {
		return export.OnDay(t.UTC())
	}
	return export.At(t.In(loc))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
