package store

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeQuerier struct {
	row     fakeRow
	rows    *fakeRows
	lastSQL string
	args    []any
}

func (f *fakeQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.lastSQL, f.args = sql, args
	if f.rows == nil {
		return nil, errors.New("no rows configured")
	}
	return f.rows, nil
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.lastSQL, f.args = sql, args
	return f.row
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return assign(dest, r.values)
}

type fakeRows struct {
	data   [][]any
	idx    int
	closed bool
}

func (r *fakeRows) Close()                                       { r.closed = true }
func (r *fakeRows) Err() error                                   { return nil }
func (r *fakeRows) CommandTag() pgconn.CommandTag                { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) Values() ([]any, error)                       { return r.data[r.idx-1], nil }
func (r *fakeRows) RawValues() [][]byte                          { return nil }
func (r *fakeRows) Conn() *pgx.Conn                              { return nil }

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.data) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return assign(dest, r.data[r.idx-1])
}

func assign(dest, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d destinations for %d values", len(dest), len(values))
	}
	for i, v := range values {
		target := reflect.ValueOf(dest[i]).Elem()
		if v == nil {
			target.Set(reflect.Zero(target.Type()))
			continue
		}
		target.Set(reflect.ValueOf(v))
	}
	return nil
}

func strPtr(s string) *string { return &s }

func TestEntityRepoGetByIDMapsNoRows(t *testing.T) {
	repo := &entityRepo{pool: &fakeQuerier{row: fakeRow{err: pgx.ErrNoRows}}}

	if _, err := repo.GetByID(context.Background(), "calendar.missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEntityRepoGetByID(t *testing.T) {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	q := &fakeQuerier{row: fakeRow{values: []any{"todo.shopping", KindTodo, "Shopping", created}}}
	repo := &entityRepo{pool: q}

	e, err := repo.GetByID(context.Background(), "todo.shopping")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if e.ID != "todo.shopping" || e.Kind != KindTodo || e.Name != "Shopping" || !e.CreatedAt.Equal(created) {
		t.Fatalf("unexpected entity: %+v", e)
	}
	if len(q.args) != 1 || q.args[0] != "todo.shopping" {
		t.Fatalf("unexpected query args: %v", q.args)
	}
}

func TestEventRepoListInRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	rows := &fakeRows{data: [][]any{
		{"calendar.work", "e1", "Standup", (*string)(nil), strPtr("Room 4"), start, start.Add(time.Hour), false},
	}}
	q := &fakeQuerier{rows: rows}
	repo := &eventRepo{pool: q}

	windowStart, windowEnd := start.AddDate(-1, 0, 0), start.AddDate(1, 0, 0)
	events, err := repo.ListInRange(context.Background(), "calendar.work", windowStart, windowEnd)
	if err != nil {
		t.Fatalf("ListInRange returned error: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]
	if ev.UID != "e1" || ev.Description != nil || ev.Location == nil || *ev.Location != "Room 4" {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if !rows.closed {
		t.Error("expected rows to be closed")
	}
	if !strings.Contains(q.lastSQL, "start_at < $3 AND end_at > $2") {
		t.Errorf("expected overlap predicate, got %s", q.lastSQL)
	}
	if q.args[1] != windowStart || q.args[2] != windowEnd {
		t.Errorf("unexpected window args: %v", q.args)
	}
}

func TestTodoRepoListForEntityOrdersByPosition(t *testing.T) {
	due := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	rows := &fakeRows{data: [][]any{
		{"todo.chores", "t1", "Buy milk", (*string)(nil), (*time.Time)(nil), false, strPtr("needs_action"), 0},
		{"todo.chores", "t2", "Pay rent", strPtr("before the 3rd"), &due, true, (*string)(nil), 1},
	}}
	q := &fakeQuerier{rows: rows}
	repo := &todoRepo{pool: q}

	items, err := repo.ListForEntity(context.Background(), "todo.chores")
	if err != nil {
		t.Fatalf("ListForEntity returned error: %v", err)
	}
	if len(items) != 2 || items[0].UID != "t1" || items[1].UID != "t2" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[1].Due == nil || !items[1].DueAllDay {
		t.Errorf("expected all-day due on second item: %+v", items[1])
	}
	if !strings.Contains(q.lastSQL, "ORDER BY position") {
		t.Errorf("expected position ordering, got %s", q.lastSQL)
	}
}
