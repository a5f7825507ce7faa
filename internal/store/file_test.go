package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const sampleEntities = `
entities:
  - id: calendar.work
    kind: calendar
    name: Work
    events:
      - uid: e2
        summary: Retro
        start: "2024-01-05T15:00:00Z"
        end: "2024-01-05T16:00:00Z"
      - uid: e1
        summary: Standup
        location: Room 4
        start: "2024-01-01T09:00:00+01:00"
        end: "2024-01-01T09:15:00+01:00"
      - uid: holiday
        summary: Day off
        start: "2024-01-10"
        end: "2024-01-11"
  - id: todo.chores
    kind: todo
    name: Chores
    items:
      - uid: t2
        summary: Water plants
        status: completed
      - uid: t1
        summary: Buy milk
        due: "2024-01-02"
  - id: sensor.temperature
    kind: sensor
    name: Temperature
`

func TestParseFile(t *testing.T) {
	s, err := ParseFile([]byte(sampleEntities))
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	ctx := context.Background()

	entity, err := s.Entities.GetByID(ctx, "todo.chores")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if entity.Kind != KindTodo || entity.Name != "Chores" {
		t.Fatalf("unexpected entity: %+v", entity)
	}
	if _, err := s.Entities.GetByID(ctx, "calendar.nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	events, err := s.Events.ListInRange(ctx, "calendar.work", start, start.AddDate(0, 1, 0))
	if err != nil {
		t.Fatalf("ListInRange returned error: %v", err)
	}
	var uids []string
	for _, ev := range events {
		uids = append(uids, ev.UID)
	}
	if got := strings.Join(uids, ","); got != "e1,e2,holiday" {
		t.Fatalf("expected events ordered by start, got %s", got)
	}
	if events[0].Location == nil || *events[0].Location != "Room 4" || events[0].Description != nil {
		t.Errorf("unexpected optional fields on e1: %+v", events[0])
	}
	if !events[2].AllDay || events[0].AllDay {
		t.Errorf("all-day detection wrong: %+v", events)
	}

	items, err := s.Todos.ListForEntity(ctx, "todo.chores")
	if err != nil {
		t.Fatalf("ListForEntity returned error: %v", err)
	}
	if len(items) != 2 || items[0].UID != "t2" || items[1].UID != "t1" {
		t.Fatalf("expected file order to be kept, got %+v", items)
	}
	if items[0].Status == nil || *items[0].Status != "completed" || items[0].Due != nil {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if items[1].Due == nil || !items[1].DueAllDay || items[1].Status != nil {
		t.Errorf("unexpected second item: %+v", items[1])
	}
}

func TestMemoryEventsOutsideWindowAreSkipped(t *testing.T) {
	s, err := ParseFile([]byte(sampleEntities))
	if err != nil {
		t.Fatalf("ParseFile returned error: %v", err)
	}
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	events, err := s.Events.ListInRange(context.Background(), "calendar.work", start, start.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("ListInRange returned error: %v", err)
	}
	if len(events) != 1 || events[0].UID != "e2" {
		t.Fatalf("expected only e2 inside the window, got %+v", events)
	}
}

func TestParseFileRejectsBadInput(t *testing.T) {
	tests := map[string]string{
		"missing id":   "entities:\n  - kind: calendar\n",
		"duplicate id": "entities:\n  - id: a\n  - id: a\n",
		"bad time":     "entities:\n  - id: a\n    events:\n      - uid: e\n        start: tomorrow\n        end: later\n",
		"mixed values": "entities:\n  - id: a\n    events:\n      - uid: e\n        start: \"2024-01-01\"\n        end: \"2024-01-01T10:00:00Z\"\n",
	}
	for name, input := range tests {
		if _, err := ParseFile([]byte(input)); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entities.yaml")
	if err := os.WriteFile(path, []byte(sampleEntities), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile returned error: %v", err)
	}
	if err := s.HealthCheck(context.Background()); err != nil {
		t.Fatalf("expected in-memory store to be healthy, got %v", err)
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
