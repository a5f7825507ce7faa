package store

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// entitiesFile is the YAML layout accepted by LoadFile:
//
//	entities:
//	  - id: calendar.family
//	    kind: calendar
//	    name: Family
//	    events:
//	      - uid: e1
//	        summary: Standup
//	        start: 2024-01-01T09:00:00Z
//	        end: 2024-01-01T10:00:00Z
//	  - id: todo.shopping
//	    kind: todo
//	    name: Shopping
//	    items:
//	      - uid: t1
//	        summary: Buy milk
//	        due: 2024-01-02
//	        status: needs_action
type entitiesFile struct {
	Entities []fileEntity `yaml:"entities"`
}

type fileEntity struct {
	ID     string      `yaml:"id"`
	Kind   string      `yaml:"kind"`
	Name   string      `yaml:"name"`
	Events []fileEvent `yaml:"events"`
	Items  []fileTodo  `yaml:"items"`
}

type fileEvent struct {
	UID         string `yaml:"uid"`
	Summary     string `yaml:"summary"`
	Description string `yaml:"description"`
	Location    string `yaml:"location"`
	Start       string `yaml:"start"`
	End         string `yaml:"end"`
}

type fileTodo struct {
	UID         string `yaml:"uid"`
	Summary     string `yaml:"summary"`
	Description string `yaml:"description"`
	Due         string `yaml:"due"`
	Status      string `yaml:"status"`
}

const fileDateLayout = "2006-01-02"

// LoadFile reads a YAML entity file into an in-memory store.
func LoadFile(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("entities file path is empty")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseFile(data)
}

// ParseFile decodes YAML entity data into an in-memory store.
func ParseFile(data []byte) (*Store, error) {
	var doc entitiesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode entities: %w", err)
	}

	var (
		entities []Entity
		events   []Event
		todos    []TodoItem
		seen     = make(map[string]struct{}, len(doc.Entities))
	)
	for _, fe := range doc.Entities {
		if fe.ID == "" {
			return nil, errors.New("entity without id")
		}
		if _, dup := seen[fe.ID]; dup {
			return nil, fmt.Errorf("duplicate entity %s", fe.ID)
		}
		seen[fe.ID] = struct{}{}
		entities = append(entities, Entity{ID: fe.ID, Kind: fe.Kind, Name: fe.Name})

		for i, ev := range fe.Events {
			start, startAllDay, err := parseFileTime(ev.Start)
			if err != nil {
				return nil, fmt.Errorf("%s: event %d start: %w", fe.ID, i, err)
			}
			end, endAllDay, err := parseFileTime(ev.End)
			if err != nil {
				return nil, fmt.Errorf("%s: event %d end: %w", fe.ID, i, err)
			}
			if startAllDay != endAllDay {
				return nil, fmt.Errorf("%s: event %d mixes date and date-time values", fe.ID, i)
			}
			events = append(events, Event{
				EntityID:    fe.ID,
				UID:         ev.UID,
				Summary:     ev.Summary,
				Description: optional(ev.Description),
				Location:    optional(ev.Location),
				StartAt:     start,
				EndAt:       end,
				AllDay:      startAllDay,
			})
		}

		for i, it := range fe.Items {
			item := TodoItem{
				EntityID:    fe.ID,
				UID:         it.UID,
				Summary:     it.Summary,
				Description: optional(it.Description),
				Status:      optional(it.Status),
				Position:    i,
			}
			if it.Due != "" {
				due, allDay, err := parseFileTime(it.Due)
				if err != nil {
					return nil, fmt.Errorf("%s: item %d due: %w", fe.ID, i, err)
				}
				item.Due = &due
				item.DueAllDay = allDay
			}
			todos = append(todos, item)
		}
	}

	return NewMemory(entities, events, todos), nil
}

// parseFileTime accepts RFC 3339 date-times and plain dates. Dates are
// returned at midnight UTC with allDay set.
func parseFileTime(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false, errors.New("missing value")
	}
	if t, err := time.Parse(fileDateLayout, s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid time %q", s)
	}
	return t, false, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
