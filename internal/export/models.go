package export

import (
	"errors"
	"fmt"
)

// ErrInvalidRecord marks a source record that cannot be written as a component.
var ErrInvalidRecord = errors.New("invalid source record")

// CalendarEvent is a single event as read from a calendar entity.
type CalendarEvent struct {
	UID         string
	Start       Instant
	End         Instant
	Summary     string
	Description string
	Location    string
}

// TodoItem is a single task as read from a to-do list entity.
type TodoItem struct {
	UID         string
	Summary     string
	Due         Instant
	Description string
	Status      TodoStatus
}

// TodoStatus is the host's to-do item status enumeration.
type TodoStatus string

const (
	TodoStatusNeedsAction TodoStatus = "needs_action"
	TodoStatusCompleted   TodoStatus = "completed"
)

// Value returns the canonical string written to STATUS.
func (s TodoStatus) Value() (string, error) {
	switch s {
	case TodoStatusNeedsAction, TodoStatusCompleted:
		return string(s), nil
	default:
		return "", fmt.Errorf("%w: unknown to-do status %q", ErrInvalidRecord, string(s))
	}
}
