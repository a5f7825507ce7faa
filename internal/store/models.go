package store

import "time"

// Entity kinds known to the registry. Anything else is stored but never exported.
const (
	KindCalendar = "calendar"
	KindTodo     = "todo"
)

// Entity is a host entity that may expose calendar or to-do list data.
type Entity struct {
	ID        string
	Kind      string
	Name      string
	CreatedAt time.Time
}

// Event is one calendar event row. All-day events keep their date at
// midnight UTC in StartAt/EndAt.
type Event struct {
	EntityID    string
	UID         string
	Summary     string
	Description *string
	Location    *string
	StartAt     time.Time
	EndAt       time.Time
	AllDay      bool
}

// TodoItem is one to-do list row. Position is the display order within its list.
type TodoItem struct {
	EntityID    string
	UID         string
	Summary     string
	Description *string
	Due         *time.Time
	DueAllDay   bool
	Status      *string
	Position    int
}
