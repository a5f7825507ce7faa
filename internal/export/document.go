package export

import (
	"fmt"

	ics "github.com/arran4/golang-ical"
)

// Document is a fully mapped export, ready to serialize.
type Document struct {
	Profile  *Profile
	Calendar *ics.Calendar
}

// Len returns the number of components in the document.
func (d *Document) Len() int {
	return len(d.Calendar.Components)
}

// Serialize renders the document as iCalendar text with CRLF line endings.
func (d *Document) Serialize() string {
	return d.Calendar.Serialize(ics.WithNewLineWindows)
}

// BuildCalendar maps calendar events into a VEVENT document named name.
func BuildCalendar(name string, events []CalendarEvent) (*Document, error) {
	records := make([]record, 0, len(events))
	for _, ev := range events {
		records = append(records, eventRecord(ev))
	}
	return CalendarEvents.build(name, records)
}

// BuildTodoList maps to-do items into a VTODO document, keeping their order.
func BuildTodoList(name string, items []TodoItem) (*Document, error) {
	return buildTodos(TodoItems, name, items)
}

// BuildTodoEvents maps to-do items into a VEVENT document, keeping their order.
func BuildTodoEvents(name string, items []TodoItem) (*Document, error) {
	return buildTodos(TodoEvents, name, items)
}

func buildTodos(p *Profile, name string, items []TodoItem) (*Document, error) {
	records := make([]record, 0, len(items))
	for i, item := range items {
		r, err := todoRecord(item)
		if err != nil {
			return nil, fmt.Errorf("item %d (%s): %w", i, item.UID, err)
		}
		records = append(records, r)
	}
	return p.build(name, records)
}

func (p *Profile) build(name string, records []record) (*Document, error) {
	cal := &ics.Calendar{
		Components:         []ics.Component{},
		CalendarProperties: []ics.CalendarProperty{},
	}
	if p.Version != "" {
		cal.SetVersion(p.Version)
	}
	cal.SetXWRCalName(name)
	cal.SetProductId(p.ProductID)

	seen := make(map[string]struct{}, len(records))
	for i := range records {
		r := &records[i]
		if r.uid == "" {
			return nil, fmt.Errorf("%w: component %d has no uid", ErrInvalidRecord, i)
		}
		if _, dup := seen[r.uid]; dup {
			return nil, fmt.Errorf("%w: duplicate uid %q", ErrInvalidRecord, r.uid)
		}
		seen[r.uid] = struct{}{}

		comp, base, err := p.newComponent(r.uid)
		if err != nil {
			return nil, err
		}
		for _, f := range p.fields {
			f.apply(base, r)
		}
		cal.Components = append(cal.Components, comp)
	}

	return &Document{Profile: p, Calendar: cal}, nil
}

func (p *Profile) newComponent(uid string) (ics.Component, *ics.ComponentBase, error) {
	switch p.Component {
	case ics.ComponentVEvent:
		ev := ics.NewEvent(uid)
		return ev, &ev.ComponentBase, nil
	case ics.ComponentVTodo:
		todo := ics.NewTodo(uid)
		return todo, &todo.ComponentBase, nil
	default:
		return nil, nil, fmt.Errorf("unsupported component type %s", p.Component)
	}
}
