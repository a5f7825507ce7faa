package export

import (
	"time"

	ics "github.com/arran4/golang-ical"
)

// stampEpoch is written as DTSTAMP on calendar events. The host does not
// expose a last-modified time; consumers rely on this value staying fixed.
var stampEpoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

// record is the common shape every source record is flattened into before
// the field table of a profile is applied.
type record struct {
	uid         string
	summary     string
	description string
	location    string
	status      string
	start       Instant
	end         Instant
	due         Instant
}

// field maps one record value onto one iCalendar property. Exactly one of
// text or instant is set. Empty values are skipped unless always is set.
// Text values are escaped by the library when the document is serialized.
type field struct {
	property ics.ComponentProperty
	text     func(r *record) string
	instant  func(r *record) Instant
	always   bool
}

// Profile describes one export flavour: the document header and the field
// table used to turn records into components.
type Profile struct {
	Name      string
	ProductID string
	Version   string
	Component ics.ComponentType
	fields    []field
}

var (
	uidField         = field{property: ics.ComponentPropertyUniqueId, text: func(r *record) string { return r.uid }, always: true}
	summaryField     = field{property: ics.ComponentPropertySummary, text: func(r *record) string { return r.summary }, always: true}
	descriptionField = field{property: ics.ComponentPropertyDescription, text: func(r *record) string { return r.description }}
	locationField    = field{property: ics.ComponentPropertyLocation, text: func(r *record) string { return r.location }}
	statusField      = field{property: ics.ComponentPropertyStatus, text: func(r *record) string { return r.status }}
)

// CalendarEvents exports calendar entity events as VEVENTs.
var CalendarEvents = &Profile{
	Name:      "calendar",
	ProductID: "-//Home Assistant//Calendar Export//EN",
	Version:   "2.0",
	Component: ics.ComponentVEvent,
	fields: []field{
		uidField,
		summaryField,
		{property: ics.ComponentPropertyDtstamp, instant: func(*record) Instant { return At(stampEpoch) }},
		{property: ics.ComponentPropertyDtStart, instant: func(r *record) Instant { return r.start }},
		{property: ics.ComponentPropertyDtEnd, instant: func(r *record) Instant { return r.end }},
		descriptionField,
		locationField,
	},
}

// TodoItems exports to-do list items as VTODOs.
var TodoItems = &Profile{
	Name:      "todo",
	ProductID: "-//Home Assistant//Todo List Export//EN",
	Component: ics.ComponentVTodo,
	fields: []field{
		uidField,
		summaryField,
		{property: ics.ComponentPropertyDue, instant: func(r *record) Instant { return r.due }},
		descriptionField,
		statusField,
	},
}

// TodoEvents exports to-do list items as zero-length VEVENTs placed on the
// due value, for consumers that do not render VTODO.
var TodoEvents = &Profile{
	Name:      "todo_events",
	ProductID: "-//Home Assistant//Todo List Export Events//EN",
	Component: ics.ComponentVEvent,
	fields: []field{
		uidField,
		summaryField,
		{property: ics.ComponentPropertyDtStart, instant: func(r *record) Instant { return r.due }},
		{property: ics.ComponentPropertyDtEnd, instant: func(r *record) Instant { return r.due }},
		descriptionField,
		statusField,
	},
}

func (f field) apply(c *ics.ComponentBase, r *record) {
	if f.instant != nil {
		v := f.instant(r)
		if v.IsZero() {
			return
		}
		value, params := v.icalValue()
		c.SetProperty(f.property, value, params...)
		return
	}
	v := f.text(r)
	if v == "" && !f.always {
		return
	}
	c.SetProperty(f.property, v)
}

func eventRecord(ev CalendarEvent) record {
	return record{
		uid:         DeriveUID(ev.UID, ev.Start),
		summary:     ev.Summary,
		description: ev.Description,
		location:    ev.Location,
		start:       ev.Start,
		end:         ev.End,
	}
}

func todoRecord(item TodoItem) (record, error) {
	r := record{
		uid:         item.UID,
		summary:     item.Summary,
		description: item.Description,
		due:         item.Due,
	}
	if item.Status != "" {
		status, err := item.Status.Value()
		if err != nil {
			return record{}, err
		}
		r.status = status
	}
	return r, nil
}
