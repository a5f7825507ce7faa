package export

import (
	"time"

	ics "github.com/arran4/golang-ical"
)

const (
	canonicalLayout      = "2006-01-02 15:04:05-07:00"
	canonicalMicroLayout = "2006-01-02 15:04:05.000000-07:00"
	canonicalDateLayout  = "2006-01-02"

	icalUTCLayout   = "20060102T150405Z"
	icalLocalLayout = "20060102T150405"
	icalDateLayout  = "20060102"
)

// Instant is a point in time as the host exposes it: either a zone-aware
// date-time or a calendar date with no time of day.
type Instant struct {
	Time   time.Time
	AllDay bool
}

// At returns a date-time instant. The location of t is kept.
func At(t time.Time) Instant {
	return Instant{Time: t}
}

// OnDay returns a date-only instant for the calendar day of t in t's location.
func OnDay(t time.Time) Instant {
	y, m, d := t.Date()
	return Instant{Time: time.Date(y, m, d, 0, 0, 0, 0, t.Location()), AllDay: true}
}

// IsZero reports whether the instant is unset.
func (i Instant) IsZero() bool {
	return i.Time.IsZero()
}

// String renders the host's canonical text form, e.g. "2024-01-01 09:00:00+00:00"
// or "2024-01-01" for all-day values. Identifier hashing depends on this exact form.
func (i Instant) String() string {
	if i.AllDay {
		return i.Time.Format(canonicalDateLayout)
	}
	if i.Time.Nanosecond()/int(time.Microsecond) != 0 {
		return i.Time.Format(canonicalMicroLayout)
	}
	return i.Time.Format(canonicalLayout)
}

// icalValue returns the property value and parameters for a DATE or DATE-TIME
// property. Times in a zone a consumer can resolve by name keep their wall
// time with a TZID parameter; everything else is written in UTC form.
func (i Instant) icalValue() (string, []ics.PropertyParameter) {
	if i.AllDay {
		return i.Time.Format(icalDateLayout), []ics.PropertyParameter{ics.WithValue(string(ics.ValueDataTypeDate))}
	}
	if name, ok := zoneID(i.Time); ok {
		return i.Time.Format(icalLocalLayout), []ics.PropertyParameter{
			&ics.KeyValues{Key: string(ics.ParameterTzid), Value: []string{name}},
		}
	}
	return i.Time.UTC().Format(icalUTCLayout), nil
}

// zoneID reports the IANA name of t's location. Names that do not load, or
// that load with a different offset at t, have no usable id.
func zoneID(t time.Time) (string, bool) {
	name := t.Location().String()
	switch name {
	case "", "UTC", "Local":
		return "", false
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return "", false
	}
	_, want := t.Zone()
	if _, got := t.In(loc).Zone(); got != want {
		return "", false
	}
	return name, true
}
