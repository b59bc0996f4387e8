package schedule

import "time"

// Anchor determines where a template places on the calendar: a fixed weekday
// for recurring templates, or a concrete date for one-offs. The sealed union
// makes the "both set" / "neither set" states unrepresentable.
type Anchor interface {
	anchor()
}

// Weekly anchors a recurring template to one weekday, optionally bounded by
// an inclusive end date (zero Until means unbounded).
type Weekly struct {
	Day   Weekday
	Until time.Time
}

// OneOff anchors a template to a single calendar date.
type OneOff struct {
	Date time.Time
}

func (Weekly) anchor() {}
func (OneOff) anchor() {}

// Template is the scheduling view of a stored activity. Name and Color carry
// no scheduling semantics; they are passed through so resolved occurrences
// can be rendered without a second lookup.
type Template struct {
	ID      string
	OwnerID int64
	Name    string
	Color   string
	Anchor  Anchor
	Start   string // HH:MM wall clock
	End     string // HH:MM wall clock, same day, strictly after Start
}

// Occurrence is the concrete placement of a template on one calendar date.
// Occurrences are derived fresh on every resolution and never persisted.
type Occurrence struct {
	Template Template
	Date     time.Time
	Start    string
	End      string
}

// ExceptionSet maps an activity ID to the set of cancelled occurrence dates,
// keyed by canonical YYYY-MM-DD strings.
type ExceptionSet map[string]map[string]struct{}

// Add records a cancelled date for an activity.
func (s ExceptionSet) Add(activityID, isoDate string) {
	dates, ok := s[activityID]
	if !ok {
		dates = make(map[string]struct{})
		s[activityID] = dates
	}
	dates[isoDate] = struct{}{}
}

// Cancelled reports whether the given activity's occurrence on date is
// cancelled.
func (s ExceptionSet) Cancelled(activityID string, date time.Time) bool {
	dates, ok := s[activityID]
	if !ok {
		return false
	}
	_, ok = dates[FormatDate(date)]
	return ok
}
