package schedule

import (
	"fmt"
	"time"
)

// Resolve expands templates into concrete occurrences within the inclusive
// date range [rangeStart, rangeEnd], omitting occurrences whose (activity,
// date) pair appears in exceptions.
//
// Resolution is a pure function of its inputs: identical calls yield
// identical output. Templates that cannot be expanded (missing anchor,
// malformed stored times) are skipped and reported in the second return
// value rather than failing the whole call; a partial result is always
// preferable to none for a user-facing view. Occurrences are not globally
// sorted; ordering for display is the caller's concern.
func Resolve(templates []Template, exceptions ExceptionSet, rangeStart, rangeEnd time.Time) ([]Occurrence, []error) {
	start := Midnight(rangeStart)
	end := Midnight(rangeEnd)

	occurrences := make([]Occurrence, 0, len(templates))
	var skipped []error

	for _, t := range templates {
		expanded, err := expandTemplate(t, exceptions, start, end)
		if err != nil {
			skipped = append(skipped, err)
			continue
		}
		occurrences = append(occurrences, expanded...)
	}

	return occurrences, skipped
}

func expandTemplate(t Template, exceptions ExceptionSet, rangeStart, rangeEnd time.Time) ([]Occurrence, error) {
	if _, ok := ParseClock(t.Start); !ok {
		return nil, fmt.Errorf("activity %s: malformed start time %q", t.ID, t.Start)
	}
	if _, ok := ParseClock(t.End); !ok {
		return nil, fmt.Errorf("activity %s: malformed end time %q", t.ID, t.End)
	}

	switch a := t.Anchor.(type) {
	case OneOff:
		if a.Date.IsZero() {
			return nil, fmt.Errorf("activity %s: one-off without a date", t.ID)
		}
		date := Midnight(a.Date)
		if date.Before(rangeStart) || date.After(rangeEnd) {
			return nil, nil
		}
		if exceptions.Cancelled(t.ID, date) {
			return nil, nil
		}
		return []Occurrence{{Template: t, Date: date, Start: t.Start, End: t.End}}, nil

	case Weekly:
		if !a.Day.Valid() {
			return nil, fmt.Errorf("activity %s: invalid weekday %d", t.ID, int(a.Day))
		}
		until := a.Until
		if !until.IsZero() {
			until = Midnight(until)
			if until.Before(rangeStart) {
				return nil, nil
			}
		}
		var out []Occurrence
		for date := rangeStart; !date.After(rangeEnd); date = date.AddDate(0, 0, 1) {
			if WeekdayOf(date) != a.Day {
				continue
			}
			if !until.IsZero() && date.After(until) {
				continue
			}
			if exceptions.Cancelled(t.ID, date) {
				continue
			}
			out = append(out, Occurrence{Template: t, Date: date, Start: t.Start, End: t.End})
		}
		return out, nil

	default:
		return nil, fmt.Errorf("activity %s: no anchor set", t.ID)
	}
}
