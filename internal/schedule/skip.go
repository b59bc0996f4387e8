package schedule

import "time"

// NextWeekday returns the first date strictly after from that falls on day.
// When from itself lands on day a full week is added; the next occurrence is
// never the reference date.
func NextWeekday(from time.Time, day Weekday) time.Time {
	delta := (int(day) - int(WeekdayOf(from)) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return Midnight(from).AddDate(0, 0, delta)
}

// SkipDates computes the dates of the next weeks occurrences of day after
// from, one per week, for a "skip the next N weeks" request.
func SkipDates(from time.Time, day Weekday, weeks int) []time.Time {
	if weeks <= 0 {
		return nil
	}
	first := NextWeekday(from, day)
	dates := make([]time.Time, weeks)
	for i := range dates {
		dates[i] = first.AddDate(0, 0, 7*i)
	}
	return dates
}
