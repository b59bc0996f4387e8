package schedule

import (
	"fmt"
	"time"
)

// Weekday is a Monday-indexed day of the week. The app's week model starts on
// Monday, unlike time.Weekday where Sunday is 0; the remapping lives entirely
// in this package and raw indices must not leak past it.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Valid reports whether d is one of the seven defined days.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// ParseWeekday maps a lowercase day name to its Weekday value.
func ParseWeekday(s string) (Weekday, bool) {
	for i, name := range weekdayNames {
		if s == name {
			return Weekday(i), true
		}
	}
	return 0, false
}

// WeekdayOf converts a calendar date to the Monday-indexed weekday.
// time.Weekday has Sunday as 0, which maps to index 6 here.
func WeekdayOf(t time.Time) Weekday {
	return Weekday((int(t.Weekday()) + 6) % 7)
}

// ParseClock parses a wall-clock time in H:MM or HH:MM form into minutes
// since midnight. Invalid input is an expected outcome and is signaled by
// ok=false, never by a panic or error.
func ParseClock(s string) (int, bool) {
	if len(s) < 4 || len(s) > 5 {
		return 0, false
	}
	sep := len(s) - 3
	if s[sep] != ':' {
		return 0, false
	}
	hours, ok := parseDigits(s[:sep])
	if !ok || hours > 23 {
		return 0, false
	}
	minutes, ok := parseDigits(s[sep+1:])
	if !ok || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// FormatClock renders minutes since midnight as zero-padded HH:MM.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func parseDigits(s string) (int, bool) {
	if len(s) == 0 {
		return 0, false
	}
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

const isoDateLayout = "2006-01-02"

// ParseDate parses a canonical YYYY-MM-DD date into a UTC midnight instant.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(isoDateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a date as YYYY-MM-DD. FormatDate(ParseDate(s)) == s for
// every valid s.
func FormatDate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// Midnight truncates a timestamp to the start of its calendar day in UTC.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// WeekStart returns the Monday of the week containing ref plus weekOffset
// weeks (0 = the week of ref, negative = past, positive = future).
func WeekStart(ref time.Time, weekOffset int) time.Time {
	shifted := Midnight(ref).AddDate(0, 0, 7*weekOffset)
	return shifted.AddDate(0, 0, -int(WeekdayOf(shifted)))
}

// DayInWeek returns the concrete date of day within the Monday-starting week
// containing ref plus weekOffset weeks.
func DayInWeek(day Weekday, weekOffset int, ref time.Time) time.Time {
	return WeekStart(ref, weekOffset).AddDate(0, 0, int(day))
}
