package schedule

import (
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantOK  bool
	}{
		{"midnight", "00:00", 0, true},
		{"zero padded morning", "09:30", 570, true},
		{"single digit hour", "9:30", 570, true},
		{"last minute of day", "23:59", 1439, true},
		{"noon", "12:00", 720, true},
		{"empty", "", 0, false},
		{"hour out of range", "24:00", 0, false},
		{"minute out of range", "10:60", 0, false},
		{"missing separator", "0930", 0, false},
		{"non numeric", "ab:cd", 0, false},
		{"negative hour", "-1:30", 0, false},
		{"trailing garbage", "9:300", 0, false},
		{"just a colon", ":30", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseClock(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ParseClock(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "00:00"},
		{570, "09:30"},
		{1439, "23:59"},
		{720, "12:00"},
	}

	for _, tt := range tests {
		if got := FormatClock(tt.minutes); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestParseClockFormatClockRoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		for _, m := range []int{0, 1, 15, 30, 59} {
			s := FormatClock(h*60 + m)
			got, ok := ParseClock(s)
			if !ok {
				t.Fatalf("ParseClock(%q) failed", s)
			}
			if got != h*60+m {
				t.Errorf("round trip %q = %d, want %d", s, got, h*60+m)
			}
		}
	}
}

func TestDateRoundTrip(t *testing.T) {
	for _, s := range []string{"2024-01-01", "2024-02-29", "1999-12-31", "2025-07-04"} {
		d, ok := ParseDate(s)
		if !ok {
			t.Fatalf("ParseDate(%q) failed", s)
		}
		if got := FormatDate(d); got != s {
			t.Errorf("FormatDate(ParseDate(%q)) = %q", s, got)
		}
	}

	for _, s := range []string{"", "2024-13-01", "2024-02-30", "01-01-2024", "2024/01/01"} {
		if _, ok := ParseDate(s); ok {
			t.Errorf("ParseDate(%q) succeeded, want failure", s)
		}
	}
}

func TestWeekdayOf(t *testing.T) {
	// 2024-01-01 is a Monday; the week runs through Sunday 2024-01-07.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		got := WeekdayOf(base.AddDate(0, 0, i))
		if got != Weekday(i) {
			t.Errorf("WeekdayOf(%s) = %v, want %v", FormatDate(base.AddDate(0, 0, i)), got, Weekday(i))
		}
	}

	// Sunday maps to index 6, not 0.
	sunday := time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)
	if got := WeekdayOf(sunday); got != Sunday {
		t.Errorf("WeekdayOf(sunday) = %v, want %v", got, Sunday)
	}
}

func TestParseWeekday(t *testing.T) {
	for i, name := range []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"} {
		d, ok := ParseWeekday(name)
		if !ok || d != Weekday(i) {
			t.Errorf("ParseWeekday(%q) = %v, %v", name, d, ok)
		}
	}
	if _, ok := ParseWeekday("Monday"); ok {
		t.Error("ParseWeekday should reject mixed case")
	}
	if _, ok := ParseWeekday(""); ok {
		t.Error("ParseWeekday should reject empty input")
	}
}

func TestDayInWeek(t *testing.T) {
	// Reference a mid-week day: Wednesday 2024-01-10.
	ref := time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name   string
		day    Weekday
		offset int
		want   string
	}{
		{"monday this week", Monday, 0, "2024-01-08"},
		{"wednesday this week", Wednesday, 0, "2024-01-10"},
		{"sunday this week", Sunday, 0, "2024-01-14"},
		{"monday next week", Monday, 1, "2024-01-15"},
		{"friday last week", Friday, -1, "2024-01-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DayInWeek(tt.day, tt.offset, ref)
			if FormatDate(got) != tt.want {
				t.Errorf("DayInWeek(%v, %d) = %s, want %s", tt.day, tt.offset, FormatDate(got), tt.want)
			}
		})
	}
}

func TestDayInWeekInverseOfWeekdayOf(t *testing.T) {
	ref := time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)
	for d := Monday; d <= Sunday; d++ {
		date := DayInWeek(d, 0, ref)
		if WeekdayOf(date) != d {
			t.Errorf("WeekdayOf(DayInWeek(%v)) = %v", d, WeekdayOf(date))
		}
	}
}
