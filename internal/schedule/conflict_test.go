package schedule

import (
	"strings"
	"testing"
)

func occurrenceAt(id, name, start, end string) Occurrence {
	return Occurrence{
		Template: Template{ID: id, Name: name, Start: start, End: end},
		Start:    start,
		End:      end,
	}
}

func TestDetectConflict(t *testing.T) {
	existing := []Occurrence{occurrenceAt("a1", "Standup", "10:00", "11:00")}

	tests := []struct {
		name         string
		start, end   string
		wantConflict bool
	}{
		{"touching before does not conflict", "09:00", "10:00", false},
		{"touching after does not conflict", "11:00", "12:00", false},
		{"overlap from before", "09:00", "10:30", true},
		{"overlap from after", "10:30", "11:30", true},
		{"contained", "10:15", "10:45", true},
		{"containing", "09:00", "12:00", true},
		{"identical", "10:00", "11:00", true},
		{"disjoint before", "08:00", "09:00", false},
		{"disjoint after", "12:00", "13:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectConflict(existing, tt.start, tt.end, "")
			if (got != nil) != tt.wantConflict {
				t.Errorf("DetectConflict(%s-%s) = %v, want conflict=%v", tt.start, tt.end, got, tt.wantConflict)
			}
		})
	}
}

func TestDetectConflictReport(t *testing.T) {
	existing := []Occurrence{occurrenceAt("a1", "Standup", "10:00", "11:00")}

	c := DetectConflict(existing, "10:30", "11:30", "")
	if c == nil {
		t.Fatal("expected a conflict")
	}
	if c.ActivityID != "a1" || c.Start != "10:00" || c.End != "11:00" {
		t.Errorf("report = %+v, want the conflicting occurrence named", c)
	}
	if !strings.Contains(c.Message, "Standup") || !strings.Contains(c.Message, "10:00") {
		t.Errorf("message %q should name the occurrence and its time range", c.Message)
	}
}

func TestDetectConflictExcludesEditedActivity(t *testing.T) {
	existing := []Occurrence{occurrenceAt("a1", "Standup", "10:00", "11:00")}

	if c := DetectConflict(existing, "10:00", "11:00", "a1"); c != nil {
		t.Errorf("editing an activity should not conflict with itself, got %+v", c)
	}
}

func TestDetectConflictMalformedCandidate(t *testing.T) {
	existing := []Occurrence{occurrenceAt("a1", "Standup", "10:00", "11:00")}

	for _, tc := range [][2]string{{"", "11:00"}, {"10:00", "25:00"}, {"abc", "def"}} {
		if c := DetectConflict(existing, tc[0], tc[1], ""); c != nil {
			t.Errorf("malformed candidate %q-%q should report no conflict", tc[0], tc[1])
		}
	}
}

func TestDetectConflictSkipsUnparsableOccurrences(t *testing.T) {
	existing := []Occurrence{
		occurrenceAt("bad", "Corrupt", "abc", "10:00"),
		occurrenceAt("a1", "Standup", "10:00", "11:00"),
	}

	c := DetectConflict(existing, "10:30", "11:30", "")
	if c == nil || c.ActivityID != "a1" {
		t.Errorf("detector should skip unparsable occurrences and still find the overlap, got %+v", c)
	}
}

func TestDetectConflictFirstMatch(t *testing.T) {
	existing := []Occurrence{
		occurrenceAt("a1", "First", "09:00", "10:00"),
		occurrenceAt("a2", "Second", "09:30", "10:30"),
	}

	c := DetectConflict(existing, "09:00", "11:00", "")
	if c == nil || c.ActivityID != "a1" {
		t.Errorf("expected first-match policy, got %+v", c)
	}
}

func TestDetectConflicts(t *testing.T) {
	existing := []Occurrence{
		occurrenceAt("a1", "First", "09:00", "10:00"),
		occurrenceAt("a2", "Second", "09:30", "10:30"),
		occurrenceAt("a3", "Clear", "13:00", "14:00"),
	}

	got := DetectConflicts(existing, "09:00", "11:00", "")
	if len(got) != 2 {
		t.Fatalf("got %d conflicts, want 2", len(got))
	}
	if got[0].ActivityID != "a1" || got[1].ActivityID != "a2" {
		t.Errorf("conflicts = %v, %v", got[0].ActivityID, got[1].ActivityID)
	}
}
