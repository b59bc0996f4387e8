package schedule

import "fmt"

// Conflict describes an overlap between a candidate interval and an existing
// occurrence. It is a normal validation outcome, never an error.
type Conflict struct {
	ActivityID string
	Name       string
	Start      string
	End        string
	Message    string
}

// DetectConflict checks a candidate HH:MM interval against a day's resolved
// occurrences and returns the first overlap found, or nil.
//
// Overlap uses half-open semantics: [s1,e1) and [s2,e2) conflict iff
// s1 < e2 && s2 < e1, so intervals that merely touch at a boundary do not
// conflict. If either candidate time fails to parse the function reports no
// conflict; time format validation is a separate, prior concern. excludeID
// skips the occurrence being edited.
func DetectConflict(existing []Occurrence, candidateStart, candidateEnd, excludeID string) *Conflict {
	conflicts := detect(existing, candidateStart, candidateEnd, excludeID, true)
	if len(conflicts) == 0 {
		return nil
	}
	return &conflicts[0]
}

// DetectConflicts is the exhaustive variant: it returns every overlapping
// occurrence instead of short-circuiting on the first.
func DetectConflicts(existing []Occurrence, candidateStart, candidateEnd, excludeID string) []Conflict {
	return detect(existing, candidateStart, candidateEnd, excludeID, false)
}

func detect(existing []Occurrence, candidateStart, candidateEnd, excludeID string, firstOnly bool) []Conflict {
	s1, ok := ParseClock(candidateStart)
	if !ok {
		return nil
	}
	e1, ok := ParseClock(candidateEnd)
	if !ok {
		return nil
	}

	var out []Conflict
	for _, occ := range existing {
		if excludeID != "" && occ.Template.ID == excludeID {
			continue
		}
		s2, ok := ParseClock(occ.Start)
		if !ok {
			continue
		}
		e2, ok := ParseClock(occ.End)
		if !ok {
			continue
		}
		if s1 < e2 && s2 < e1 {
			out = append(out, Conflict{
				ActivityID: occ.Template.ID,
				Name:       occ.Template.Name,
				Start:      occ.Start,
				End:        occ.End,
				Message:    fmt.Sprintf("overlaps with %q (%s-%s)", occ.Template.Name, occ.Start, occ.End),
			})
			if firstOnly {
				return out
			}
		}
	}
	return out
}
