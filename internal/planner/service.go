package planner

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/weekplan/internal/metrics"
	"github.com/example/weekplan/internal/schedule"
	"github.com/example/weekplan/internal/store"
)

// ValidationError marks a user-correctable input problem.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Msg
	}
	return e.Msg
}

// ActivityInput is a candidate activity from the client. For recurring
// activities DayOfWeek must be set and ActivityDate must be empty; one-offs
// carry a date. The service enforces this at write time, mirroring the
// database constraint.
type ActivityInput struct {
	Name              string
	Color             string
	IsRecurring       bool
	DayOfWeek         *schedule.Weekday
	ActivityDate      *time.Time
	StartTime         string
	EndTime           string
	RecurrenceEndDate *time.Time
}

// Service is the scheduling engine around the pure schedule package: it loads
// templates and exceptions, resolves occurrences, gates writes behind the
// conflict detector, and generates skip exceptions. It owns the exception
// range cache.
type Service struct {
	store *store.Store
	cache *ExceptionCache
	now   func() time.Time
}

func New(st *store.Store, cache *ExceptionCache) *Service {
	return &Service{store: st, cache: cache, now: time.Now}
}

func (s *Service) validate(in ActivityInput) error {
	if in.Name == "" {
		return &ValidationError{Field: "name", Msg: "required"}
	}
	start, ok := schedule.ParseClock(in.StartTime)
	if !ok {
		return &ValidationError{Field: "startTime", Msg: "must be HH:MM"}
	}
	end, ok := schedule.ParseClock(in.EndTime)
	if !ok {
		return &ValidationError{Field: "endTime", Msg: "must be HH:MM"}
	}
	if start >= end {
		return &ValidationError{Field: "endTime", Msg: "must be after start time"}
	}
	if in.IsRecurring {
		if in.DayOfWeek == nil || !in.DayOfWeek.Valid() {
			return &ValidationError{Field: "dayOfWeek", Msg: "required for recurring activities"}
		}
		if in.ActivityDate != nil {
			return &ValidationError{Field: "activityDate", Msg: "must be empty for recurring activities"}
		}
	} else {
		if in.ActivityDate == nil {
			return &ValidationError{Field: "activityDate", Msg: "required for one-off activities"}
		}
		if in.RecurrenceEndDate != nil {
			return &ValidationError{Field: "recurrenceEndDate", Msg: "only valid for recurring activities"}
		}
	}
	return nil
}

// conflictDate is the day a candidate is checked against: the concrete date
// for one-offs, the current week's matching weekday for recurring activities.
func (s *Service) conflictDate(in ActivityInput) time.Time {
	if in.ActivityDate != nil {
		return schedule.Midnight(*in.ActivityDate)
	}
	return schedule.DayInWeek(*in.DayOfWeek, 0, s.now())
}

// CheckConflict validates in and runs the conflict detector against the
// candidate's day. A nil conflict with a nil error means the slot is free.
func (s *Service) CheckConflict(ctx context.Context, ownerID int64, in ActivityInput, excludeID string) (*schedule.Conflict, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	date := s.conflictDate(in)
	occurrences, err := s.ResolveRange(ctx, ownerID, date, date)
	if err != nil {
		return nil, err
	}
	conflict := schedule.DetectConflict(occurrences, in.StartTime, in.EndTime, excludeID)
	if conflict != nil {
		metrics.IncConflictsDetected()
	}
	return conflict, nil
}

// CreateActivity persists a new activity after the conflict gate. A non-nil
// conflict means the submission was rejected and nothing was written.
func (s *Service) CreateActivity(ctx context.Context, ownerID int64, in ActivityInput) (*store.Activity, *schedule.Conflict, error) {
	conflict, err := s.CheckConflict(ctx, ownerID, in, "")
	if err != nil {
		return nil, nil, err
	}
	if conflict != nil {
		return nil, conflict, nil
	}

	created, err := s.store.Activities.Create(ctx, s.toRecord(uuid.NewString(), ownerID, in))
	if err != nil {
		return nil, nil, fmt.Errorf("create activity: %w", err)
	}
	s.cache.Invalidate()
	return created, nil, nil
}

// UpdateActivity re-runs the conflict gate on every edit: changing a time or
// day can introduce overlaps that creation-time checks never saw. The edited
// activity is excluded from the check so it cannot conflict with itself.
func (s *Service) UpdateActivity(ctx context.Context, ownerID int64, id string, in ActivityInput) (*store.Activity, *schedule.Conflict, error) {
	if _, err := s.store.Activities.GetByID(ctx, ownerID, id); err != nil {
		return nil, nil, err
	}

	conflict, err := s.CheckConflict(ctx, ownerID, in, id)
	if err != nil {
		return nil, nil, err
	}
	if conflict != nil {
		return nil, conflict, nil
	}

	updated, err := s.store.Activities.Update(ctx, s.toRecord(id, ownerID, in))
	if err != nil {
		return nil, nil, fmt.Errorf("update activity: %w", err)
	}
	s.cache.Invalidate()
	return updated, nil, nil
}

// DeleteActivity removes an activity; its exceptions go with it.
func (s *Service) DeleteActivity(ctx context.Context, ownerID int64, id string) error {
	if err := s.store.Activities.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

// ResolveWeek resolves the Monday-starting week at the given offset from the
// current week.
func (s *Service) ResolveWeek(ctx context.Context, ownerID int64, weekOffset int) ([]schedule.Occurrence, error) {
	start := schedule.WeekStart(s.now(), weekOffset)
	return s.ResolveRange(ctx, ownerID, start, start.AddDate(0, 0, 6))
}

// ResolveRange materializes the owner's occurrences for [start, end]. The
// result is best effort: unreadable exceptions degrade to none and bad
// activity records are skipped with a log line, never a failed call.
func (s *Service) ResolveRange(ctx context.Context, ownerID int64, start, end time.Time) ([]schedule.Occurrence, error) {
	activities, err := s.store.Activities.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}

	exceptions, err := s.FetchExceptionsForDateRange(ctx, ownerID, start, end)
	if err != nil {
		log.Printf("[WARN] planner: exception lookup failed, resolving without exceptions: %v", err)
		exceptions = schedule.ExceptionSet{}
	}

	templates := make([]schedule.Template, 0, len(activities))
	for _, a := range activities {
		templates = append(templates, templateFromActivity(a))
	}

	occurrences, skipped := schedule.Resolve(templates, exceptions, start, end)
	for _, skipErr := range skipped {
		log.Printf("[WARN] planner: %v", skipErr)
	}
	if len(skipped) > 0 {
		metrics.AddResolutionSkips(len(skipped))
	}
	return occurrences, nil
}

// FetchExceptionsForDateRange returns the cancelled-date map for the range,
// serving repeat queries for the same range from the single-entry cache.
func (s *Service) FetchExceptionsForDateRange(ctx context.Context, ownerID int64, start, end time.Time) (schedule.ExceptionSet, error) {
	startKey := schedule.FormatDate(start)
	endKey := schedule.FormatDate(end)
	if set, ok := s.cache.Get(ownerID, startKey, endKey); ok {
		return set, nil
	}

	cancelled, err := s.store.Exceptions.ListCancelledInRange(ctx, ownerID, schedule.Midnight(start), schedule.Midnight(end))
	if err != nil {
		return nil, err
	}

	set := schedule.ExceptionSet{}
	for _, c := range cancelled {
		set.Add(c.ActivityID, schedule.FormatDate(c.ExceptionDate))
	}
	s.cache.Put(ownerID, startKey, endKey, set)
	return set, nil
}

// SkipOccurrences cancels the next weeks occurrences of a recurring activity
// starting after from (defaulting to today). Each date is independent: an
// existing exception is left alone to keep retries idempotent, and a failed
// lookup or insert is logged and skipped rather than aborting the batch. The
// returned slice holds only the exceptions actually created.
func (s *Service) SkipOccurrences(ctx context.Context, ownerID int64, activityID string, weeks int, from time.Time) ([]store.ActivityException, error) {
	if weeks <= 0 {
		return nil, &ValidationError{Field: "weeks", Msg: "must be positive"}
	}

	activity, err := s.store.Activities.GetByID(ctx, ownerID, activityID)
	if err != nil {
		return nil, err
	}
	if !activity.IsRecurring || activity.DayOfWeek == nil {
		return nil, &ValidationError{Field: "activityId", Msg: "only recurring activities can be skipped"}
	}

	if from.IsZero() {
		from = s.now()
	}

	var created []store.ActivityException
	for _, date := range schedule.SkipDates(from, schedule.Weekday(*activity.DayOfWeek), weeks) {
		exists, err := s.store.Exceptions.Exists(ctx, activityID, date)
		if err != nil {
			log.Printf("[WARN] planner: duplicate check failed for %s on %s, skipping date: %v",
				activityID, schedule.FormatDate(date), err)
			continue
		}
		if exists {
			continue
		}

		exception, err := s.store.Exceptions.Create(ctx, store.ActivityException{
			ID:            uuid.NewString(),
			ActivityID:    activityID,
			ExceptionDate: date,
			ExceptionType: store.ExceptionCancelled,
		})
		if err != nil {
			log.Printf("[WARN] planner: failed to create exception for %s on %s: %v",
				activityID, schedule.FormatDate(date), err)
			continue
		}
		created = append(created, *exception)
		metrics.IncExceptionsCreated()
	}

	if len(created) > 0 {
		s.cache.Invalidate()
	}
	return created, nil
}

// UnskipOccurrence removes the exception for one date, restoring that
// occurrence.
func (s *Service) UnskipOccurrence(ctx context.Context, ownerID int64, activityID string, date time.Time) error {
	if _, err := s.store.Activities.GetByID(ctx, ownerID, activityID); err != nil {
		return err
	}
	if err := s.store.Exceptions.Delete(ctx, activityID, schedule.Midnight(date)); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func (s *Service) toRecord(id string, ownerID int64, in ActivityInput) store.Activity {
	a := store.Activity{
		ID:          id,
		OwnerID:     ownerID,
		Name:        in.Name,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		IsRecurring: in.IsRecurring,
	}
	if in.Color != "" {
		a.Color = &in.Color
	}
	if in.IsRecurring {
		day := int16(*in.DayOfWeek)
		a.DayOfWeek = &day
		if in.RecurrenceEndDate != nil {
			d := schedule.Midnight(*in.RecurrenceEndDate)
			a.RecurrenceEndDate = &d
		}
	} else {
		d := schedule.Midnight(*in.ActivityDate)
		a.ActivityDate = &d
	}
	return a
}

// templateFromActivity maps a stored row onto the scheduling view. Rows with
// inconsistent anchor fields come out with a nil anchor; the resolver reports
// and skips them instead of failing the whole resolution.
func templateFromActivity(a store.Activity) schedule.Template {
	t := schedule.Template{
		ID:      a.ID,
		OwnerID: a.OwnerID,
		Name:    a.Name,
		Start:   a.StartTime,
		End:     a.EndTime,
	}
	if a.Color != nil {
		t.Color = *a.Color
	}
	switch {
	case a.IsRecurring && a.DayOfWeek != nil:
		anchor := schedule.Weekly{Day: schedule.Weekday(*a.DayOfWeek)}
		if a.RecurrenceEndDate != nil {
			anchor.Until = *a.RecurrenceEndDate
		}
		t.Anchor = anchor
	case !a.IsRecurring && a.ActivityDate != nil:
		t.Anchor = schedule.OneOff{Date: *a.ActivityDate}
	}
	return t
}
