package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/example/weekplan/internal/http/errors"
	"github.com/example/weekplan/internal/planner"
	"github.com/example/weekplan/internal/schedule"
	"github.com/example/weekplan/internal/store"
)

type activityRequest struct {
	Name              string  `json:"name" validate:"required,max=120"`
	Color             string  `json:"color" validate:"omitempty,max=32"`
	IsRecurring       bool    `json:"isRecurring"`
	DayOfWeek         *string `json:"dayOfWeek" validate:"omitempty,oneof=monday tuesday wednesday thursday friday saturday sunday"`
	ActivityDate      *string `json:"activityDate" validate:"omitempty,datetime=2006-01-02"`
	StartTime         string  `json:"startTime" validate:"required"`
	EndTime           string  `json:"endTime" validate:"required"`
	RecurrenceEndDate *string `json:"recurrenceEndDate" validate:"omitempty,datetime=2006-01-02"`
}

func (req activityRequest) toInput() (planner.ActivityInput, error) {
	in := planner.ActivityInput{
		Name:        req.Name,
		Color:       req.Color,
		IsRecurring: req.IsRecurring,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
	if req.DayOfWeek != nil {
		day, ok := schedule.ParseWeekday(*req.DayOfWeek)
		if !ok {
			return in, &planner.ValidationError{Field: "dayOfWeek", Msg: "unknown day"}
		}
		in.DayOfWeek = &day
	}
	if req.ActivityDate != nil {
		date, ok := schedule.ParseDate(*req.ActivityDate)
		if !ok {
			return in, &planner.ValidationError{Field: "activityDate", Msg: "must be YYYY-MM-DD"}
		}
		in.ActivityDate = &date
	}
	if req.RecurrenceEndDate != nil {
		date, ok := schedule.ParseDate(*req.RecurrenceEndDate)
		if !ok {
			return in, &planner.ValidationError{Field: "recurrenceEndDate", Msg: "must be YYYY-MM-DD"}
		}
		in.RecurrenceEndDate = &date
	}
	return in, nil
}

type activityResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	Color             string  `json:"color,omitempty"`
	IsRecurring       bool    `json:"isRecurring"`
	DayOfWeek         *string `json:"dayOfWeek,omitempty"`
	ActivityDate      *string `json:"activityDate,omitempty"`
	StartTime         string  `json:"startTime"`
	EndTime           string  `json:"endTime"`
	RecurrenceEndDate *string `json:"recurrenceEndDate,omitempty"`
}

func toActivityResponse(a *store.Activity) activityResponse {
	resp := activityResponse{
		ID:          a.ID,
		Name:        a.Name,
		IsRecurring: a.IsRecurring,
		StartTime:   a.StartTime,
		EndTime:     a.EndTime,
	}
	if a.Color != nil {
		resp.Color = *a.Color
	}
	if a.DayOfWeek != nil {
		day := schedule.Weekday(*a.DayOfWeek).String()
		resp.DayOfWeek = &day
	}
	if a.ActivityDate != nil {
		date := schedule.FormatDate(*a.ActivityDate)
		resp.ActivityDate = &date
	}
	if a.RecurrenceEndDate != nil {
		date := schedule.FormatDate(*a.RecurrenceEndDate)
		resp.RecurrenceEndDate = &date
	}
	return resp
}

type conflictResponse struct {
	Message    string `json:"message"`
	ActivityID string `json:"activityId"`
	Name       string `json:"name"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

func toConflictResponse(c *schedule.Conflict) conflictResponse {
	return conflictResponse{
		Message:    c.Message,
		ActivityID: c.ActivityID,
		Name:       c.Name,
		StartTime:  c.Start,
		EndTime:    c.End,
	}
}

// ListActivities returns the owner's stored templates (not occurrences).
func (h *Handler) ListActivities(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	activities, err := h.store.Activities.ListByOwner(r.Context(), user.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	out := make([]activityResponse, 0, len(activities))
	for i := range activities {
		out = append(out, toActivityResponse(&activities[i]))
	}
	httperrors.JSON(w, http.StatusOK, out)
}

// CreateActivity validates a candidate activity, runs the conflict gate, and
// persists it. Conflicts come back as 409 with the structured report.
func (h *Handler) CreateActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	user := currentUser(r)
	created, conflict, err := h.planner.CreateActivity(r.Context(), user.ID, in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if conflict != nil {
		httperrors.JSON(w, http.StatusConflict, map[string]any{"conflict": toConflictResponse(conflict)})
		return
	}
	httperrors.JSON(w, http.StatusCreated, toActivityResponse(created))
}

// UpdateActivity re-validates and re-runs the conflict gate on edit.
func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	user := currentUser(r)
	updated, conflict, err := h.planner.UpdateActivity(r.Context(), user.ID, chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if conflict != nil {
		httperrors.JSON(w, http.StatusConflict, map[string]any{"conflict": toConflictResponse(conflict)})
		return
	}
	httperrors.JSON(w, http.StatusOK, toActivityResponse(updated))
}

// DeleteActivity removes an activity and its exceptions.
func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if err := h.planner.DeleteActivity(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CheckConflict is the dry-run variant of the conflict gate, used for inline
// validation while the user edits the form.
func (h *Handler) CheckConflict(w http.ResponseWriter, r *http.Request) {
	var req struct {
		activityRequest
		ExcludeID string `json:"excludeId"`
	}
	if !h.decodeJSON(w, r, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	user := currentUser(r)
	conflict, err := h.planner.CheckConflict(r.Context(), user.ID, in, req.ExcludeID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if conflict != nil {
		httperrors.JSON(w, http.StatusOK, map[string]any{"conflict": toConflictResponse(conflict)})
		return
	}
	httperrors.JSON(w, http.StatusOK, map[string]any{"conflict": nil})
}
