package httpserver

import (
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/example/weekplan/internal/http/errors"
	"github.com/example/weekplan/internal/schedule"
	"github.com/example/weekplan/internal/store"
)

type occurrenceResponse struct {
	ActivityID  string `json:"activityId"`
	Name        string `json:"name"`
	Color       string `json:"color,omitempty"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	IsRecurring bool   `json:"isRecurring"`
}

func toOccurrenceResponses(occurrences []schedule.Occurrence) []occurrenceResponse {
	// The resolver leaves ordering to the caller; the grids want days in
	// order and start-time order within a day.
	sort.Slice(occurrences, func(i, j int) bool {
		if !occurrences[i].Date.Equal(occurrences[j].Date) {
			return occurrences[i].Date.Before(occurrences[j].Date)
		}
		si, _ := schedule.ParseClock(occurrences[i].Start)
		sj, _ := schedule.ParseClock(occurrences[j].Start)
		if si != sj {
			return si < sj
		}
		return occurrences[i].Template.Name < occurrences[j].Template.Name
	})

	out := make([]occurrenceResponse, 0, len(occurrences))
	for _, occ := range occurrences {
		_, recurring := occ.Template.Anchor.(schedule.Weekly)
		out = append(out, occurrenceResponse{
			ActivityID:  occ.Template.ID,
			Name:        occ.Template.Name,
			Color:       occ.Template.Color,
			Date:        schedule.FormatDate(occ.Date),
			StartTime:   occ.Start,
			EndTime:     occ.End,
			IsRecurring: recurring,
		})
	}
	return out
}

// GetWeek resolves the Monday-starting week at ?offset=N (0 = current week).
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	offset := 0
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			httperrors.ErrorJSON(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		offset = parsed
	}

	user := currentUser(r)
	occurrences, err := h.planner.ResolveWeek(r.Context(), user.ID, offset)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httperrors.JSON(w, http.StatusOK, toOccurrenceResponses(occurrences))
}

// GetRange resolves an arbitrary inclusive ?start=YYYY-MM-DD&end=YYYY-MM-DD
// range.
func (h *Handler) GetRange(w http.ResponseWriter, r *http.Request) {
	start, ok := schedule.ParseDate(r.URL.Query().Get("start"))
	if !ok {
		httperrors.ErrorJSON(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
		return
	}
	end, ok := schedule.ParseDate(r.URL.Query().Get("end"))
	if !ok {
		httperrors.ErrorJSON(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
		return
	}
	if end.Before(start) {
		httperrors.ErrorJSON(w, http.StatusBadRequest, "end must not be before start")
		return
	}

	user := currentUser(r)
	occurrences, err := h.planner.ResolveRange(r.Context(), user.ID, start, end)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httperrors.JSON(w, http.StatusOK, toOccurrenceResponses(occurrences))
}

type skipRequest struct {
	Weeks int     `json:"weeks" validate:"required,min=1,max=52"`
	From  *string `json:"from" validate:"omitempty,datetime=2006-01-02"`
}

type exceptionResponse struct {
	ID            string `json:"id"`
	ActivityID    string `json:"activityId"`
	ExceptionDate string `json:"exceptionDate"`
	ExceptionType string `json:"exceptionType"`
}

func toExceptionResponses(exceptions []store.ActivityException) []exceptionResponse {
	out := make([]exceptionResponse, 0, len(exceptions))
	for _, e := range exceptions {
		out = append(out, exceptionResponse{
			ID:            e.ID,
			ActivityID:    e.ActivityID,
			ExceptionDate: schedule.FormatDate(e.ExceptionDate),
			ExceptionType: e.ExceptionType,
		})
	}
	return out
}

// SkipActivity cancels the next N weekly occurrences of a recurring
// activity. The response lists only the exceptions actually created, so a
// retried request returns an empty list.
func (h *Handler) SkipActivity(w http.ResponseWriter, r *http.Request) {
	var req skipRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	from := time.Time{}
	if req.From != nil {
		parsed, ok := schedule.ParseDate(*req.From)
		if !ok {
			httperrors.ErrorJSON(w, http.StatusUnprocessableEntity, "from must be YYYY-MM-DD")
			return
		}
		from = parsed
	}

	user := currentUser(r)
	created, err := h.planner.SkipOccurrences(r.Context(), user.ID, chi.URLParam(r, "id"), req.Weeks, from)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httperrors.JSON(w, http.StatusCreated, map[string]any{"created": toExceptionResponses(created)})
}

// UnskipActivity removes the exception for one date, restoring the
// occurrence.
func (h *Handler) UnskipActivity(w http.ResponseWriter, r *http.Request) {
	date, ok := schedule.ParseDate(chi.URLParam(r, "date"))
	if !ok {
		httperrors.ErrorJSON(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	user := currentUser(r)
	if err := h.planner.UnskipOccurrence(r.Context(), user.ID, chi.URLParam(r, "id"), date); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
