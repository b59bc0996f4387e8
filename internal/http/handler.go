package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/example/weekplan/internal/auth"
	"github.com/example/weekplan/internal/config"
	httperrors "github.com/example/weekplan/internal/http/errors"
	"github.com/example/weekplan/internal/planner"
	"github.com/example/weekplan/internal/store"
)

// Handler serves the JSON API consumed by the web and mobile clients.
type Handler struct {
	cfg         *config.Config
	store       *store.Store
	planner     *planner.Service
	authService *auth.Service
	validate    *validator.Validate
}

func NewHandler(cfg *config.Config, st *store.Store, pl *planner.Service, authService *auth.Service) *Handler {
	return &Handler{
		cfg:         cfg,
		store:       st,
		planner:     pl,
		authService: authService,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// decodeJSON parses and validates a request body into dst. A false return
// means the response has already been written.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		httperrors.ErrorJSON(w, http.StatusBadRequest, "invalid json body")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0]
			httperrors.ErrorJSON(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("invalid field %q (%s)", field.Field(), field.Tag()))
			return false
		}
		httperrors.ErrorJSON(w, http.StatusUnprocessableEntity, "invalid request")
		return false
	}
	return true
}

// writeServiceError maps planner/store errors onto API statuses.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *planner.ValidationError
	switch {
	case errors.As(err, &verr):
		httperrors.ErrorJSON(w, http.StatusUnprocessableEntity, verr.Error())
	case errors.Is(err, store.ErrNotFound):
		httperrors.ErrorJSON(w, http.StatusNotFound, "not found")
	default:
		httperrors.LogError(r, "request failed", err)
		httperrors.ErrorJSON(w, http.StatusInternalServerError, "internal server error")
	}
}

func currentUser(r *http.Request) *store.User {
	user, _ := auth.UserFromContext(r.Context())
	return user
}

// Me returns the authenticated user.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	httperrors.JSON(w, http.StatusOK, map[string]any{
		"id":    user.ID,
		"email": user.PrimaryEmail,
	})
}
