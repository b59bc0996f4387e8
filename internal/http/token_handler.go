package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	httperrors "github.com/example/weekplan/internal/http/errors"
)

type tokenRequest struct {
	Label     string  `json:"label" validate:"required,max=64"`
	ExpiresAt *string `json:"expiresAt" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// ListTokens lists the user's app tokens without their secrets.
func (h *Handler) ListTokens(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	tokens, err := h.store.AppTokens.ListByUser(r.Context(), user.ID)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	type view struct {
		ID         int64      `json:"id"`
		Label      string     `json:"label"`
		CreatedAt  time.Time  `json:"createdAt"`
		ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
		RevokedAt  *time.Time `json:"revokedAt,omitempty"`
		LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	}
	out := make([]view, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, view{
			ID:         t.ID,
			Label:      t.Label,
			CreatedAt:  t.CreatedAt,
			ExpiresAt:  t.ExpiresAt,
			RevokedAt:  t.RevokedAt,
			LastUsedAt: t.LastUsedAt,
		})
	}
	httperrors.JSON(w, http.StatusOK, out)
}

// CreateToken mints a bearer token. The plaintext is returned exactly once.
func (h *Handler) CreateToken(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
	if !h.decodeJSON(w, r, &req) {
		return
	}

	var expiresAt *time.Time
	if req.ExpiresAt != nil {
		parsed, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			httperrors.ErrorJSON(w, http.StatusUnprocessableEntity, "expiresAt must be RFC 3339")
			return
		}
		expiresAt = &parsed
	}

	user := currentUser(r)
	plaintext, token, err := h.authService.CreateAppToken(r.Context(), user.ID, req.Label, expiresAt)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	httperrors.JSON(w, http.StatusCreated, map[string]any{
		"id":    token.ID,
		"label": token.Label,
		"token": plaintext,
	})
}

// RevokeToken invalidates a token without deleting its audit trail.
func (h *Handler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httperrors.ErrorJSON(w, http.StatusBadRequest, "invalid token id")
		return
	}

	user := currentUser(r)
	if err := h.store.AppTokens.Revoke(r.Context(), user.ID, id); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
