package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"

	"github.com/example/weekplan/internal/config"
	httperrors "github.com/example/weekplan/internal/http/errors"
	"github.com/example/weekplan/internal/store"
)

const stateCookieName = "weekplan_oauth_state"

// Service encapsulates authentication: OIDC login for the browser, bearer app
// tokens for the mobile client.
type Service struct {
	cfg      *config.Config
	store    *store.Store
	sessions *SessionManager
	verifier *oidc.IDTokenVerifier
	oauth    *oauth2.Config
}

func NewService(ctx context.Context, cfg *config.Config, st *store.Store, sessions *SessionManager) (*Service, error) {
	provider, err := oidc.NewProvider(ctx, cfg.OAuth.IssuerURL)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}

	return &Service{
		cfg:      cfg,
		store:    st,
		sessions: sessions,
		verifier: provider.Verifier(&oidc.Config{ClientID: cfg.OAuth.ClientID}),
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			Endpoint:     provider.Endpoint(),
			RedirectURL:  strings.TrimRight(cfg.BaseURL, "/") + cfg.OAuth.RedirectPath,
			Scopes:       []string{oidc.ScopeOpenID, "email", "profile"},
		},
	}, nil
}

// BeginOAuth starts the authorization code flow.
func (s *Service) BeginOAuth(w http.ResponseWriter, r *http.Request) {
	state, err := randomToken(16)
	if err != nil {
		httperrors.InternalError(w, r, err, "failed to generate oauth state")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, s.oauth.AuthCodeURL(state), http.StatusFound)
}

// HandleOAuthCallback completes the flow: verifies state, exchanges the code,
// validates the ID token, upserts the user, and starts a session.
func (s *Service) HandleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		httperrors.BadRequestError(w, r, errors.New("oauth state mismatch"), "invalid oauth state")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookieName, Value: "", Path: "/", MaxAge: -1})

	token, err := s.oauth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		httperrors.InternalError(w, r, err, "oauth code exchange failed")
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		httperrors.InternalError(w, r, errors.New("no id_token in token response"), "oauth provider returned no identity")
		return
	}
	idToken, err := s.verifier.Verify(r.Context(), rawIDToken)
	if err != nil {
		httperrors.InternalError(w, r, err, "id token verification failed")
		return
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		httperrors.InternalError(w, r, err, "failed to parse id token claims")
		return
	}

	user, err := s.store.Users.UpsertOAuthUser(r.Context(), idToken.Subject, claims.Email)
	if err != nil {
		httperrors.InternalError(w, r, err, "failed to persist user")
		return
	}

	if err := s.startSession(w, r, user.ID); err != nil {
		httperrors.InternalError(w, r, err, "failed to start session")
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}

func (s *Service) startSession(w http.ResponseWriter, r *http.Request, userID int64) error {
	sid, err := randomToken(32)
	if err != nil {
		return err
	}
	expiresAt := time.Now().Add(sessionTTL)
	if _, err := s.store.Sessions.Create(r.Context(), store.Session{ID: sid, UserID: userID, ExpiresAt: expiresAt}); err != nil {
		return err
	}
	return s.sessions.Issue(w, sid, expiresAt)
}

// Logout revokes the current session and clears the cookie.
func (s *Service) Logout(w http.ResponseWriter, r *http.Request) {
	if sid := SessionIDFromContext(r.Context()); sid != "" {
		if err := s.store.Sessions.Revoke(r.Context(), sid); err != nil && !errors.Is(err, store.ErrNotFound) {
			httperrors.LogError(r, "failed to revoke session", err)
		}
	}
	s.sessions.Clear(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

// RequireSession loads the user behind the session cookie or rejects with
// 401.
func (s *Service) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, sid, ok := s.userFromSession(r)
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		ctx := WithSessionID(WithUser(r.Context(), user), sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser accepts either a browser session or a bearer app token, so the
// same API serves the web UI and the mobile client.
func (s *Service) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
			user, err := s.validateAppToken(r.Context(), strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				http.Error(w, "invalid credentials", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
			return
		}

		user, sid, ok := s.userFromSession(r)
		if !ok {
			http.Error(w, "authentication required", http.StatusUnauthorized)
			return
		}
		ctx := WithSessionID(WithUser(r.Context(), user), sid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Service) userFromSession(r *http.Request) (*store.User, string, bool) {
	sid, ok := s.sessions.CurrentSessionID(r)
	if !ok {
		return nil, "", false
	}
	session, err := s.store.Sessions.GetByID(r.Context(), sid)
	if err != nil {
		return nil, "", false
	}
	if session.RevokedAt != nil || session.ExpiresAt.Before(time.Now()) {
		return nil, "", false
	}
	user, err := s.store.Users.GetByID(r.Context(), session.UserID)
	if err != nil {
		return nil, "", false
	}
	return user, sid, true
}

// CreateAppToken mints a bearer token for the mobile client. The plaintext
// "<id>.<secret>" form is returned exactly once; only a bcrypt hash is
// stored.
func (s *Service) CreateAppToken(ctx context.Context, userID int64, label string, expiresAt *time.Time) (string, *store.AppToken, error) {
	secret, err := randomToken(24)
	if err != nil {
		return "", nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	token, err := s.store.AppTokens.Create(ctx, store.AppToken{
		UserID:    userID,
		Label:     label,
		TokenHash: string(hash),
		ExpiresAt: expiresAt,
	})
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%d.%s", token.ID, secret), token, nil
}

func (s *Service) validateAppToken(ctx context.Context, plaintext string) (*store.User, error) {
	idStr, secret, found := strings.Cut(plaintext, ".")
	if !found {
		return nil, errors.New("malformed token")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, errors.New("malformed token id")
	}

	token, err := s.store.AppTokens.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if token.RevokedAt != nil {
		return nil, errors.New("token revoked")
	}
	if token.ExpiresAt != nil && token.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("token expired")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(token.TokenHash), []byte(secret)); err != nil {
		return nil, errors.New("token mismatch")
	}

	if err := s.store.AppTokens.TouchLastUsed(ctx, token.ID); err != nil {
		// Best effort; an untouched last_used_at must not fail auth.
		httperrors.LogErrorCtx(ctx, "failed to touch app token", err)
	}
	return s.store.Users.GetByID(ctx, token.UserID)
}

func randomToken(bytes int) (string, error) {
	buf := make([]byte, bytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
