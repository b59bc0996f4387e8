package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"github.com/example/weekplan/internal/auth"
	"github.com/example/weekplan/internal/config"
	"github.com/example/weekplan/internal/http/ratelimit"
	"github.com/example/weekplan/internal/metrics"
	"github.com/example/weekplan/internal/planner"
	"github.com/example/weekplan/internal/store"
)

// NewRouter wires all HTTP routes for the planner API.
func NewRouter(cfg *config.Config, st *store.Store, pl *planner.Service, authService *auth.Service) http.Handler {
	r := chi.NewRouter()

	// Auth endpoints: 5 requests per second, burst of 10
	authRateLimiter := ratelimit.NewIPRateLimiter(rate.Limit(5), 10, 5*time.Minute, cfg.TrustedProxies)
	// API endpoints: 20 requests per second, burst of 50 (the week grid
	// refreshes on every mutation)
	apiRateLimiter := ratelimit.NewIPRateLimiter(rate.Limit(20), 50, 5*time.Minute, cfg.TrustedProxies)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware())

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := st.HealthCheck(ctx); err != nil {
			http.Error(w, "unready", http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if cfg.PrometheusEnabled {
		r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			metrics.Handler().ServeHTTP(w, r)
		})
	}

	handler := NewHandler(cfg, st, pl, authService)

	r.Route("/auth", func(r chi.Router) {
		r.Use(authRateLimiter.Middleware())
		r.Get("/login", authService.BeginOAuth)
		r.Get("/callback", authService.HandleOAuthCallback)
	})
	r.With(authService.RequireSession).Post("/auth/logout", authService.Logout)

	r.Route("/api", func(r chi.Router) {
		r.Use(apiRateLimiter.Middleware())
		r.Use(authService.RequireUser)

		r.Get("/me", handler.Me)

		r.Get("/week", handler.GetWeek)
		r.Get("/range", handler.GetRange)

		r.Get("/activities", handler.ListActivities)
		r.Post("/activities", handler.CreateActivity)
		r.Put("/activities/{id}", handler.UpdateActivity)
		r.Delete("/activities/{id}", handler.DeleteActivity)

		r.Post("/check-conflict", handler.CheckConflict)

		r.Post("/activities/{id}/skip", handler.SkipActivity)
		r.Delete("/activities/{id}/exceptions/{date}", handler.UnskipActivity)

		r.Get("/tokens", handler.ListTokens)
		r.Post("/tokens", handler.CreateToken)
		r.Post("/tokens/{id}/revoke", handler.RevokeToken)
	})

	return r
}
