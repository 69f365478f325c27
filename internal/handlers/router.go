package handlers

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/getshort/getshort/internal/cache"
	"github.com/getshort/getshort/internal/config"
	"github.com/getshort/getshort/internal/metrics"
	"github.com/getshort/getshort/internal/tracking"
)

// NewRouter wires the full HTTP surface: the authenticated management API,
// the public observability endpoints, and the catch-all redirect route.
func NewRouter(db *sql.DB, cfg *config.Config, urlCache *cache.URLCache, recorder *tracking.Recorder, log *logrus.Logger) http.Handler {
	urlHandler := &URLHandler{DB: db, Cfg: cfg, Cache: urlCache}
	modifierHandler := &ModifierHandler{DB: db}
	healthHandler := &HealthHandler{DB: db}
	redirectHandler := &RedirectHandler{DB: db, Cache: urlCache, Recorder: recorder, Log: log}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(metrics.Middleware)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/ready", healthHandler.Ready)
	r.Get("/health/live", healthHandler.Live)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(Auth(cfg.APIKeys))

		r.Get("/urls", urlHandler.List)
		r.Post("/urls", urlHandler.Create)
		r.Get("/urls/{id}", urlHandler.Get)
		r.Patch("/urls/{id}", urlHandler.Update)
		r.Delete("/urls/{id}", urlHandler.Delete)
		r.Get("/urls/{id}/analytics", urlHandler.Analytics)
		r.Get("/urls/{id}/qr", urlHandler.QRCode)
		r.Get("/analytics", urlHandler.UserAnalytics)

		r.Get("/modifiers", modifierHandler.List)
		r.Post("/modifiers", modifierHandler.Create)
		r.Post("/modifiers/test", modifierHandler.Test)
		r.Get("/modifiers/{id}", modifierHandler.Get)
		r.Patch("/modifiers/{id}", modifierHandler.Update)
		r.Delete("/modifiers/{id}", modifierHandler.Delete)
	})

	// Everything else is treated as a short code.
	r.NotFound(redirectHandler.ServeHTTP)

	return r
}
