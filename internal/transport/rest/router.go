package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/frahmantamala/simmas/internal/auth"
	"github.com/frahmantamala/simmas/internal/dudi"
	"github.com/frahmantamala/simmas/internal/logbook"
	"github.com/frahmantamala/simmas/internal/magang"
	"github.com/frahmantamala/simmas/internal/stats"
	"github.com/frahmantamala/simmas/internal/transport/middleware"
	"github.com/frahmantamala/simmas/internal/transport/swagger"
	"github.com/frahmantamala/simmas/internal/user"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers groups everything the router mounts. Nil feature handlers are
// skipped so tests can mount a subset.
type Handlers struct {
	DB      Pinger
	Auth    *auth.Handler
	AuthMW  *auth.Middleware
	User    *user.Handler
	Magang  *magang.Handler
	Logbook *logbook.Handler
	Dudi    *dudi.Handler
	Stats   *stats.Handler

	LoginLimiter   *middleware.RateLimiter
	Metrics        *middleware.HTTPMetrics
	MetricsPath    string
	AllowedOrigins []string
	OpenAPIPath    string
	RequestTimeout time.Duration
	Logger         *slog.Logger
}

func RegisterAllRoutes(router *chi.Mux, h Handlers) {
	healthHandler := NewHealthHandler(h.DB)

	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(h.Logger))
	router.Use(middleware.SecurityHeaders)
	router.Use(middleware.CORS(h.AllowedOrigins))
	if h.Metrics != nil {
		router.Use(h.Metrics.Instrument)
	}
	router.Use(middleware.LoggingMiddleware(h.Logger))
	if h.RequestTimeout > 0 {
		router.Use(chiMiddleware.Timeout(h.RequestTimeout))
	}
	router.Use(h.AuthMW.Authenticate)

	if h.OpenAPIPath != "" {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, h.OpenAPIPath)
		})
		router.Handle("/swagger/*", swagger.Handler())
	}
	if h.Metrics != nil && h.MetricsPath != "" {
		router.Handle(h.MetricsPath, h.Metrics.Handler())
	}

	router.Route("/api/auth", func(r chi.Router) {
		r.Group(func(lr chi.Router) {
			if h.LoginLimiter != nil {
				lr.Use(h.LoginLimiter.Middleware)
			}
			lr.Post("/login", h.Auth.Login)
		})
		r.Post("/logout", h.Auth.Logout)
		r.With(h.AuthMW.RequireRoles()).Get("/me", h.Auth.Me)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Group(func(pr chi.Router) {
			pr.Use(h.AuthMW.RequireRoles())

			if h.User != nil {
				pr.Get("/users/me", h.User.GetCurrentUser)
			}

			if h.Dudi != nil {
				pr.Route("/dudi", func(dr chi.Router) {
					dr.Get("/", h.Dudi.List)
					dr.Get("/{id}", h.Dudi.Get)
					dr.With(h.AuthMW.RequireRoles(auth.RoleAdmin)).Post("/", h.Dudi.Create)
					dr.With(h.AuthMW.RequireRoles(auth.RoleAdmin)).Patch("/{id}", h.Dudi.Update)
				})
			}

			if h.Magang != nil {
				pr.Route("/magang", func(mr chi.Router) {
					mr.With(h.AuthMW.RequireRoles(auth.RoleSiswa)).Post("/", h.Magang.Create)
					mr.Get("/", h.Magang.List)
					mr.Get("/{id}", h.Magang.Get)
					mr.With(h.AuthMW.RequireRoles(auth.RoleGuru)).Post("/{id}/transitions", h.Magang.Transition)

					if h.Logbook != nil {
						mr.With(h.AuthMW.RequireRoles(auth.RoleSiswa)).Post("/{id}/logbook", h.Logbook.Submit)
						mr.Get("/{id}/logbook", h.Logbook.List)
					}
				})
			}

			if h.Logbook != nil {
				pr.With(h.AuthMW.RequireRoles(auth.RoleGuru)).Post("/logbook/{id}/verify", h.Logbook.Verify)
			}

			if h.Stats != nil {
				pr.With(h.AuthMW.RequireRoles(auth.RoleAdmin)).Get("/admin/stats", h.Stats.GetStats)
			}
		})
	})
}
