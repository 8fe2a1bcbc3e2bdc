package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/slotdesk/slotdesk/internal/appointments"
	httpmiddleware "github.com/slotdesk/slotdesk/internal/http/middleware"
	"github.com/slotdesk/slotdesk/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Appointments       *appointments.Handler
	MetricsHandler     http.Handler
	AdminAuthSecret    string
	CORSAllowedOrigins []string

	// ReadyCheck, when set, backs GET /ready (503 on failure).
	ReadyCheck func(ctx context.Context) error

	// CreateLimiter, when set, throttles POST /appointments.
	CreateLimiter func(http.Handler) http.Handler
}

// New creates a Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/health", cfg.Appointments.HealthCheck)
	if cfg.ReadyCheck != nil {
		r.Get("/ready", func(w http.ResponseWriter, req *http.Request) {
			if err := cfg.ReadyCheck(req.Context()); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
			w.WriteHeader(http.StatusOK)
		})
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	r.Route("/appointments", func(r chi.Router) {
		if cfg.CreateLimiter != nil {
			r.With(cfg.CreateLimiter).Post("/", cfg.Appointments.Create)
		} else {
			r.Post("/", cfg.Appointments.Create)
		}
		r.Get("/", cfg.Appointments.List)
		r.Get("/{id}", cfg.Appointments.Get)

		// Approve/reject are staff decisions; gate them behind the admin
		// JWT when a secret is configured.
		r.Group(func(staff chi.Router) {
			if cfg.AdminAuthSecret != "" {
				staff.Use(httpmiddleware.AdminJWT(cfg.AdminAuthSecret))
			}
			staff.Put("/{id}/approve", cfg.Appointments.Approve)
			staff.Put("/{id}/reject", cfg.Appointments.Reject)
		})
	})

	return r
}
