package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hrms/internal/domain/audit"
	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/platform/config"
	"hrms/internal/platform/metrics"
	"hrms/internal/platform/storage"
	authhandler "hrms/internal/transport/http/handlers/auth"
	employeehandler "hrms/internal/transport/http/handlers/employee"
	registrationhandler "hrms/internal/transport/http/handlers/registration"
	"hrms/internal/transport/http/middleware"
)

// Deps is everything the router needs. Auth and Metrics may be nil.
type Deps struct {
	Config  config.Config
	Log     *slog.Logger
	Backend storage.Backend
	Service *employee.Service
	Auth    *auth.Service
	Metrics *metrics.Collector
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = slog.Default()
	}

	var recorder middleware.RequestRecorder
	if d.Metrics != nil {
		recorder = d.Metrics
	}
	var verifier middleware.TokenVerifier
	if d.Auth != nil {
		verifier = d.Auth
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(log, recorder))
	router.Use(middleware.Recoverer(log))
	router.Use(middleware.SecureHeaders(d.Config.Environment == "production"))
	router.Use(middleware.BodyLimit(d.Config.MaxBodyBytes))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := storage.Ping(ctx, d.Backend); err != nil {
			log.Warn("readiness ping failed", "err", err)
			http.Error(w, "storage not ready", http.StatusServiceUnavailable)
			return
		}
		if err := d.Service.Ready(ctx); err != nil {
			log.Warn("readiness read failed", "err", err)
			http.Error(w, "employee data not readable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if d.Metrics != nil {
		router.Handle("/metrics", d.Metrics.Handler())
	}

	protect := middleware.RequireOperator(verifier)
	router.Route("/api/v1", func(r chi.Router) {
		if d.Auth != nil {
			authHandler := authhandler.NewHandler(d.Auth)
			r.With(middleware.LoginRateLimit(d.Config.LoginRateLimit, d.Config.LoginRateWindow)).
				Post("/auth/login", authHandler.HandleLogin)
		}

		employeeHandler := employeehandler.NewHandler(d.Service, audit.New(log), log)
		employeeHandler.RegisterRoutes(r, protect)

		registrationHandler := registrationhandler.NewHandler(d.Service)
		registrationHandler.RegisterRoutes(r)
	})

	router.Mount("/", spaHandler{staticPath: d.Config.FrontendDir, indexPath: "index.html"})
	return router
}
