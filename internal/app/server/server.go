package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/employee"
	"hrms/internal/platform/config"
	"hrms/internal/platform/metrics"
	"hrms/internal/platform/storage"
)

type App struct {
	Config  config.Config
	Log     *slog.Logger
	Backend storage.Backend
	Store   *employee.Store
	Router  http.Handler
	closeFn func()
}

// New opens the configured backend and builds the router. Close releases the
// backend.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if logger == nil {
		logger = NewLogger(cfg.LogLevel)
	}

	backend, closeFn, err := storage.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	var collector *metrics.Collector
	opts := employee.Options{Key: cfg.StorageKey, Strict: cfg.StoreStrict}
	if cfg.MetricsEnabled {
		collector = metrics.New()
		opts.Recorder = collector
	}
	store := employee.NewStore(backend, logger.With("component", "store"), opts)

	var authSvc *auth.Service
	if cfg.AuthEnabled() {
		authSvc = auth.NewService(cfg.JWTSecret, auth.Operator{
			Email:        cfg.OperatorEmail,
			PasswordHash: cfg.OperatorPasswordHash,
		}, cfg.TokenTTL)
	}

	router := NewRouter(Deps{
		Config:  cfg,
		Log:     logger,
		Backend: backend,
		Service: employee.NewService(store),
		Auth:    authSvc,
		Metrics: collector,
	})

	return &App{
		Config:  cfg,
		Log:     logger,
		Backend: backend,
		Store:   store,
		Router:  router,
		closeFn: closeFn,
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}

// NewLogger returns a JSON slog logger on stderr at the named level.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// Run serves until SIGINT or SIGTERM. HRMS_CONFIG names an optional YAML file.
func Run() {
	cfg, err := config.LoadFile(os.Getenv("HRMS_CONFIG"))
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	logger := NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HRMS server listening", "addr", cfg.Addr, "storage", cfg.StorageDriver, "auth", cfg.AuthEnabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Close()
			log.Fatalf("server failed: %v", err)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("graceful shutdown failed", "err", err)
		}
	}
}

type spaHandler struct {
	staticPath string
	indexPath  string
}

func (h spaHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}

	path := filepath.Join(h.staticPath, filepath.Clean("/"+r.URL.Path))
	info, err := os.Stat(path)
	if err == nil && !info.IsDir() {
		http.FileServer(http.Dir(h.staticPath)).ServeHTTP(w, r)
		return
	}

	if err == nil || os.IsNotExist(err) {
		http.ServeFile(w, r, filepath.Join(h.staticPath, h.indexPath))
		return
	}

	http.NotFound(w, r)
}
