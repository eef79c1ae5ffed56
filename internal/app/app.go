package app

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/abrezinsky/rollart/internal/auth"
	"github.com/abrezinsky/rollart/internal/catalog"
	"github.com/abrezinsky/rollart/internal/config"
	"github.com/abrezinsky/rollart/internal/handlers"
	"github.com/abrezinsky/rollart/internal/logger"
	"github.com/abrezinsky/rollart/internal/repository"
	"github.com/abrezinsky/rollart/internal/services"
	"github.com/abrezinsky/rollart/internal/telemetry"
	"github.com/abrezinsky/rollart/internal/websocket"
	"github.com/abrezinsky/rollart/pkg/livescore"
)

// Logger is what the app needs from its logger: leveled output plus the
// HTTP request logging switch
type Logger interface {
	logger.Logger
	handlers.HTTPLogger
}

// Options carries the dependencies built outside the app
type Options struct {
	Config   *config.Config
	Auth     *auth.Auth
	StaticFS fs.FS
	// LiveScore overrides the HTTP scoreboard client
	LiveScore livescore.Client
	// Sinks are extra telemetry sinks
	Sinks []telemetry.Sink
}

// App holds all application dependencies
type App struct {
	log        Logger
	cfg        *config.Config
	repo       *repository.Repository
	hub        *websocket.Hub
	dispatcher *telemetry.Dispatcher
	settings   *services.SettingsService
	handlers   *handlers.Handlers
	closers    []io.Closer
	closeOnce  sync.Once
}

// New creates and initializes a new application instance
func New(log Logger, opts Options) (*App, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, fmt.Errorf("app: config is required")
	}
	if opts.Auth == nil {
		return nil, fmt.Errorf("app: operator auth is required")
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		return nil, err
	}
	log.Info("Element catalog loaded", "name", cat.Name(), "elements", len(cat.Elements()))

	repo, err := repository.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	client := opts.LiveScore
	if client == nil {
		client = livescore.NewHTTPClient(cfg.LiveScoreURL, log)
	}

	a := &App{log: log, cfg: cfg, repo: repo}

	a.hub = websocket.New(log)
	a.hub.Start()

	a.dispatcher = telemetry.NewDispatcher(log, cfg.EventBuffer, telemetry.NewLiveScoreSink(client), a.hub)
	a.dispatcher.SetSendTimeout(cfg.EventTimeout)
	a.connectBrokers()
	for _, s := range opts.Sinks {
		a.dispatcher.AddSink(s)
	}
	a.dispatcher.Start()
	log.Info("Telemetry sinks ready", "sinks", a.dispatcher.Sinks())

	a.settings = services.NewSettingsService(log, repo, client)
	ctx := context.Background()
	if err := a.settings.LoadLiveScoreURL(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	if cfg.BaseURL != "" {
		if err := a.settings.SetBaseURL(ctx, cfg.BaseURL); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to store base URL: %w", err)
		}
	}

	a.handlers = handlers.New(handlers.Services{
		Session:  services.NewSessionService(log, repo),
		Category: services.NewCategoryService(log, repo, cat, a.dispatcher),
		Skater:   services.NewSkaterService(log, repo),
		Program:  services.NewProgramService(log, repo, cat, a.dispatcher),
		Results:  services.NewResultsService(log, repo),
		Settings: a.settings,
	}, opts.StaticFS, opts.Auth, a.hub, log)

	return a, nil
}

// loadCatalog reads the catalog file, or the built-in catalog when no path
// is configured
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	cat, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog %s: %w", path, err)
	}
	return cat, nil
}

// connectBrokers adds the optional AMQP and Redis sinks. A broker that
// cannot be reached is logged and left out.
func (a *App) connectBrokers() {
	if a.cfg.AMQPURL != "" {
		sink, err := telemetry.DialAMQP(a.cfg.AMQPURL, a.cfg.AMQPQueue)
		if err != nil {
			a.log.Warn("AMQP sink disabled", "error", err)
		} else {
			a.dispatcher.AddSink(sink)
			a.closers = append(a.closers, sink)
		}
	}
	if a.cfg.RedisAddr != "" {
		client, err := telemetry.NewRedisClient(a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
		if err != nil {
			a.log.Warn("Redis sink disabled", "error", err)
		} else {
			a.dispatcher.AddSink(telemetry.NewRedisSink(client, a.cfg.RedisKey, a.cfg.RedisChannel))
			a.closers = append(a.closers, client)
		}
	}
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close drains pending telemetry and releases broker and database handles
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.dispatcher.Close()
		a.hub.Stop()
		for _, c := range a.closers {
			if err := c.Close(); err != nil {
				a.log.Warn("Failed to close telemetry connection", "error", err)
			}
		}
		if err := a.repo.Close(); err != nil {
			a.log.Warn("Failed to close database", "error", err)
		}
	})
}

// Run serves HTTP until ctx is cancelled, then shuts the server down
func (a *App) Run(ctx context.Context, addr string) error {
	baseURL := fmt.Sprintf("http://%s%s", getPreferredIP(realNetworkProvider{}), addr)
	a.setDefaultBaseURL(baseURL)

	server := &http.Server{
		Addr:              addr,
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	a.log.Info("Server starting", "url", baseURL)
	a.log.Info("Scoreboard URL", "url", baseURL+"/scoreboard")

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	a.log.Info("Shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server shutdown: %w", err)
	}
	a.log.Info("Server stopped")
	return nil
}

// setDefaultBaseURL stores the detected LAN address as base URL when none
// is configured or the stored one points at localhost, which is useless on
// a spectator's phone
func (a *App) setDefaultBaseURL(baseURL string) {
	ctx := context.Background()
	existing, err := a.settings.GetBaseURL(ctx)
	if err != nil {
		a.log.Warn("Failed to read base URL", "error", err)
		return
	}
	if existing != "" && !isLocalhost(existing) {
		return
	}
	if err := a.settings.SetBaseURL(ctx, baseURL); err != nil {
		a.log.Warn("Failed to set default base URL", "error", err)
		return
	}
	a.log.Info("Default base URL set", "url", baseURL)
}
