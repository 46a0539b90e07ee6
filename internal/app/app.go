// ABOUTME: Wires configuration, logging, identity, session and API client together
// ABOUTME: Owns startup (session restore) and orderly shutdown for CLI and TUI

package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/Bryanads/thecheck-frontend-app/internal/cache"
	"github.com/Bryanads/thecheck-frontend-app/internal/client"
	"github.com/Bryanads/thecheck-frontend-app/internal/config"
	"github.com/Bryanads/thecheck-frontend-app/internal/identity"
	"github.com/Bryanads/thecheck-frontend-app/internal/logger"
	"github.com/Bryanads/thecheck-frontend-app/internal/models"
	"github.com/Bryanads/thecheck-frontend-app/internal/session"
)

// DebugLogName is the log file the TUI writes to inside the config dir
const DebugLogName = "debug.log"

// Options are the command-line overrides applied on top of loaded config
type Options struct {
	ConfigFile string
	APIURL     string
	// LogToFile sends logs to <config dir>/debug.log unless LOG_FILE is set
	LogToFile bool
	// EnvFiles is passed to config.Load
	EnvFiles []string
	// HTTPClient overrides the transport for both backends, for tests
	HTTPClient *http.Client
}

// App holds the long-lived components of one process
type App struct {
	Config   *config.Config
	Log      *slog.Logger
	Identity identity.Provider
	Sessions *session.Manager
	Client   *client.Client
}

// Open loads configuration and builds every component. The persisted
// session, if any, is restored before Open returns.
func Open(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.Load(config.Options{ConfigFile: opts.ConfigFile, EnvFiles: opts.EnvFiles})
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	if opts.APIURL != "" {
		cfg.APIURL = opts.APIURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	logFile := cfg.LogFile
	if logFile == "" && opts.LogToFile && cfg.ConfigDir != "" {
		logFile = filepath.Join(cfg.ConfigDir, DebugLogName)
	}
	log, err := logger.Init(logger.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: logFile})
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	store, err := cache.Open(ctx, cfg)
	if err != nil {
		logger.Close()
		return nil, fmt.Errorf("opening %s cache: %w", cfg.CacheBackend, err)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	provider := identity.New(cfg, httpClient)

	var sessionStore session.Store
	if cfg.PersistSession && cfg.ConfigDir != "" {
		sessionStore = session.NewFileStore(cfg.ConfigDir)
	}
	sessions := session.NewManager(provider, session.Options{
		Store:         sessionStore,
		Logger:        log,
		RefreshLeeway: cfg.RefreshLeeway,
	})

	c := client.New(sessions, client.Options{
		BaseURL:    cfg.APIURL,
		HTTPClient: httpClient,
		Timeout:    cfg.Timeout,
		Store:      store,
		Freshness:  cfg.Freshness,
		Retention:  cfg.CacheRetention,
		Logger:     log,
	})
	sessions.SetProfileSource(func(ctx context.Context) (*models.Profile, error) {
		return c.Profile(ctx)
	})

	a := &App{Config: cfg, Log: log, Identity: provider, Sessions: sessions, Client: c}
	if err := sessions.Init(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("restoring session: %w", err)
	}

	log.Debug("Application started",
		"api_url", cfg.APIURL,
		"identity", provider.Name(),
		"cache", cfg.CacheBackend)
	return a, nil
}

// Close waits up to the request timeout for background refreshes, then
// stops the client and releases the cache and log file
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Timeout)
	defer cancel()
	err := a.Client.Shutdown(ctx)
	a.Sessions.Dispose()
	logger.Close()
	return err
}
