package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"fyne.io/fyne/v2"

	"github.com/shhac/courier/internal/auth"
	"github.com/shhac/courier/internal/dispatch"
	"github.com/shhac/courier/internal/logging"
	"github.com/shhac/courier/internal/model"
	"github.com/shhac/courier/internal/storage"
	"github.com/shhac/courier/internal/transport"
	"github.com/shhac/courier/internal/workspace"
)

// SessionWorkspace is the saved workspace holding the open tabs between runs.
const SessionWorkspace = "session"

// App is the main application coordinator, responsible for wiring
// together all components and managing their lifecycle.
type App struct {
	fyneApp   fyne.App
	window    fyne.Window
	config    *Config
	logger    *slog.Logger
	logCloser io.Closer
	storage   storage.Repository
	state     *model.ApplicationState
	workspace *workspace.Workspace
	jar       *transport.CookieJar

	mu         sync.RWMutex
	pool       *dispatch.Pool
	dispatcher *dispatch.Dispatcher
}

// New creates a new App instance with the given configuration.
// This performs all dependency injection and wiring.
func New(fyneApp fyne.App, cfg *Config) (*App, error) {
	logger, closer, err := logging.InitLogger(logging.Options{AppName: "courier", Debug: cfg.Debug})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	a, err := NewWithLogger(fyneApp, cfg, logger)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	a.logCloser = closer
	return a, nil
}

// NewWithLogger is New with a caller-supplied logger.
func NewWithLogger(fyneApp fyne.App, cfg *Config, logger *slog.Logger) (*App, error) {
	logger.Info("initializing Courier application",
		slog.Bool("debug", cfg.Debug),
		slog.String("storage_path", cfg.StoragePath),
		slog.Duration("request_timeout", cfg.RequestTimeout),
	)

	storagePath, err := cfg.ResolvedStoragePath()
	if err != nil {
		return nil, err
	}
	repo := storage.NewJSONRepository(storagePath, logger)

	state := model.NewApplicationState()
	ws := workspace.New(SessionWorkspace, workspace.NewIDAllocator(), logger)

	saved, err := repo.LoadWorkspace(SessionWorkspace)
	switch {
	case err == nil:
		if err := ws.Restore(*saved); err != nil {
			logger.Warn("failed to restore session, starting empty", slog.Any("error", err))
			ws.Open()
		}
	case errors.Is(err, storage.ErrWorkspaceNotFound):
		ws.Open()
	default:
		logger.Warn("failed to load session, starting empty", slog.Any("error", err))
		ws.Open()
	}
	_ = state.WorkspaceName.Set(ws.Name())

	jar := transport.NewCookieJar()
	pool := dispatch.NewPool(cfg.MaxInFlight, logger)

	logger.Info("application initialized successfully", slog.Int("tabs", ws.Len()))

	return &App{
		fyneApp:    fyneApp,
		config:     cfg,
		logger:     logger,
		storage:    repo,
		state:      state,
		workspace:  ws,
		jar:        jar,
		pool:       pool,
		dispatcher: NewDispatcher(cfg, pool, jar, logger),
	}, nil
}

// NewDispatcher builds the send pipeline described by cfg on top of exec.
// A nil jar disables cookies.
func NewDispatcher(cfg *Config, exec dispatch.Executor, jar *transport.CookieJar, logger *slog.Logger) *dispatch.Dispatcher {
	opts := transport.Options{
		Timeout:         cfg.RequestTimeout,
		FollowRedirects: cfg.FollowRedirects,
	}
	if jar != nil {
		opts.Jar = jar
	}
	tr := transport.NewHTTPTransport(opts, logger)
	applier := auth.NewApplier(auth.NewSigner(nil), logger)
	return dispatch.New(tr, applier, exec, logger, dispatch.Options{
		SigningFailOpen: cfg.SigningFailOpen,
		CancelInFlight:  cfg.CancelInFlight,
	})
}

// Run starts the application and displays the main window.
// This is a blocking call that runs the Fyne event loop.
func (a *App) Run(window fyne.Window) {
	a.window = window
	a.logger.Info("starting application")
	a.window.ShowAndRun()
}

// State returns the application state for use by UI components.
func (a *App) State() *model.ApplicationState {
	return a.state
}

// Logger returns the application logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Storage returns the storage repository.
func (a *App) Storage() storage.Repository {
	return a.storage
}

// FyneApp returns the underlying Fyne application instance.
func (a *App) FyneApp() fyne.App {
	return a.fyneApp
}

// Workspace returns the open tabs.
func (a *App) Workspace() *workspace.Workspace {
	return a.workspace
}

// Dispatcher returns the current dispatcher. It changes when settings are
// applied, so callers should not hold on to it.
func (a *App) Dispatcher() *dispatch.Dispatcher {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.dispatcher
}

// Settings returns the user-editable part of the configuration.
func (a *App) Settings() model.Settings {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return model.Settings{
		RequestTimeout:  a.config.RequestTimeout,
		MaxInFlight:     a.config.MaxInFlight,
		FollowRedirects: a.config.FollowRedirects,
		CancelInFlight:  a.config.CancelInFlight,
		SigningFailOpen: a.config.SigningFailOpen,
	}
}

// ApplySettings rebuilds the send pipeline from s and persists it. Sends
// already running finish on the old pipeline.
func (a *App) ApplySettings(s model.Settings) error {
	if s.MaxInFlight < 1 {
		return fmt.Errorf("max in flight must be at least 1, got %d", s.MaxInFlight)
	}
	if s.RequestTimeout < 0 {
		return fmt.Errorf("request timeout must not be negative")
	}

	a.mu.Lock()
	a.config.RequestTimeout = s.RequestTimeout
	a.config.FollowRedirects = s.FollowRedirects
	a.config.CancelInFlight = s.CancelInFlight
	a.config.SigningFailOpen = s.SigningFailOpen

	old := a.pool
	if s.MaxInFlight != a.config.MaxInFlight {
		a.config.MaxInFlight = s.MaxInFlight
		a.pool = dispatch.NewPool(s.MaxInFlight, a.logger)
	}
	a.dispatcher = NewDispatcher(a.config, a.pool, a.jar, a.logger)
	pool := a.pool
	cfg := *a.config
	a.mu.Unlock()

	if old != pool {
		go func() {
			old.Wait()
			old.Close()
		}()
	}

	a.logger.Info("settings applied",
		slog.Duration("request_timeout", s.RequestTimeout),
		slog.Int("max_in_flight", s.MaxInFlight),
		slog.Bool("cancel_in_flight", s.CancelInFlight),
		slog.Bool("signing_fail_open", s.SigningFailOpen),
	)

	if err := SaveConfig(cfg.Path, &cfg); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	a.mu.Lock()
	a.config.Path = cfg.Path
	a.mu.Unlock()
	return nil
}

// SaveSession persists the open tabs.
func (a *App) SaveSession() error {
	saved := a.workspace.Export()
	saved.Name = SessionWorkspace
	if err := a.storage.SaveWorkspace(saved); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Shutdown saves the session, cancels running sends and closes the log.
func (a *App) Shutdown() {
	a.logger.Info("shutting down")
	if err := a.SaveSession(); err != nil {
		a.logger.Error("failed to save session", slog.Any("error", err))
	}

	a.mu.RLock()
	pool := a.pool
	a.mu.RUnlock()
	pool.Close()

	if a.logCloser != nil {
		_ = a.logCloser.Close()
	}
}
