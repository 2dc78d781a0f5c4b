package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"canvasboard/internal/canvas"
	"canvasboard/internal/config"
	"canvasboard/internal/domain"
	"canvasboard/internal/layout"
	"canvasboard/internal/service"
	"canvasboard/internal/storage"
)

// ErrNoTenant is returned when a canvas is opened without both tenant ids.
var ErrNoTenant = errors.New("app: suite and office ids are required")

// App owns the storage backend and one canvas session per tenant.
type App struct {
	cfg     config.Config
	logger  *log.Logger
	emitter service.EventEmitter
	backend storage.Backend
	states  *service.CanvasStateService
	grid    layout.Grid

	mu       sync.Mutex
	sessions map[string]*Session // tenant key → session
}

// New opens the configured storage backend and builds an App on it.
func New(ctx context.Context, cfg config.Config, logger *log.Logger, emitter service.EventEmitter) (*App, error) {
	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	a, err := NewWithBackend(cfg, logger, emitter, backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	return a, nil
}

// NewWithBackend builds an App on an already opened backend.
func NewWithBackend(cfg config.Config, logger *log.Logger, emitter service.EventEmitter, backend storage.Backend) (*App, error) {
	grid, err := layout.NewGrid(cfg.Canvas.GridSize)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	if emitter == nil {
		emitter = service.LogEmitter{Logger: logger}
	}
	states := service.NewCanvasStateService(backend, emitter, logger, service.StateOptions{
		Prefix:     cfg.Canvas.StoragePrefix,
		MaxWidgets: cfg.Canvas.MaxWidgets,
		MaxAvatars: cfg.Canvas.MaxAvatars,
	})
	return &App{
		cfg:      cfg,
		logger:   logger,
		emitter:  emitter,
		backend:  backend,
		states:   states,
		grid:     grid,
		sessions: make(map[string]*Session),
	}, nil
}

// States exposes the persistence service for commands that bypass sessions.
func (a *App) States() *service.CanvasStateService {
	return a.states
}

// OpenCanvas returns the session for t, loading its persisted state the
// first time the tenant is opened.
func (a *App) OpenCanvas(ctx context.Context, t domain.Tenant) (*Session, error) {
	if !t.Valid() {
		return nil, ErrNoTenant
	}
	key := a.states.Key(t)

	a.mu.Lock()
	defer a.mu.Unlock()
	if s, ok := a.sessions[key]; ok {
		return s, nil
	}

	s := &Session{
		Tenant: t,
		saver:  service.NewDebouncedSaver(a.states, a.cfg.Canvas.SaveDebounce),
	}
	logger := a.logger.With("suite", t.SuiteID, "office", t.OfficeID)
	eventCtx := context.WithoutCancel(ctx)
	s.Canvas = canvas.New(
		canvas.WithGrid(a.grid),
		canvas.WithDropHandler(func(id string, p domain.Position) {
			logger.Debug("widget dropped", "widget", id, "x", p.X, "y", p.Y)
			a.emitter.Emit(eventCtx, service.EventWidgetDropped, map[string]any{
				"suiteId":  t.SuiteID,
				"officeId": t.OfficeID,
				"widgetId": id,
				"position": p,
			})
		}),
		canvas.WithChangeHandler(func() {
			s.saveMu.Lock()
			defer s.saveMu.Unlock()
			s.saver.Schedule(t, s.Canvas.Snapshot())
		}),
	)

	if state := a.states.Load(ctx, t); state != nil {
		s.Canvas.Restore(*state)
		logger.Info("canvas restored", "widgets", len(state.Widgets), "avatars", len(state.Avatars))
	} else {
		logger.Info("canvas started empty")
	}

	a.sessions[key] = s
	return s, nil
}

// Close flushes every pending save and closes the backend.
func (a *App) Close(ctx context.Context) error {
	a.mu.Lock()
	sessions := make([]*Session, 0, len(a.sessions))
	for _, s := range a.sessions {
		sessions = append(sessions, s)
	}
	a.sessions = make(map[string]*Session)
	a.mu.Unlock()

	for _, s := range sessions {
		s.saver.FlushPending(ctx)
	}
	return a.backend.Close()
}

// Session is one tenant's live canvas plus its save pipeline.
type Session struct {
	Tenant domain.Tenant
	Canvas *canvas.Canvas

	saver *service.DebouncedSaver

	// saveMu makes taking a snapshot and handing it to the saver one step,
	// so a later snapshot is never overtaken by an earlier one.
	saveMu sync.Mutex
}

// Save writes the current canvas immediately, superseding any pending
// debounced save.
func (s *Session) Save(ctx context.Context) bool {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	return s.saver.Flush(ctx, s.Tenant, s.Canvas.Snapshot())
}

// SavePending reports whether a debounced save is waiting.
func (s *Session) SavePending() bool {
	return s.saver.Pending()
}

// Clear drops the pending save, deletes the stored canvas and empties the
// live one.
func (s *Session) Clear(ctx context.Context) {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()
	s.saver.Clear(ctx, s.Tenant)
	s.Canvas.Restore(domain.CanvasState{Version: domain.CanvasSchemaVersion})
}
