package service

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
)

// ─────────────────────────────────────────────────────────────
// EventEmitter — decouples services from the presentation layer
// ─────────────────────────────────────────────────────────────

// EventEmitter is an interface for emitting canvas events to whatever
// front end is attached (MCP notifications, logs, tests).
type EventEmitter interface {
	Emit(ctx context.Context, event string, data any)
}

const (
	EventStateSaved    = "canvas:state-saved"
	EventStateCleared  = "canvas:state-cleared"
	EventWidgetDropped = "canvas:widget-dropped"
)

// NoopEmitter discards every event.
type NoopEmitter struct{}

func (NoopEmitter) Emit(context.Context, string, any) {}

// MockEmitter is a test-friendly EventEmitter that records all calls.
// Debounced saves emit from timer goroutines, so access is synchronized.
type MockEmitter struct {
	mu     sync.Mutex
	Events []EmittedEvent
}

// EmittedEvent holds a single recorded emission for test assertions.
type EmittedEvent struct {
	Event string
	Data  any
}

func (m *MockEmitter) Emit(_ context.Context, event string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmittedEvent{Event: event, Data: data})
}

// Count returns how many times event was emitted.
func (m *MockEmitter) Count(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// LogEmitter writes events to a logger at debug level. Used when no
// front end is attached (MCP stdio mode, CLI).
type LogEmitter struct {
	Logger *log.Logger
}

func (e LogEmitter) Emit(_ context.Context, event string, data any) {
	if e.Logger == nil {
		return
	}
	e.Logger.Debug("event", "name", event, "data", data)
}
