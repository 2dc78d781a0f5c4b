package service

import (
	"context"
	"sync"
	"time"

	"github.com/bep/debounce"

	"canvasboard/internal/domain"
)

// ─────────────────────────────────────────────────────────────
// DebouncedSaver — coalesces bursts of canvas saves
// ─────────────────────────────────────────────────────────────

type pendingSave struct {
	tenant domain.Tenant
	state  domain.CanvasState
}

// DebouncedSaver holds at most one pending save. Each Schedule replaces the
// pending state and restarts the delay; when the delay elapses only the last
// scheduled state is written.
type DebouncedSaver struct {
	states    *CanvasStateService
	debounced func(f func())

	mu      sync.Mutex
	pending *pendingSave

	// writeMu orders timer writes against Flush so the newest state
	// always lands last.
	writeMu sync.Mutex
}

func NewDebouncedSaver(states *CanvasStateService, delay time.Duration) *DebouncedSaver {
	return &DebouncedSaver{
		states:    states,
		debounced: debounce.New(delay),
	}
}

// Schedule queues state for tenant t, replacing any pending save.
func (d *DebouncedSaver) Schedule(t domain.Tenant, state domain.CanvasState) {
	p := &pendingSave{tenant: t, state: cloneState(state)}
	d.mu.Lock()
	d.pending = p
	d.mu.Unlock()
	d.debounced(d.fire)
}

// Pending reports whether a save is waiting for its delay to elapse.
func (d *DebouncedSaver) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

// FlushPending writes the pending state now, if any, and reports whether a
// write landed.
func (d *DebouncedSaver) FlushPending(ctx context.Context) bool {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	p := d.take()
	if p == nil {
		return false
	}
	return d.states.Save(ctx, p.tenant, p.state)
}

// Flush discards any pending save and writes state for t immediately.
// Safe to call with nothing pending.
func (d *DebouncedSaver) Flush(ctx context.Context, t domain.Tenant, state domain.CanvasState) bool {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	d.take()
	return d.states.Save(ctx, t, state)
}

// Cancel discards the pending save without writing it. Safe to call with
// nothing pending.
func (d *DebouncedSaver) Cancel() {
	d.take()
}

// Clear discards the pending save and deletes the stored state for t. A
// timer write already in progress completes before the delete.
func (d *DebouncedSaver) Clear(ctx context.Context, t domain.Tenant) {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	d.take()
	d.states.Clear(ctx, t)
}

// fire runs on the debounce timer. The timer itself keeps running after
// Cancel or Flush; with nothing pending it does nothing.
func (d *DebouncedSaver) fire() {
	d.writeMu.Lock()
	defer d.writeMu.Unlock()
	p := d.take()
	if p == nil {
		return
	}
	d.states.Save(context.Background(), p.tenant, p.state)
}

func (d *DebouncedSaver) take() *pendingSave {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.pending
	d.pending = nil
	return p
}

func cloneState(s domain.CanvasState) domain.CanvasState {
	s.Widgets = append([]domain.WidgetState(nil), s.Widgets...)
	s.Avatars = append([]domain.AvatarState(nil), s.Avatars...)
	return s
}
