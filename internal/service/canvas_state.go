package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"canvasboard/internal/domain"
	"canvasboard/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Canvas State Service — tenant-scoped canvas persistence
// ─────────────────────────────────────────────────────────────
//
// Storage faults, corrupt payloads and stale schema versions are expected
// in normal operation. None of them surface as errors: Save reports false,
// Load reports nil, Clear does nothing.

const (
	DefaultStoragePrefix = "canvas_state"
	DefaultMaxWidgets    = 50
	DefaultMaxAvatars    = 20
)

// StateOptions tunes a CanvasStateService. Zero fields take defaults.
type StateOptions struct {
	Prefix     string
	MaxWidgets int
	MaxAvatars int
	Now        func() time.Time
}

// CanvasStateService saves and loads one CanvasState per tenant.
type CanvasStateService struct {
	slots      storage.Slots
	emitter    EventEmitter
	logger     *log.Logger
	prefix     string
	maxWidgets int
	maxAvatars int
	now        func() time.Time
}

func NewCanvasStateService(slots storage.Slots, emitter EventEmitter, logger *log.Logger, opts StateOptions) *CanvasStateService {
	if opts.Prefix == "" {
		opts.Prefix = DefaultStoragePrefix
	}
	if opts.MaxWidgets <= 0 {
		opts.MaxWidgets = DefaultMaxWidgets
	}
	if opts.MaxAvatars <= 0 {
		opts.MaxAvatars = DefaultMaxAvatars
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if emitter == nil {
		emitter = NoopEmitter{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &CanvasStateService{
		slots:      slots,
		emitter:    emitter,
		logger:     logger.WithPrefix("canvas state"),
		prefix:     opts.Prefix,
		maxWidgets: opts.MaxWidgets,
		maxAvatars: opts.MaxAvatars,
		now:        opts.Now,
	}
}

var keyPartEscaper = strings.NewReplacer("%", "%25", "_", "%5F")

// TenantKey returns the storage key "<prefix>_<suiteId>_<officeId>".
// Underscores and percent signs inside the ids are escaped so that two
// different tenants can never share a key.
func TenantKey(prefix string, t domain.Tenant) string {
	return prefix + "_" + keyPartEscaper.Replace(t.SuiteID) + "_" + keyPartEscaper.Replace(t.OfficeID)
}

// Key returns the storage key used for t.
func (s *CanvasStateService) Key(t domain.Tenant) string {
	return TenantKey(s.prefix, t)
}

// Save validates, clamps and writes state for tenant t, stamping
// LastModified with the current time. It reports whether the write landed.
// A tenant with an empty suite or office id is ignored.
func (s *CanvasStateService) Save(ctx context.Context, t domain.Tenant, state domain.CanvasState) bool {
	if !t.Valid() {
		return false
	}
	clean := s.sanitize(state)
	clean.LastModified = s.now().UnixMilli()

	data, err := json.Marshal(clean)
	if err != nil {
		s.logger.Warn("encode failed", "suite", t.SuiteID, "office", t.OfficeID, "err", err)
		return false
	}
	if err := s.slots.Set(ctx, s.Key(t), string(data)); err != nil {
		s.logger.Warn("save failed", "suite", t.SuiteID, "office", t.OfficeID, "err", err)
		return false
	}

	s.logger.Debug("saved", "suite", t.SuiteID, "office", t.OfficeID, "widgets", len(clean.Widgets), "avatars", len(clean.Avatars))
	s.emitter.Emit(ctx, EventStateSaved, map[string]any{
		"suiteId":      t.SuiteID,
		"officeId":     t.OfficeID,
		"widgets":      len(clean.Widgets),
		"lastModified": clean.LastModified,
	})
	return true
}

// Load returns the stored state for t, or nil when nothing usable is
// stored. Individually invalid widgets and avatars are dropped. Widgets and
// Avatars are never nil, so a state saved with nil lists loads back with
// empty ones.
func (s *CanvasStateService) Load(ctx context.Context, t domain.Tenant) *domain.CanvasState {
	if !t.Valid() {
		return nil
	}
	raw, ok, err := s.slots.Get(ctx, s.Key(t))
	if err != nil {
		s.logger.Warn("load failed", "suite", t.SuiteID, "office", t.OfficeID, "err", err)
		return nil
	}
	if !ok {
		return nil
	}
	state, err := decodeCanvasState(raw)
	if err != nil {
		s.logger.Warn("discarding stored canvas", "suite", t.SuiteID, "office", t.OfficeID, "err", err)
		return nil
	}
	return state
}

// Clear removes the stored state for t.
func (s *CanvasStateService) Clear(ctx context.Context, t domain.Tenant) {
	if !t.Valid() {
		return
	}
	if err := s.slots.Delete(ctx, s.Key(t)); err != nil {
		s.logger.Warn("clear failed", "suite", t.SuiteID, "office", t.OfficeID, "err", err)
		return
	}
	s.emitter.Emit(ctx, EventStateCleared, map[string]string{"suiteId": t.SuiteID, "officeId": t.OfficeID})
}

// sanitize drops invalid entries, then truncates each list to its maximum
// keeping the first entries in slice order.
func (s *CanvasStateService) sanitize(state domain.CanvasState) domain.CanvasState {
	out := domain.CanvasState{
		Version: domain.CanvasSchemaVersion,
		Widgets: make([]domain.WidgetState, 0, len(state.Widgets)),
		Avatars: make([]domain.AvatarState, 0, len(state.Avatars)),
	}
	for _, w := range state.Widgets {
		if len(out.Widgets) == s.maxWidgets {
			break
		}
		if validWidget(w) {
			out.Widgets = append(out.Widgets, w)
		}
	}
	for _, a := range state.Avatars {
		if len(out.Avatars) == s.maxAvatars {
			break
		}
		if validAvatar(a) {
			out.Avatars = append(out.Avatars, a)
		}
	}
	return out
}

func validWidget(w domain.WidgetState) bool {
	return w.ID != "" &&
		finite(w.X) && finite(w.Y) &&
		finite(w.Width) && finite(w.Height) &&
		w.Width >= 0 && w.Height >= 0
}

func validAvatar(a domain.AvatarState) bool {
	return a.Agent != "" && finite(a.X) && finite(a.Y)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ── decoding ───────────────────────────────────────────────

type storedCanvas struct {
	Version      *int              `json:"version"`
	Widgets      []json.RawMessage `json:"widgets"`
	Avatars      []json.RawMessage `json:"avatars"`
	LastModified float64           `json:"lastModified"`
}

// storedWidget uses pointers so missing fields can be told apart from zero.
type storedWidget struct {
	ID     *string  `json:"id"`
	Type   *string  `json:"type"`
	X      *float64 `json:"x"`
	Y      *float64 `json:"y"`
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
	ZIndex *float64 `json:"zIndex"`
}

type storedAvatar struct {
	Agent *string  `json:"agent"`
	X     *float64 `json:"x"`
	Y     *float64 `json:"y"`
}

var (
	errSchemaVersion = errors.New("unsupported canvas schema version")
	errLastModified  = errors.New("lastModified is not an integral millisecond timestamp")
)

// maxTimestamp is the largest integer a JSON number carries exactly.
const maxTimestamp = 1 << 53

func decodeCanvasState(raw string) (*domain.CanvasState, error) {
	var stored storedCanvas
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return nil, err
	}
	if stored.Version == nil {
		return nil, fmt.Errorf("%w: missing", errSchemaVersion)
	}
	if *stored.Version != domain.CanvasSchemaVersion {
		return nil, fmt.Errorf("%w: %d", errSchemaVersion, *stored.Version)
	}

	lm := stored.LastModified
	if lm != math.Trunc(lm) || math.Abs(lm) > maxTimestamp {
		return nil, fmt.Errorf("%w: %v", errLastModified, lm)
	}

	state := &domain.CanvasState{
		Version:      domain.CanvasSchemaVersion,
		Widgets:      make([]domain.WidgetState, 0, len(stored.Widgets)),
		Avatars:      make([]domain.AvatarState, 0, len(stored.Avatars)),
		LastModified: int64(lm),
	}
	for _, msg := range stored.Widgets {
		if w, ok := decodeWidget(msg); ok {
			state.Widgets = append(state.Widgets, w)
		}
	}
	for _, msg := range stored.Avatars {
		if a, ok := decodeAvatar(msg); ok {
			state.Avatars = append(state.Avatars, a)
		}
	}
	return state, nil
}

func decodeWidget(msg json.RawMessage) (domain.WidgetState, bool) {
	var sw storedWidget
	if err := json.Unmarshal(msg, &sw); err != nil {
		return domain.WidgetState{}, false
	}
	if sw.ID == nil || sw.Type == nil || sw.X == nil || sw.Y == nil ||
		sw.Width == nil || sw.Height == nil || sw.ZIndex == nil {
		return domain.WidgetState{}, false
	}
	z := *sw.ZIndex
	if z != math.Trunc(z) || math.Abs(z) > math.MaxInt32 {
		return domain.WidgetState{}, false
	}
	w := domain.WidgetState{
		ID:     *sw.ID,
		Type:   *sw.Type,
		X:      *sw.X,
		Y:      *sw.Y,
		Width:  *sw.Width,
		Height: *sw.Height,
		ZIndex: int(z),
	}
	return w, validWidget(w)
}

func decodeAvatar(msg json.RawMessage) (domain.AvatarState, bool) {
	var sa storedAvatar
	if err := json.Unmarshal(msg, &sa); err != nil {
		return domain.AvatarState{}, false
	}
	if sa.Agent == nil || sa.X == nil || sa.Y == nil {
		return domain.AvatarState{}, false
	}
	a := domain.AvatarState{Agent: *sa.Agent, X: *sa.X, Y: *sa.Y}
	return a, validAvatar(a)
}
