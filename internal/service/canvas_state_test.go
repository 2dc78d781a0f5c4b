package service_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"canvasboard/internal/domain"
	"canvasboard/internal/logging"
	"canvasboard/internal/service"
	"canvasboard/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// CanvasStateService tests
// ─────────────────────────────────────────────────────────────

var (
	tenantA = domain.Tenant{SuiteID: "suite-1", OfficeID: "office-1"}
	fixedAt = time.UnixMilli(1_760_000_000_000)
)

func newStateService(slots storage.Slots, emitter service.EventEmitter) *service.CanvasStateService {
	return service.NewCanvasStateService(slots, emitter, logging.Discard(), service.StateOptions{
		Now: func() time.Time { return fixedAt },
	})
}

func sampleState() domain.CanvasState {
	return domain.CanvasState{
		Version: domain.CanvasSchemaVersion,
		Widgets: []domain.WidgetState{
			{ID: "w1", Type: "calendar", X: 64, Y: 64, Width: 280, Height: 200, ZIndex: 1},
			{ID: "w2", Type: "inbox", X: 384, Y: 64, Width: 320, Height: 240, ZIndex: 2},
		},
		Avatars: []domain.AvatarState{
			{Agent: "ava", X: 12.5, Y: 40},
		},
		LastModified: 42,
	}
}

// failingSlots simulates quota errors and unavailable storage.
type failingSlots struct{}

var errQuota = errors.New("quota exceeded")

func (failingSlots) Get(context.Context, string) (string, bool, error) { return "", false, errQuota }
func (failingSlots) Set(context.Context, string, string) error { return errQuota }
func (failingSlots) Delete(context.Context, string) error { return errQuota }

func TestTenantKey(t *testing.T) {
	assert.Equal(t, "canvas_state_suite-1_office-1", service.TenantKey("canvas_state", tenantA))
	assert.NotEqual(t,
		service.TenantKey("canvas_state", domain.Tenant{SuiteID: "a_b", OfficeID: "c"}),
		service.TenantKey("canvas_state", domain.Tenant{SuiteID: "a", OfficeID: "b_c"}),
	)
}

func TestCanvasState_RoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newStateService(storage.NewMemorySlots(), nil)
	in := sampleState()

	require.True(t, svc.Save(ctx, tenantA, in))
	got := svc.Load(ctx, tenantA)
	require.NotNil(t, got)

	want := in
	want.LastModified = fixedAt.UnixMilli()
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCanvasState_NilListsLoadAsEmpty(t *testing.T) {
	ctx := context.Background()
	svc := newStateService(storage.NewMemorySlots(), nil)
	in := domain.CanvasState{
		Version: domain.CanvasSchemaVersion,
		Widgets: []domain.WidgetState{{ID: "untyped", Width: 10, Height: 10}},
	}

	require.True(t, svc.Save(ctx, tenantA, in))
	got := svc.Load(ctx, tenantA)
	require.NotNil(t, got)

	want := in
	want.Avatars = []domain.AvatarState{}
	want.LastModified = fixedAt.UnixMilli()
	if diff := cmp.Diff(want, *got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCanvasState_StampsLastModifiedAtSaveTime(t *testing.T) {
	ctx := context.Background()
	svc := service.NewCanvasStateService(storage.NewMemorySlots(), nil, logging.Discard(), service.StateOptions{})
	in := sampleState()
	in.LastModified = time.Now().UnixMilli()

	require.True(t, svc.Save(ctx, tenantA, in))
	got := svc.Load(ctx, tenantA)
	require.NotNil(t, got)
	assert.GreaterOrEqual(t, got.LastModified, in.LastModified)
}

func TestCanvasState_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemorySlots()
	svc := newStateService(slots, nil)
	require.True(t, svc.Save(ctx, tenantA, sampleState()))

	assert.Nil(t, svc.Load(ctx, domain.Tenant{SuiteID: "suite-2", OfficeID: "office-1"}), "different suite")
	assert.Nil(t, svc.Load(ctx, domain.Tenant{SuiteID: "suite-1", OfficeID: "office-2"}), "different office")

	require.True(t, svc.Save(ctx, domain.Tenant{SuiteID: "a_b", OfficeID: "c"}, sampleState()))
	assert.Nil(t, svc.Load(ctx, domain.Tenant{SuiteID: "a", OfficeID: "b_c"}), "underscores cannot alias tenants")
}

func TestCanvasState_EmptyTenantIsNoop(t *testing.T) {
	ctx := context.Background()
	slots := storage.NewMemorySlots()
	emitter := &service.MockEmitter{}
	svc := newStateService(slots, emitter)

	for _, tenant := range []domain.Tenant{{}, {SuiteID: "s"}, {OfficeID: "o"}} {
		assert.False(t, svc.Save(ctx, tenant, sampleState()))
		assert.Nil(t, svc.Load(ctx, tenant))
		svc.Clear(ctx, tenant)
	}
	for _, key := range []string{"canvas_state__", "canvas_state_s_", "canvas_state__o"} {
		_, ok, _ := slots.Get(ctx, key)
		assert.False(t, ok, "nothing may be written under %q", key)
	}
	assert.Empty(t, emitter.Events)
}

func TestCanvasState_TruncatesToLimits(t *testing.T) {
	ctx := context.Background()
	svc := newStateService(storage.NewMemorySlots(), nil)

	state := domain.CanvasState{}
	for i := 0; i < service.DefaultMaxWidgets+10; i++ {
		state.Widgets = append(state.Widgets, domain.WidgetState{
			ID: fmt.Sprintf("w%02d", i), Type: "notes", X: float64(i) * 32, Width: 32, Height: 32,
		})
	}
	for i := 0; i < service.DefaultMaxAvatars+5; i++ {
		state.Avatars = append(state.Avatars, domain.AvatarState{Agent: fmt.Sprintf("agent-%d", i)})
	}

	require.True(t, svc.Save(ctx, tenantA, state))
	got := svc.Load(ctx, tenantA)
	require.NotNil(t, got)
	require.Len(t, got.Widgets, service.DefaultMaxWidgets)
	require.Len(t, got.Avatars, service.DefaultMaxAvatars)
	assert.Equal(t, "w00", got.Widgets[0].ID, "first entries are kept")
	assert.Equal(t, fmt.Sprintf("w%02d", service.DefaultMaxWidgets-1), got.Widgets[len(got.Widgets)-1].ID)
}

func TestCanvasState_CustomLimits(t *testing.T) {
	ctx := context.Background()
	svc := service.NewCanvasStateService(storage.NewMemorySlots(), nil, logging.Discard(), service.StateOptions{
		MaxWidgets: 1,
		MaxAvatars: 1,
		Prefix:     "custom",
	})
	require.True(t, svc.Save(ctx, tenantA, sampleState()))
	got := svc.Load(ctx, tenantA)
	require.NotNil(t, got)
	assert.Len(t, got.Widgets, 1)
	assert.Len(t, got.Avatars, 1)
	assert.Equal(t, "custom_suite-1_office-1", svc.Key(tenantA))
}

func TestCanvasState_SaveDropsNonFiniteEntries(t *testing.T) {
	ctx := context.Background()
	svc := newStateService(storage.NewMemorySlots(), nil)
	state := sampleState()
	state.Widgets = append(state.Widgets,
		domain.WidgetState{ID: "nan", Type: "notes", X: math.NaN(), Width: 10, Height: 10},
		domain.WidgetState{ID: "", Type: "notes", Width: 10, Height: 10},
	)
	state.Avatars = append(state.Avatars, domain.AvatarState{Agent: "inf", X: math.Inf(1)})

	require.True(t, svc.Save(ctx, tenantA, state), "invalid entries must not fail the whole save")
	got := svc.Load(ctx, tenantA)
	require.NotNil(t, got)
	assert.Len(t, got.Widgets, 2)
	assert.Len(t, got.Avatars, 1)
}

func TestCanvasState_LoadValidation(t *testing.T) {
	ctx := context.Background()
	key := service.TenantKey(service.DefaultStoragePrefix, tenantA)

	tests := []struct {
		name        string
		payload     string
		wantNil     bool
		wantWidgets []string
		wantAvatars int
	}{
		{name: "malformed json", payload: `{"version":1,`, wantNil: true},
		{name: "not an object", payload: `[]`, wantNil: true},
		{name: "wrong version", payload: `{"version":2,"widgets":[],"avatars":[]}`, wantNil: true},
		{name: "missing version", payload: `{"widgets":[],"avatars":[]}`, wantNil: true},
		{name: "out of range lastModified", payload: `{"version":1,"widgets":[],"avatars":[],"lastModified":1e300}`, wantNil: true},
		{name: "fractional lastModified", payload: `{"version":1,"widgets":[],"avatars":[],"lastModified":1.5}`, wantNil: true},
		{
			name:        "legacy without avatars",
			payload:     `{"version":1,"widgets":[{"id":"w1","type":"inbox","x":0,"y":0,"width":10,"height":10,"zIndex":1}],"lastModified":5}`,
			wantWidgets: []string{"w1"},
		},
		{
			name: "invalid entries dropped",
			payload: `{"version":1,"widgets":[
				{"id":"ok","type":"inbox","x":0,"y":0,"width":10,"height":10,"zIndex":1},
				{"id":"no-type","x":0,"y":0,"width":10,"height":10,"zIndex":1},
				{"id":"empty-type","type":"","x":0,"y":0,"width":10,"height":10,"zIndex":1},
				{"id":"string-x","type":"inbox","x":"0","y":0,"width":10,"height":10,"zIndex":1},
				{"id":"huge","type":"inbox","x":1e999,"y":0,"width":10,"height":10,"zIndex":1},
				{"id":"neg","type":"inbox","x":0,"y":0,"width":-1,"height":10,"zIndex":1},
				{"id":"frac-z","type":"inbox","x":0,"y":0,"width":10,"height":10,"zIndex":1.5},
				{"id":"no-z","type":"inbox","x":0,"y":0,"width":10,"height":10},
				"garbage"
			],"avatars":[{"agent":"ava","x":1,"y":2},{"agent":"","x":1,"y":2},{"x":1,"y":2},{"agent":"bob","x":null,"y":2}]}`,
			wantWidgets: []string{"ok", "empty-type"},
			wantAvatars: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := storage.NewMemorySlots()
			require.NoError(t, slots.Set(ctx, key, tt.payload))
			svc := newStateService(slots, nil)

			got := svc.Load(ctx, tenantA)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			var ids []string
			for _, w := range got.Widgets {
				ids = append(ids, w.ID)
			}
			assert.Equal(t, tt.wantWidgets, ids)
			assert.NotNil(t, got.Avatars, "absent avatars decode as an empty list")
			assert.Len(t, got.Avatars, tt.wantAvatars)
		})
	}
}

func TestCanvasState_StorageFailuresAreSwallowed(t *testing.T) {
	ctx := context.Background()
	emitter := &service.MockEmitter{}
	svc := newStateService(failingSlots{}, emitter)

	assert.NotPanics(t, func() {
		assert.False(t, svc.Save(ctx, tenantA, sampleState()))
		assert.Nil(t, svc.Load(ctx, tenantA))
		svc.Clear(ctx, tenantA)
	})
	assert.Empty(t, emitter.Events)
}

func TestCanvasState_Clear(t *testing.T) {
	ctx := context.Background()
	emitter := &service.MockEmitter{}
	svc := newStateService(storage.NewMemorySlots(), emitter)
	other := domain.Tenant{SuiteID: "suite-1", OfficeID: "office-2"}

	require.True(t, svc.Save(ctx, tenantA, sampleState()))
	require.True(t, svc.Save(ctx, other, sampleState()))
	svc.Clear(ctx, tenantA)

	assert.Nil(t, svc.Load(ctx, tenantA))
	assert.NotNil(t, svc.Load(ctx, other), "clear is tenant scoped")
	assert.Equal(t, 2, emitter.Count(service.EventStateSaved))
	assert.Equal(t, 1, emitter.Count(service.EventStateCleared))
}
