package router

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/valpere/mortgate/internal"
	"github.com/valpere/mortgate/internal/config"
	"github.com/valpere/mortgate/internal/engine"
	"github.com/valpere/mortgate/internal/segment"
)

type mockEngine struct {
	name          string
	slot          *engine.Slot
	translateFunc func(ctx context.Context, req engine.Request) (*engine.Result, error)
	calls         atomic.Int32
}

func newMockEngine(name string, role engine.Role) *mockEngine {
	return &mockEngine{
		name: name,
		slot: engine.NewSlot(role, "http://test", "key", name+"-model", 0.7, true, 2),
	}
}

func (m *mockEngine) Name() string       { return m.name }
func (m *mockEngine) Slot() *engine.Slot { return m.slot }

func (m *mockEngine) Translate(ctx context.Context, req engine.Request) (*engine.Result, error) {
	m.calls.Add(1)
	if m.translateFunc != nil {
		return m.translateFunc(ctx, req)
	}
	return &engine.Result{Segments: req.Segments, Model: m.slot.Model}, nil
}

func (m *mockEngine) Probe(ctx context.Context) error { return nil }

func remoteOpts() Options {
	return Options{Mode: config.ModeRemote, Separator: "//////", Timeout: time.Second}
}

func TestRouter_Translate_PrimarySuccess(t *testing.T) {
	primary := newMockEngine("primary", engine.RolePrimary)
	secondary := newMockEngine("secondary", engine.RoleSecondary)

	r := New([]engine.Engine{primary, secondary}, remoteOpts())
	res := r.Translate(context.Background(), "Hello//////World", "en", "uk", "req-1")

	if !res.OK() {
		t.Fatalf("expected success, got %s: %s", res.ErrorCode, res.ErrorMessage)
	}
	if len(res.Segments) != 2 {
		t.Errorf("expected 2 segments, got %d", len(res.Segments))
	}
	if res.EngineName != "primary" {
		t.Errorf("expected primary engine, got %q", res.EngineName)
	}
	if secondary.calls.Load() != 0 {
		t.Error("secondary must not be called when primary succeeds")
	}
}

func TestRouter_Translate_SkipsUnhealthyPrimary(t *testing.T) {
	primary := newMockEngine("primary", engine.RolePrimary)
	secondary := newMockEngine("secondary", engine.RoleSecondary)
	primary.slot.MarkUnhealthy()

	r := New([]engine.Engine{primary, secondary}, remoteOpts())
	res := r.Translate(context.Background(), "Hello", "en", "uk", "req-2")

	if !res.OK() {
		t.Fatalf("expected success via secondary, got %s", res.ErrorCode)
	}
	if res.EngineName != "secondary" {
		t.Errorf("expected secondary engine, got %q", res.EngineName)
	}
	if primary.calls.Load() != 0 {
		t.Error("unhealthy primary must never be attempted")
	}
}

func TestRouter_Translate_FailsOverOnTransient(t *testing.T) {
	primary := newMockEngine("primary", engine.RolePrimary)
	secondary := newMockEngine("secondary", engine.RoleSecondary)
	primary.translateFunc = func(ctx context.Context, req engine.Request) (*engine.Result, error) {
		return nil, &engine.Error{Engine: "primary", Kind: engine.Transient, Err: errors.New("connection reset")}
	}

	r := New([]engine.Engine{primary, secondary}, remoteOpts())
	res := r.Translate(context.Background(), "Hello", "en", "uk", "req-3")

	if !res.OK() {
		t.Fatalf("expected success via fallback, got %s: %s", res.ErrorCode, res.ErrorMessage)
	}
	if res.EngineName != "secondary" {
		t.Errorf("expected secondary engine after failover, got %q", res.EngineName)
	}
	if primary.slot.Availability() != engine.Unhealthy {
		t.Error("transient failure must condemn the slot reactively")
	}
	if primary.calls.Load() != 1 || secondary.calls.Load() != 1 {
		t.Errorf("expected exactly one call each, got %d and %d",
			primary.calls.Load(), secondary.calls.Load())
	}
}

func TestRouter_Translate_AllEnginesUnavailable(t *testing.T) {
	primary := newMockEngine("primary", engine.RolePrimary)
	secondary := newMockEngine("secondary", engine.RoleSecondary)
	primary.slot.MarkUnhealthy()
	secondary.slot.MarkUnhealthy()

	r := New([]engine.Engine{primary, secondary}, remoteOpts())
	res := r.Translate(context.Background(), "Hello", "en", "uk", "req-4")

	if res.ErrorCode != internal.CodeUnavailable {
		t.Errorf("expected code %s, got %s", internal.CodeUnavailable, res.ErrorCode)
	}
	if primary.calls.Load() != 0 || secondary.calls.Load() != 0 {
		t.Error("no outbound call may happen when every slot is condemned")
	}
}

func TestRouter_Translate_BothTransientExhaustsChain(t *testing.T) {
	transient := func(name string) func(ctx context.Context, req engine.Request) (*engine.Result, error) {
		return func(ctx context.Context, req engine.Request) (*engine.Result, error) {
			return nil, &engine.Error{Engine: name, Kind: engine.Transient, Err: errors.New("down")}
		}
	}
	primary := newMockEngine("primary", engine.RolePrimary)
	secondary := newMockEngine("secondary", engine.RoleSecondary)
	primary.translateFunc = transient("primary")
	secondary.translateFunc = transient("secondary")

	r := New([]engine.Engine{primary, secondary}, remoteOpts())
	res := r.Translate(context.Background(), "Hello", "en", "uk", "req-5")

	if res.ErrorCode != internal.CodeUnavailable {
		t.Errorf("expected code %s after exhausted chain, got %s", internal.CodeUnavailable, res.ErrorCode)
	}
	if len(res.Segments) != 0 {
		t.Error("failed request must not return partial segments")
	}
	if secondary.slot.Availability() != engine.Unhealthy {
		t.Error("second transient failure must also condemn its slot")
	}
}

func TestRouter_Translate_FatalNeverFailsOver(t *testing.T) {
	primary := newMockEngine("primary", engine.RolePrimary)
	secondary := newMockEngine("secondary", engine.RoleSecondary)
	primary.translateFunc = func(ctx context.Context, req engine.Request) (*engine.Result, error) {
		return nil, &engine.Error{Engine: "primary", Kind: engine.Fatal, Status: 401, Err: errors.New("invalid API key")}
	}

	r := New([]engine.Engine{primary, secondary}, remoteOpts())
	res := r.Translate(context.Background(), "Hello", "en", "uk", "req-6")

	if res.ErrorCode != internal.CodeEngineFatal {
		t.Errorf("expected code %s, got %s", internal.CodeEngineFatal, res.ErrorCode)
	}
	if secondary.calls.Load() != 0 {
		t.Error("fatal failure must not trigger failover")
	}
	if primary.slot.Availability() == engine.Unhealthy {
		t.Error("fatal failure must not condemn the slot")
	}
}

func TestRouter_Translate_FormatMismatchNeverRetried(t *testing.T) {
	primary := newMockEngine("primary", engine.RolePrimary)
	secondary := newMockEngine("secondary", engine.RoleSecondary)
	primary.translateFunc = func(ctx context.Context, req engine.Request) (*engine.Result, error) {
		return nil, &segment.MismatchError{Want: 2, Got: 1}
	}

	r := New([]engine.Engine{primary, secondary}, remoteOpts())
	res := r.Translate(context.Background(), "a//////b", "en", "uk", "req-7")

	if res.ErrorCode != internal.CodeFormatMismatch {
		t.Errorf("expected code %s, got %s", internal.CodeFormatMismatch, res.ErrorCode)
	}
	if secondary.calls.Load() != 0 {
		t.Error("format mismatch must not trigger failover")
	}
}

func TestRouter_Translate_LocalModeNoFailover(t *testing.T) {
	local := newMockEngine("local", engine.RoleLocal)
	local.translateFunc = func(ctx context.Context, req engine.Request) (*engine.Result, error) {
		return nil, &engine.Error{Engine: "local", Kind: engine.Transient, Err: errors.New("ollama down")}
	}

	r := New([]engine.Engine{local}, Options{Mode: config.ModeLocal, Separator: "//////", Timeout: time.Second})
	res := r.Translate(context.Background(), "Hello", "en", "uk", "req-8")

	if res.ErrorCode != internal.CodeUnavailable {
		t.Errorf("expected terminal failure in local mode, got %s", res.ErrorCode)
	}
	if local.calls.Load() != 1 {
		t.Errorf("expected exactly one attempt in local mode, got %d", local.calls.Load())
	}
}

func TestRouter_Translate_EmptyText(t *testing.T) {
	primary := newMockEngine("primary", engine.RolePrimary)

	r := New([]engine.Engine{primary}, remoteOpts())
	res := r.Translate(context.Background(), "   ", "en", "uk", "req-9")

	if res.ErrorCode != internal.CodeBadRequest {
		t.Errorf("expected code %s, got %s", internal.CodeBadRequest, res.ErrorCode)
	}
	if primary.calls.Load() != 0 {
		t.Error("empty text must not reach an engine")
	}
}

func TestRouter_Translate_SegmentsPreserveCount(t *testing.T) {
	primary := newMockEngine("primary", engine.RolePrimary)

	r := New([]engine.Engine{primary}, remoteOpts())
	res := r.Translate(context.Background(), "Hello world\n//////\nHow are you?", "en", "uk", "req-10")

	if !res.OK() {
		t.Fatalf("expected success, got %s", res.ErrorCode)
	}
	if len(res.Segments) != 2 {
		t.Errorf("expected 2 segments preserved, got %d", len(res.Segments))
	}
}

type mockCache struct {
	entries map[string]string
	saves   atomic.Int32
}

func (c *mockCache) GetCachedTranslation(ctx context.Context, text, src, tgt string) (string, bool, error) {
	v, ok := c.entries[text+"|"+src+"|"+tgt]
	return v, ok, nil
}

func (c *mockCache) SaveToMemory(ctx context.Context, text, src, tgt, final, engineUsed string) error {
	c.saves.Add(1)
	if c.entries == nil {
		c.entries = map[string]string{}
	}
	c.entries[text+"|"+src+"|"+tgt] = final
	return nil
}

func TestRouter_Translate_CacheHitSkipsEngines(t *testing.T) {
	primary := newMockEngine("primary", engine.RolePrimary)
	cache := &mockCache{entries: map[string]string{
		"Hello|en|uk": "Привіт",
	}}

	opts := remoteOpts()
	opts.Cache = cache
	r := New([]engine.Engine{primary}, opts)

	res := r.Translate(context.Background(), "Hello", "en", "uk", "req-11")

	if !res.OK() || !res.FromCache {
		t.Fatalf("expected cache hit, got %+v", res)
	}
	if res.Segments[0] != "Привіт" {
		t.Errorf("unexpected cached segments: %q", res.Segments)
	}
	if primary.calls.Load() != 0 {
		t.Error("cache hit must not reach an engine")
	}
}

func TestRouter_Translate_SuccessPopulatesCache(t *testing.T) {
	primary := newMockEngine("primary", engine.RolePrimary)
	cache := &mockCache{}

	opts := remoteOpts()
	opts.Cache = cache
	r := New([]engine.Engine{primary}, opts)

	res := r.Translate(context.Background(), "Hello", "en", "uk", "req-12")
	if !res.OK() {
		t.Fatalf("expected success, got %s", res.ErrorCode)
	}
	if cache.saves.Load() != 1 {
		t.Errorf("expected one cache save, got %d", cache.saves.Load())
	}

	again := r.Translate(context.Background(), "Hello", "en", "uk", "req-13")
	if !again.FromCache {
		t.Error("expected second identical request to hit the cache")
	}
	if primary.calls.Load() != 1 {
		t.Errorf("expected single engine call across both requests, got %d", primary.calls.Load())
	}
}

type mockDetector struct{ iso string }

func (d *mockDetector) DetectISO(text string) (string, bool) { return d.iso, d.iso != "" }

func TestRouter_Translate_AutoDetectsSource(t *testing.T) {
	var seenSource string
	primary := newMockEngine("primary", engine.RolePrimary)
	primary.translateFunc = func(ctx context.Context, req engine.Request) (*engine.Result, error) {
		seenSource = req.SourceLang
		return &engine.Result{Segments: req.Segments, Model: "m"}, nil
	}

	opts := remoteOpts()
	opts.Detector = &mockDetector{iso: "de"}
	r := New([]engine.Engine{primary}, opts)

	res := r.Translate(context.Background(), "Guten Tag", "auto", "uk", "req-14")
	if !res.OK() {
		t.Fatalf("expected success, got %s", res.ErrorCode)
	}
	if seenSource != "de" {
		t.Errorf("expected detected source 'de', got %q", seenSource)
	}
}

func TestRouter_Health(t *testing.T) {
	primary := newMockEngine("primary", engine.RolePrimary)
	secondary := newMockEngine("secondary", engine.RoleSecondary)
	secondary.slot.MarkUnhealthy()

	r := New([]engine.Engine{primary, secondary}, remoteOpts())
	h := r.Health()

	if h.Mode != string(config.ModeRemote) {
		t.Errorf("unexpected mode %q", h.Mode)
	}
	if h.Status != "healthy" {
		t.Errorf("expected healthy status with a usable slot, got %q", h.Status)
	}
	if len(h.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(h.Slots))
	}
	if h.Slots[1].Availability != "unhealthy" {
		t.Errorf("expected unhealthy secondary, got %q", h.Slots[1].Availability)
	}

	primary.slot.MarkUnhealthy()
	if r.Health().Status != "degraded" {
		t.Error("expected degraded status with no usable slot")
	}
}

func TestRouter_ConfigSnapshot_RedactsCredentials(t *testing.T) {
	primary := newMockEngine("primary", engine.RolePrimary)

	r := New([]engine.Engine{primary}, remoteOpts())
	snap := r.ConfigSnapshot()

	if len(snap.Slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(snap.Slots))
	}
	s := snap.Slots[0]
	if !s.HasKey {
		t.Error("expected has_key true for configured credential")
	}
	if s.Model != "primary-model" || s.Endpoint != "http://test" {
		t.Errorf("unexpected slot settings: %+v", s)
	}
}
