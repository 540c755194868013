package engine

import (
	"context"
	"testing"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/logging"
	"github.com/roach88/ashborn/internal/subsystem"
	"github.com/roach88/ashborn/internal/testutil"
)

// callLog records lifecycle calls across fakes in call order.
type callLog struct {
	calls []string
}

func (l *callLog) add(s string) { l.calls = append(l.calls, s) }

// fakeSub is a recording subsystem.
type fakeSub struct {
	kind        subsystem.Kind
	log         *callLog
	initErr     error
	shutdownErr error
	up          bool
	inits       int
	shutdowns   int
	paused      bool
	reconfigs   []config.Config
}

func (f *fakeSub) Name() string        { return "fake " + string(f.kind) }
func (f *fakeSub) IsInitialized() bool { return f.up }

func (f *fakeSub) Init(ctx context.Context) error {
	f.inits++
	f.log.add("init:" + string(f.kind))
	if f.initErr != nil {
		return f.initErr
	}
	f.up = true
	return nil
}

func (f *fakeSub) Shutdown(ctx context.Context) error {
	f.shutdowns++
	f.log.add("shutdown:" + string(f.kind))
	f.up = false
	return f.shutdownErr
}

func (f *fakeSub) SetPaused(p bool) { f.paused = p }

func (f *fakeSub) Reconfigure(cfg config.Config) error {
	f.reconfigs = append(f.reconfigs, cfg)
	return nil
}

// fakeDisplay adds the per-frame display calls.
type fakeDisplay struct {
	fakeSub
	closing  bool
	presents int
}

func (d *fakeDisplay) PollEvents()       {}
func (d *fakeDisplay) ShouldClose() bool { return d.closing }
func (d *fakeDisplay) RequestClose()     { d.closing = true }
func (d *fakeDisplay) Present() error {
	d.presents++
	return nil
}

// fakeWorld reports counters.
type fakeWorld struct {
	fakeSub
	counters subsystem.WorldCounters
}

func (w *fakeWorld) WorldCounters() subsystem.WorldCounters { return w.counters }

// fakeNetwork reports cumulative counters.
type fakeNetwork struct {
	fakeSub
	counters subsystem.NetworkCounters
}

func (n *fakeNetwork) NetworkCounters() subsystem.NetworkCounters { return n.counters }

// fakeRenderer reloads shaders.
type fakeRenderer struct {
	fakeSub
	reloadErr error
	reloads   int
}

func (r *fakeRenderer) ReloadShaders(ctx context.Context) error {
	r.reloads++
	return r.reloadErr
}

func (r *fakeRenderer) RenderCounters() subsystem.RenderCounters {
	return subsystem.RenderCounters{FacesRendered: 900, VRAMUsedMB: 256, VRAMAvailableMB: 4096}
}

// fakeSet is a full collaborator set sharing one call log.
type fakeSet struct {
	log      *callLog
	core     *fakeSub
	display  *fakeDisplay
	renderer *fakeRenderer
	input    *fakeSub
	audio    *fakeSub
	world    *fakeWorld
	network  *fakeNetwork
	assets   *fakeSub
	builds   int
}

func newFakeSet() *fakeSet {
	log := &callLog{}
	return &fakeSet{
		log:      log,
		core:     &fakeSub{kind: subsystem.KindCore, log: log},
		display:  &fakeDisplay{fakeSub: fakeSub{kind: subsystem.KindDisplay, log: log}},
		renderer: &fakeRenderer{fakeSub: fakeSub{kind: subsystem.KindRenderer, log: log}},
		input:    &fakeSub{kind: subsystem.KindInput, log: log},
		audio:    &fakeSub{kind: subsystem.KindAudio, log: log},
		world:    &fakeWorld{fakeSub: fakeSub{kind: subsystem.KindWorld, log: log}},
		network:  &fakeNetwork{fakeSub: fakeSub{kind: subsystem.KindNetwork, log: log}},
		assets:   &fakeSub{kind: subsystem.KindAssets, log: log},
	}
}

func (s *fakeSet) factory(cfg config.Config, events *subsystem.EventDispatcher) (Collaborators, error) {
	s.builds++
	return Collaborators{
		Core:     s.core,
		Display:  s.display,
		Renderer: s.renderer,
		Input:    s.input,
		Audio:    s.audio,
		World:    s.world,
		Network:  s.network,
		Assets:   s.assets,
	}, nil
}

// newTestEngine builds an engine over a fake set with a manual clock.
func newTestEngine(t *testing.T, cfg config.Config, set *fakeSet, opts ...EngineOption) (*Engine, *testutil.ManualClock) {
	t.Helper()
	clk := testutil.NewManualClock()
	base := []EngineOption{
		WithLogger(logging.Discard()),
		WithClock(clk),
		WithFactory(set.factory),
		WithSessionIDs(NewFixedGenerator("session-1", "session-2", "session-3")),
	}
	return New(cfg, append(base, opts...)...), clk
}
