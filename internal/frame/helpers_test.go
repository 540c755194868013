package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/engine"
	"github.com/roach88/ashborn/internal/logging"
	"github.com/roach88/ashborn/internal/subsystem/headless"
	"github.com/roach88/ashborn/internal/testutil"
)

// recorder implements every hook and records calls in order.
type recorder struct {
	calls   []string
	updates []Timing
	renders []Timing
	fixed   []float64
	focus   []bool
	sizes   [][2]int

	// work advances the clock inside OnUpdate to simulate frame cost.
	clk  *testutil.ManualClock
	work time.Duration

	onUpdate func(Timing)
	onRender func(Timing)
	onStart  func()
}

func (r *recorder) OnStart() {
	r.calls = append(r.calls, "start")
	if r.onStart != nil {
		r.onStart()
	}
}

func (r *recorder) OnUpdate(t Timing) {
	r.calls = append(r.calls, "update")
	r.updates = append(r.updates, t)
	if r.clk != nil {
		r.clk.Advance(r.work)
	}
	if r.onUpdate != nil {
		r.onUpdate(t)
	}
}

func (r *recorder) OnFixedUpdate(dt float64) {
	r.calls = append(r.calls, "fixed")
	r.fixed = append(r.fixed, dt)
}

func (r *recorder) OnRender(t Timing) {
	r.calls = append(r.calls, "render")
	r.renders = append(r.renders, t)
	if r.onRender != nil {
		r.onRender(t)
	}
}

func (r *recorder) OnGUI() { r.calls = append(r.calls, "gui") }

func (r *recorder) OnFocusChanged(focused bool) {
	r.calls = append(r.calls, "focus")
	r.focus = append(r.focus, focused)
}

func (r *recorder) OnResize(w, h int) {
	r.calls = append(r.calls, "resize")
	r.sizes = append(r.sizes, [2]int{w, h})
}

func (r *recorder) OnShutdown() { r.calls = append(r.calls, "shutdown") }

func (r *recorder) count(name string) int {
	n := 0
	for _, c := range r.calls {
		if c == name {
			n++
		}
	}
	return n
}

// newTestScheduler builds a scheduler over a headless engine on a manual
// clock. The engine is not initialized.
func newTestScheduler(t *testing.T, cfg config.Config, cb any, opts ...Option) (*Scheduler, *engine.Engine, *testutil.ManualClock) {
	t.Helper()
	clk := testutil.NewManualClock()
	eng := engine.New(cfg,
		engine.WithClock(clk),
		engine.WithLogger(logging.Discard()),
		engine.WithSessionIDs(engine.NewFixedGenerator("frame-test")),
	)
	base := []Option{WithClock(clk), WithLogger(logging.Discard())}
	return New(eng, cb, append(base, opts...)...), eng, clk
}

// startedScheduler is newTestScheduler plus Initialize.
func startedScheduler(t *testing.T, cfg config.Config, cb any, opts ...Option) (*Scheduler, *engine.Engine, *testutil.ManualClock) {
	t.Helper()
	s, eng, clk := newTestScheduler(t, cfg, cb, opts...)
	require.NoError(t, s.Initialize(t.Context()))
	return s, eng, clk
}

func headlessDisplay(t *testing.T, eng *engine.Engine) *headless.Display {
	t.Helper()
	d, ok := eng.Display().(*headless.Display)
	require.True(t, ok, "display should be headless")
	return d
}
