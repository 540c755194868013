package frame

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync/atomic"
	"time"

	"github.com/roach88/ashborn/internal/clock"
	"github.com/roach88/ashborn/internal/engine"
	"github.com/roach88/ashborn/internal/subsystem"
)

const (
	// MaxFixedSteps bounds fixed-step catch-up within one frame. When the
	// bound is hit with time still owed, the accumulator is dropped.
	MaxFixedSteps = 5

	// MinStep is the lower clamp for the fixed timestep and max delta.
	MinStep = 0.001

	// spinWindow is the tail of the frame budget spent polling the clock
	// instead of sleeping.
	spinWindow = time.Millisecond

	// accumulatorEpsilon absorbs float error so that, e.g., 0.05s of
	// accumulated time yields exactly three 1/60s steps.
	accumulatorEpsilon = 1e-9
)

// Scheduler drives the frame loop of one engine.
//
// Thread-safety: the loop and every setter are expected to run on one
// goroutine. RequestExit may be called from any goroutine.
type Scheduler struct {
	eng    *engine.Engine
	hooks  hookSet
	clock  clock.Clock
	logger *slog.Logger

	frameLimit uint64

	running       atomic.Bool
	exitRequested atomic.Bool
	paused        bool

	timeScale  float64
	fixedDelta float64
	maxDelta   float64
	targetFPS  int
	cfgGen     int64

	lastFrame   time.Time
	timing      Timing
	accumulator float64
	ring        fpsRing
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock sets the time source. Default: clock.System{}.
func WithClock(c clock.Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		s.logger = l
	}
}

// WithFrameLimit ends Run after n completed frames. 0 means no limit.
func WithFrameLimit(n uint64) Option {
	return func(s *Scheduler) {
		s.frameLimit = n
	}
}

// New creates a scheduler for eng. callbacks may implement any of the hook
// interfaces in this package (or be a *Hooks); nil means no callbacks.
//
// Timestep, max delta and target frame rate are read from the engine's
// configuration. The scheduler attaches itself to the engine's event
// dispatcher.
func New(eng *engine.Engine, callbacks any, opts ...Option) *Scheduler {
	s := &Scheduler{
		eng:       eng,
		hooks:     resolveHooks(callbacks),
		clock:     clock.System{},
		logger:    slog.Default(),
		timeScale: 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	cfg := eng.Config()
	s.fixedDelta = math.Max(MinStep, cfg.Global.FixedTimestep)
	s.maxDelta = math.Max(MinStep, cfg.Global.MaxDeltaTime)
	s.targetFPS = max(0, cfg.Global.TargetFPS)
	s.cfgGen = eng.ConfigGeneration()

	s.timing = Timing{FixedDeltaTime: s.fixedDelta, TimeScale: s.timeScale}
	s.lastFrame = s.clock.Now()

	eng.Events().Attach(subsystem.EventHandlerFunc(s.handleEvent))
	return s
}

// Run initializes the engine if needed, loops until an exit condition, then
// shuts the engine down.
//
// Exit conditions: RequestExit, the engine no longer running, the display
// reporting a close request, the frame limit, or ctx being done. A frame
// error stops the loop; the engine is still shut down and the error is
// returned.
func (s *Scheduler) Run(ctx context.Context) (err error) {
	if !s.eng.IsInitialized() {
		if err := s.Initialize(ctx); err != nil {
			return err
		}
	}
	if !s.running.CompareAndSwap(false, true) {
		return &Error{Code: ErrCodeAlreadyRunning, Message: "frame loop already running"}
	}
	defer s.running.Store(false)

	s.exitRequested.Store(false)
	s.lastFrame = s.clock.Now()
	s.logger.Info("frame loop starting", "target_fps", s.targetFPS, "fixed_timestep", s.fixedDelta)

	if err = s.safely("on_start", func() {
		if s.hooks.start != nil {
			s.hooks.start.OnStart()
		}
	}); err == nil {
		for !s.ShouldClose() && ctx.Err() == nil {
			if err = s.RunFrame(ctx); err != nil {
				s.logger.Error("frame failed, stopping loop", "frame", s.timing.FrameCount, "error", err)
				break
			}
			if s.frameLimit > 0 && s.timing.FrameCount >= s.frameLimit {
				s.logger.Debug("frame limit reached", "frames", s.timing.FrameCount)
				break
			}
		}
	}

	s.logger.Info("frame loop exiting", "frames", s.timing.FrameCount)
	if herr := s.safely("on_shutdown", func() {
		if s.hooks.shutdown != nil {
			s.hooks.shutdown.OnShutdown()
		}
	}); herr != nil && err == nil {
		err = herr
	}

	if serr := s.eng.Shutdown(ctx); serr != nil {
		s.logger.Warn("engine shutdown", "error", serr)
	}
	return err
}

// Initialize brings the engine up. Bring-up failures are wrapped with
// ENGINE_INIT_FAILED; the engine's own error stays reachable via errors.As.
func (s *Scheduler) Initialize(ctx context.Context) error {
	if err := s.eng.Initialize(ctx); err != nil {
		if engine.IsAlreadyInitialized(err) {
			return err
		}
		return &Error{Code: ErrCodeEngineInitFailed, Message: "engine initialization failed", Err: err}
	}
	s.lastFrame = s.clock.Now()
	return nil
}

// ShouldClose reports whether the loop should stop: an exit was requested,
// the engine stopped running, or the display has a pending close request.
func (s *Scheduler) ShouldClose() bool {
	if s.exitRequested.Load() || !s.eng.IsRunning() {
		return true
	}
	if d := s.eng.Display(); d != nil {
		return d.ShouldClose()
	}
	return false
}

// RunFrame executes one frame. A panicking callback is recovered and
// reported as CALLBACK_PANIC.
func (s *Scheduler) RunFrame(ctx context.Context) (err error) {
	if !s.eng.IsInitialized() {
		return &Error{Code: ErrCodeNotInitialized, Message: "engine not initialized"}
	}
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()

	frameStart, raw := s.updateTiming()
	s.syncConfig()
	s.pollEvents()

	var sample engine.FrameSample
	if !s.paused {
		phase := s.clock.Now()
		s.fixedUpdate()
		if s.hooks.update != nil {
			s.hooks.update.OnUpdate(s.timing)
		}
		mid := s.clock.Now()
		sample.UpdateTime = mid.Sub(phase)

		if s.hooks.render != nil {
			s.hooks.render.OnRender(s.timing)
		}
		if s.hooks.gui != nil {
			s.hooks.gui.OnGUI()
		}
		if perr := s.eng.Present(); perr != nil {
			return &Error{Code: ErrCodeFrameFailed, Message: "present failed", Err: perr}
		}
		sample.RenderTime = s.clock.Now().Sub(mid)
	}

	s.limitFrameRate(ctx, frameStart)

	s.timing.FrameCount++
	sample.FrameTime = duration(raw)
	s.eng.RecordFrame(sample)
	return nil
}

func panicError(r any) error {
	if e, ok := r.(error); ok {
		return &Error{Code: ErrCodeCallbackPanic, Message: "callback panicked", Err: e}
	}
	return &Error{Code: ErrCodeCallbackPanic, Message: fmt.Sprintf("callback panicked: %v", r)}
}

// safely runs a lifecycle hook, turning a panic into CALLBACK_PANIC.
func (s *Scheduler) safely(name string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
			s.logger.Error("callback panicked", "hook", name, "panic", r)
		}
	}()
	fn()
	return nil
}

// updateTiming measures the frame and returns its start and raw delta.
func (s *Scheduler) updateTiming() (time.Time, float64) {
	now := s.clock.Now()
	raw := seconds(now.Sub(s.lastFrame))
	if raw < 0 {
		raw = 0
	}
	s.lastFrame = now

	s.timing.DeltaTime = math.Min(raw*s.timeScale, s.maxDelta)
	s.timing.TotalTime += s.timing.DeltaTime
	s.timing.TimeScale = s.timeScale
	s.timing.FixedDeltaTime = s.fixedDelta
	s.ring.add(raw)
	return now, raw
}

// syncConfig picks up live configuration changes.
func (s *Scheduler) syncConfig() {
	gen := s.eng.ConfigGeneration()
	if gen == s.cfgGen {
		return
	}
	s.cfgGen = gen
	if fps := max(0, s.eng.Config().Global.TargetFPS); fps != s.targetFPS {
		s.targetFPS = fps
		s.logger.Info("target fps updated from configuration", "fps", fps)
	}
}

func (s *Scheduler) pollEvents() {
	if d := s.eng.Display(); d != nil {
		d.PollEvents()
		return
	}
	s.eng.Events().Dispatch()
}

func (s *Scheduler) handleEvent(ev subsystem.Event) {
	switch ev.Type {
	case subsystem.EventFocus:
		if s.hooks.focus != nil {
			s.hooks.focus.OnFocusChanged(ev.Focused)
		}
	case subsystem.EventResize:
		if s.hooks.resize != nil {
			s.hooks.resize.OnResize(ev.Width, ev.Height)
		}
	case subsystem.EventClose:
		s.RequestExit()
	}
}

func (s *Scheduler) fixedUpdate() {
	s.accumulator += s.timing.DeltaTime

	steps := 0
	for s.accumulator+accumulatorEpsilon >= s.fixedDelta {
		if steps == MaxFixedSteps {
			s.logger.Warn("fixed update falling behind, dropping accumulated time",
				"steps", steps, "dropped", s.accumulator)
			s.accumulator = 0
			break
		}
		if s.hooks.fixed != nil {
			s.hooks.fixed.OnFixedUpdate(s.fixedDelta)
		}
		s.accumulator -= s.fixedDelta
		steps++
	}
	if s.accumulator < 0 {
		s.accumulator = 0
	}
	s.timing.Interpolation = s.accumulator / s.fixedDelta
}

// limitFrameRate waits until 1/targetFPS has passed since frameStart: a
// coarse sleep to within spinWindow of the deadline, then a spin on the
// clock. A done ctx cuts the wait short.
func (s *Scheduler) limitFrameRate(ctx context.Context, frameStart time.Time) {
	if s.targetFPS == 0 {
		return
	}
	target := time.Second / time.Duration(s.targetFPS)

	elapsed := s.clock.Now().Sub(frameStart)
	if elapsed >= target {
		return
	}
	if remaining := target - elapsed; remaining > spinWindow {
		if err := s.clock.Sleep(ctx, remaining-spinWindow); err != nil {
			return
		}
	}
	for s.clock.Now().Sub(frameStart) < target {
		if ctx.Err() != nil {
			return
		}
		s.clock.Yield()
	}
}

// RequestExit stops the loop before its next frame and propagates the
// request to the engine and the display. Idempotent.
func (s *Scheduler) RequestExit() {
	if !s.exitRequested.CompareAndSwap(false, true) {
		return
	}
	s.logger.Info("exit requested")
	s.eng.RequestExit()
	if d := s.eng.Display(); d != nil {
		d.RequestClose()
	}
}

// IsRunning reports whether Run's loop is active.
func (s *Scheduler) IsRunning() bool {
	return s.running.Load()
}

// SetPaused toggles pause. Paused frames still poll events and rate-limit
// but skip update, render and present. The flag is forwarded to the engine.
func (s *Scheduler) SetPaused(paused bool) {
	if s.paused == paused {
		return
	}
	s.paused = paused
	s.logger.Info("pause changed", "paused", paused)
	s.eng.SetPaused(paused)
}

// Paused returns the pause flag.
func (s *Scheduler) Paused() bool {
	return s.paused
}

// SetTimeScale sets the delta multiplier, clamped to >= 0.
func (s *Scheduler) SetTimeScale(scale float64) {
	s.timeScale = math.Max(0, scale)
	s.timing.TimeScale = s.timeScale
	s.logger.Debug("time scale set", "scale", s.timeScale)
}

// SetTargetFPS sets the frame rate cap. 0 means unlimited.
func (s *Scheduler) SetTargetFPS(fps int) {
	s.targetFPS = max(0, fps)
	s.logger.Info("target fps set", "fps", s.targetFPS)
}

// SetFixedTimestep sets the fixed-step size in seconds, clamped to >= 1ms.
func (s *Scheduler) SetFixedTimestep(step float64) {
	s.fixedDelta = math.Max(MinStep, step)
	s.timing.FixedDeltaTime = s.fixedDelta
	s.logger.Info("fixed timestep set", "timestep_ms", s.fixedDelta*1000)
}

// SetMaxDeltaTime sets the delta clamp in seconds, clamped to >= 1ms.
func (s *Scheduler) SetMaxDeltaTime(maxDelta float64) {
	s.maxDelta = math.Max(MinStep, maxDelta)
	s.logger.Info("max delta time set", "max_dt_ms", s.maxDelta*1000)
}

// TimeScale returns the delta multiplier.
func (s *Scheduler) TimeScale() float64 { return s.timeScale }

// TargetFPS returns the frame rate cap (0 = unlimited).
func (s *Scheduler) TargetFPS() int { return s.targetFPS }

// FixedTimestep returns the fixed-step size in seconds.
func (s *Scheduler) FixedTimestep() float64 { return s.fixedDelta }

// MaxDeltaTime returns the delta clamp in seconds.
func (s *Scheduler) MaxDeltaTime() float64 { return s.maxDelta }

// Timing returns the latest frame timing.
func (s *Scheduler) Timing() Timing {
	return s.timing
}

// Accumulator returns the unconsumed fixed-step time in seconds.
func (s *Scheduler) Accumulator() float64 {
	return s.accumulator
}

// FPS returns 1/DeltaTime, or 0 when the delta is 0.
func (s *Scheduler) FPS() float64 {
	if s.timing.DeltaTime > 0 {
		return 1 / s.timing.DeltaTime
	}
	return 0
}

// AverageFPS returns the mean frame rate over the last SampleCount raw
// frame deltas.
func (s *Scheduler) AverageFPS() float64 {
	return s.ring.average()
}

// FrameTime returns DeltaTime in milliseconds.
func (s *Scheduler) FrameTime() float64 {
	return s.timing.DeltaTime * 1000
}

// Engine returns the driven engine.
func (s *Scheduler) Engine() *engine.Engine {
	return s.eng
}
