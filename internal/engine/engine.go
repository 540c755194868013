package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/ashborn/internal/clock"
	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/logging"
	"github.com/roach88/ashborn/internal/profile"
	"github.com/roach88/ashborn/internal/subsystem"
	"github.com/roach88/ashborn/internal/telemetry"
)

// State is the orchestrator lifecycle state.
type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateRunning
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting_down"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Collaborators is the set of subsystems the engine brings up. A nil entry
// means the stage is not configured and is left out entirely. A nil Core
// selects the built-in core services stage.
type Collaborators struct {
	Core     subsystem.Subsystem
	Display  subsystem.Display
	Renderer subsystem.Subsystem
	Input    subsystem.Subsystem
	Audio    subsystem.Subsystem
	World    subsystem.Subsystem
	Network  subsystem.Subsystem
	Assets   subsystem.Subsystem
}

func (c Collaborators) get(kind subsystem.Kind) subsystem.Subsystem {
	switch kind {
	case subsystem.KindCore:
		return c.Core
	case subsystem.KindDisplay:
		if c.Display == nil {
			return nil
		}
		return c.Display
	case subsystem.KindRenderer:
		return c.Renderer
	case subsystem.KindInput:
		return c.Input
	case subsystem.KindAudio:
		return c.Audio
	case subsystem.KindWorld:
		return c.World
	case subsystem.KindNetwork:
		return c.Network
	case subsystem.KindAssets:
		return c.Assets
	default:
		return nil
	}
}

// Factory builds the collaborators for one bring-up. It is called by
// Initialize with the configuration being brought up and the dispatcher the
// display must post window events to.
type Factory func(cfg config.Config, events *subsystem.EventDispatcher) (Collaborators, error)

// stage is one entry of the bring-up list.
type stage struct {
	kind    subsystem.Kind
	sub     subsystem.Subsystem
	up      bool
	skipped bool
}

// Engine is the subsystem orchestrator.
//
// It owns the configuration, brings the collaborators up in the fixed order
// of subsystem.Order, rolls back on a critical failure, tears everything
// down in reverse, and serves a lazily refreshed EngineStats snapshot.
//
// Thread-safety model:
//   - Initialize, Shutdown, UpdateConfig, reloads, profiling: loop goroutine
//   - RequestExit, IsRunning, IsInitialized, Stats, RecordFrame: any goroutine
//
// INVARIANTS:
//   - running implies initialized
//   - stages are torn down in strict reverse bring-up order
//   - a failed critical bring-up leaves no stage initialized
type Engine struct {
	cfg        config.Config
	generation *Generation
	factory    Factory
	clock      clock.Clock
	logger     *slog.Logger
	tracer     trace.Tracer
	sessions   SessionIDGenerator
	events     *subsystem.EventDispatcher

	state       State
	initialized atomic.Bool
	running     atomic.Bool
	paused      bool
	stages      []*stage
	display     subsystem.Display
	session     string
	createdAt   time.Time
	issues      error

	journal  *profile.Store
	profiles map[string]time.Time

	statsInterval time.Duration
	statsMu       sync.Mutex
	stats         statsCache
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithClock sets the time source. Default: clock.System{}.
func WithClock(c clock.Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithFactory sets the collaborator factory. Default: headless collaborators.
func WithFactory(f Factory) EngineOption {
	return func(e *Engine) {
		e.factory = f
	}
}

// WithTracerProvider sets the provider spans are recorded with.
// Default: the global OpenTelemetry provider.
func WithTracerProvider(tp trace.TracerProvider) EngineOption {
	return func(e *Engine) {
		e.tracer = telemetry.Tracer(tp)
	}
}

// WithSessionIDs sets the session id generator. Default: UUIDv7Generator.
func WithSessionIDs(g SessionIDGenerator) EngineOption {
	return func(e *Engine) {
		e.sessions = g
	}
}

// WithStatsInterval sets the EngineStats refresh interval.
//
// Default: 100ms (DefaultStatsInterval)
func WithStatsInterval(d time.Duration) EngineOption {
	return func(e *Engine) {
		e.statsInterval = d
	}
}

// New creates an uninitialized engine owning a copy of cfg.
func New(cfg config.Config, opts ...EngineOption) *Engine {
	e := &Engine{
		cfg:           cfg.Clone(),
		generation:    NewGeneration(),
		factory:       headlessFactory,
		clock:         clock.System{},
		logger:        slog.Default(),
		sessions:      UUIDv7Generator{},
		events:        subsystem.NewEventDispatcher(),
		profiles:      make(map[string]time.Time),
		statsInterval: DefaultStatsInterval,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.tracer == nil {
		e.tracer = telemetry.Tracer(nil)
	}
	e.createdAt = e.clock.Now()
	return e
}

// Initialize validates the configuration and brings every configured stage
// up in order.
//
// A critical stage failure rolls back, in reverse order, every stage that
// already came up and returns an *Error with code SUBSYSTEM_FAILURE that
// wraps the stage's typed error. Optional stages (audio, network) degrade:
// the failure is logged, the stage stays down, and a failed network forces
// the configuration offline. The network stage is skipped when offline.
func (e *Engine) Initialize(ctx context.Context) (err error) {
	if e.initialized.Load() {
		return errAlreadyInitialized()
	}

	ctx, span := e.tracer.Start(ctx, "engine.initialize")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if verr := config.Validate(e.cfg); verr != nil {
		e.logger.Error("configuration rejected", "error", verr)
		return errInvalidConfiguration(verr)
	}

	e.state = StateInitializing
	e.session = e.sessions.Generate()
	span.SetAttributes(attribute.String("ashborn.session", e.session))
	e.logger.Info("engine initializing", "session", e.session, "network_mode", e.cfg.Network.Mode)

	collab, ferr := e.factory(e.cfg.Clone(), e.events)
	if ferr != nil {
		e.state = StateUninitialized
		cause := subsystem.NewCoreError(subsystem.CoreInitFailed, "build collaborators", ferr)
		e.logger.Error("collaborator construction failed", "error", ferr)
		return errSubsystemFailure(subsystem.KindCore, cause)
	}
	if collab.Core == nil {
		collab.Core = &coreServices{e: e}
	}

	e.stages = e.stages[:0]
	for _, kind := range subsystem.Order {
		sub := collab.get(kind)
		if sub == nil {
			continue
		}
		st := &stage{kind: kind, sub: sub}
		e.stages = append(e.stages, st)

		if kind == subsystem.KindNetwork && e.cfg.Network.Mode == config.NetworkOffline {
			st.skipped = true
			e.logger.Info("network stage skipped", "mode", config.NetworkOffline)
			continue
		}

		if serr := e.initStage(ctx, st); serr != nil {
			if kind.Critical() {
				e.logger.Error("critical stage failed, rolling back", "stage", kind, "error", serr)
				e.rollback(ctx)
				e.stages = nil
				e.display = nil
				e.state = StateUninitialized
				return errSubsystemFailure(kind, serr)
			}
			e.logger.Warn("optional stage failed, continuing degraded", "stage", kind, "error", serr)
			if kind == subsystem.KindNetwork {
				e.cfg.Network.Mode = config.NetworkOffline
				e.generation.Next()
				e.logger.Warn("network forced offline")
			}
			continue
		}
		st.up = true
	}

	if collab.Display != nil && e.Available(subsystem.KindDisplay) {
		e.display = collab.Display
	}

	e.state = StateReady
	e.initialized.Store(true)
	e.running.Store(true)
	e.state = StateRunning
	e.resetStats()

	logging.Success(e.logger, "engine initialized", "session", e.session, "stages", e.upStages())
	return nil
}

func (e *Engine) initStage(ctx context.Context, st *stage) (err error) {
	ctx, span := e.tracer.Start(ctx, "engine.stage.init",
		trace.WithAttributes(attribute.String("ashborn.stage", string(st.kind))))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	e.logger.Debug("stage init", "stage", st.kind, "name", st.sub.Name())
	return st.sub.Init(ctx)
}

func (e *Engine) shutdownStage(ctx context.Context, st *stage) (err error) {
	ctx, span := e.tracer.Start(ctx, "engine.stage.shutdown",
		trace.WithAttributes(attribute.String("ashborn.stage", string(st.kind))))
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s shutdown panicked: %v", st.kind, r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	e.logger.Debug("stage shutdown", "stage", st.kind, "name", st.sub.Name())
	if err := st.sub.Shutdown(ctx); err != nil {
		return fmt.Errorf("%s: %w", st.kind, err)
	}
	return nil
}

// rollback shuts down, in reverse order, every stage that came up.
func (e *Engine) rollback(ctx context.Context) {
	for i := len(e.stages) - 1; i >= 0; i-- {
		st := e.stages[i]
		if !st.up {
			continue
		}
		if err := e.shutdownStage(ctx, st); err != nil {
			e.logger.Warn("rollback shutdown reported a problem", "stage", st.kind, "error", err)
		}
		st.up = false
	}
}

// Shutdown tears down every stage in reverse bring-up order.
//
// Every stage's Shutdown is called, including stages that never came up;
// problems are logged and collected (see ShutdownIssues) but never stop the
// remaining tear-down. Shutdown only fails when the engine is not
// initialized, in which case no subsystem is touched.
func (e *Engine) Shutdown(ctx context.Context) error {
	if !e.initialized.Load() {
		return errNotInitialized("shutdown")
	}

	ctx, span := e.tracer.Start(ctx, "engine.shutdown")
	defer span.End()

	e.state = StateShuttingDown
	e.running.Store(false)
	e.logger.Info("engine shutting down", "session", e.session)

	var issues []error
	for i := len(e.stages) - 1; i >= 0; i-- {
		st := e.stages[i]
		if err := e.shutdownStage(ctx, st); err != nil {
			e.logger.Warn("stage shutdown reported a problem", "stage", st.kind, "error", err)
			issues = append(issues, err)
		}
		st.up = false
	}

	e.issues = errors.Join(issues...)
	if e.issues != nil {
		span.RecordError(e.issues)
	}
	e.stages = nil
	e.display = nil
	e.initialized.Store(false)
	e.state = StateUninitialized
	e.resetStats()

	logging.Success(e.logger, "engine shut down", "session", e.session, "issues", len(issues))
	return nil
}

// ShutdownIssues returns the joined tear-down problems of the last Shutdown,
// or nil if every stage shut down cleanly.
func (e *Engine) ShutdownIssues() error {
	return e.issues
}

// RequestExit marks the engine as no longer running. Idempotent.
func (e *Engine) RequestExit() {
	if e.running.CompareAndSwap(true, false) {
		e.logger.Info("engine exit requested")
	}
}

// IsRunning reports whether the engine is initialized and no exit was requested.
func (e *Engine) IsRunning() bool {
	return e.running.Load()
}

// IsInitialized reports whether bring-up completed and Shutdown has not run.
func (e *Engine) IsInitialized() bool {
	return e.initialized.Load()
}

// State returns the lifecycle state.
func (e *Engine) State() State {
	return e.state
}

// Available reports whether the stage of the given kind is up.
func (e *Engine) Available(kind subsystem.Kind) bool {
	for _, st := range e.stages {
		if st.kind == kind {
			return st.up
		}
	}
	return false
}

func (e *Engine) upStages() []string {
	var out []string
	for _, st := range e.stages {
		if st.up {
			out = append(out, string(st.kind))
		}
	}
	return out
}

// SetPaused records the pause flag and forwards it to every running
// subsystem that implements subsystem.Pauser.
func (e *Engine) SetPaused(paused bool) {
	if e.paused == paused {
		return
	}
	e.paused = paused
	for _, st := range e.stages {
		if p, ok := st.sub.(subsystem.Pauser); ok && st.up {
			p.SetPaused(paused)
		}
	}
	e.logger.Debug("engine pause changed", "paused", paused)
}

// Paused returns the pause flag.
func (e *Engine) Paused() bool {
	return e.paused
}

// Events returns the dispatcher the display posts window events to.
func (e *Engine) Events() *subsystem.EventDispatcher {
	return e.events
}

// Display returns the display collaborator while it is up, or nil.
func (e *Engine) Display() subsystem.Display {
	return e.display
}

// Present hands the finished frame to the display, if one is up.
func (e *Engine) Present() error {
	if e.display == nil {
		return nil
	}
	return e.display.Present()
}

// Config returns a copy of the current configuration.
func (e *Engine) Config() config.Config {
	return e.cfg.Clone()
}

// ConfigGeneration returns a counter that moves whenever the configuration
// changes.
func (e *Engine) ConfigGeneration() int64 {
	return e.generation.Current()
}

// SessionID returns the id of the current (or last) bring-up.
func (e *Engine) SessionID() string {
	return e.session
}

// Uptime returns seconds since the engine was constructed.
func (e *Engine) Uptime() float64 {
	return e.clock.Now().Sub(e.createdAt).Seconds()
}
