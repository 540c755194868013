package harness

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/engine"
	"github.com/roach88/ashborn/internal/frame"
	"github.com/roach88/ashborn/internal/logging"
	"github.com/roach88/ashborn/internal/subsystem"
	"github.com/roach88/ashborn/internal/testutil"
)

// DefaultPreset is used when a scenario names no preset.
const DefaultPreset = "minimal"

// Run executes a scenario and returns the result.
//
// Each scenario runs a fresh engine and scheduler over recording
// collaborators and a manual clock, so identical scenarios produce
// identical traces.
//
// Execution flow:
//  1. Build the configuration from the preset and overrides
//  2. Run the scheduler for the scenario's frames
//  3. Record the outcome and the error codes along the error chain
//  4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("nil scenario")
	}
	cfg, err := scenarioConfig(scenario)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	clk := testutil.NewManualClock()
	logger := logging.Discard()

	eng := engine.New(cfg,
		engine.WithClock(clk),
		engine.WithLogger(logger),
		engine.WithFactory(recordingFactory(scenario, result)),
		engine.WithSessionIDs(engine.NewFixedGenerator("scenario-"+scenario.Name)),
	)

	work := time.Duration(scenario.FrameMS * float64(time.Millisecond))
	hooks := &frame.Hooks{
		Start: func() {
			result.add(EventHook, "start")
			for _, k := range subsystem.Order {
				result.Available[string(k)] = eng.Available(k)
			}
		},
		FixedUpdate: func(float64) { result.add(EventHook, "fixed_update") },
		Update: func(frame.Timing) {
			result.add(EventHook, "update")
			clk.Advance(work)
		},
		Render:   func(frame.Timing) { result.add(EventHook, "render") },
		GUI:      func() { result.add(EventHook, "gui") },
		Shutdown: func() { result.add(EventHook, "shutdown") },
	}

	sched := frame.New(eng, hooks,
		frame.WithClock(clk),
		frame.WithLogger(logger),
		frame.WithFrameLimit(uint64(scenario.Frames)),
	)
	if scenario.TimeScale != nil {
		sched.SetTimeScale(*scenario.TimeScale)
	}

	if runErr := sched.Run(context.Background()); runErr != nil {
		result.Outcome = OutcomeError
		result.Codes = errorCodes(runErr)
	}
	result.Frames = sched.Timing().FrameCount

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

func scenarioConfig(sc *Scenario) (config.Config, error) {
	preset := sc.Preset
	if preset == "" {
		preset = DefaultPreset
	}
	cfg, ok := config.Preset(preset)
	if !ok {
		return config.Config{}, fmt.Errorf("unknown preset %q", sc.Preset)
	}
	// Recording collaborators touch no files.
	cfg.Assets.Paths = nil
	if sc.Network != "" {
		cfg.Network.Mode = config.NetworkMode(sc.Network)
	}
	if sc.TargetFPS > 0 {
		cfg.Global.TargetFPS = sc.TargetFPS
	}
	if sc.FixedTimestep > 0 {
		cfg.Global.FixedTimestep = sc.FixedTimestep
	}
	return cfg, nil
}

// errorCodes collects the code of every typed error along err's chain.
func errorCodes(err error) []string {
	var codes []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch v := e.(type) {
		case *frame.Error:
			codes = append(codes, string(v.Code))
		case *engine.Error:
			codes = append(codes, string(v.Code))
		case interface{ CodeString() string }:
			codes = append(codes, v.CodeString())
		}
	}
	return codes
}
