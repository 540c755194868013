package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/subsystem"
)

// Scenario defines one lifecycle run and what it must produce.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Preset selects the base configuration. Empty means "minimal".
	Preset string `yaml:"preset,omitempty"`

	// Network overrides network.mode.
	Network string `yaml:"network,omitempty"`

	// Fail lists stages whose Init returns their kind's typed error.
	Fail []string `yaml:"fail,omitempty"`

	// FailShutdown lists stages whose Shutdown returns an error.
	FailShutdown []string `yaml:"fail_shutdown,omitempty"`

	// Frames is the number of frames to run. Required, at least 1.
	Frames int `yaml:"frames"`

	// FrameMS is simulated work per frame in milliseconds.
	FrameMS float64 `yaml:"frame_ms,omitempty"`

	// TimeScale overrides the scheduler time scale when set.
	TimeScale *float64 `yaml:"time_scale,omitempty"`

	// TargetFPS overrides global.target_fps.
	TargetFPS int `yaml:"target_fps,omitempty"`

	// FixedTimestep overrides global.fixed_timestep (seconds).
	FixedTimestep float64 `yaml:"fixed_timestep,omitempty"`

	// Assertions validate the trace and outcome.
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates the trace or the outcome.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Event is a "kind:name" event (trace_contains, trace_count).
	Event string `yaml:"event,omitempty"`

	// Events is the expected order (trace_order).
	Events []string `yaml:"events,omitempty"`

	// Count is the expected number of occurrences (trace_count).
	Count int `yaml:"count,omitempty"`

	// Expect is "ok" or "error" (result).
	Expect string `yaml:"expect,omitempty"`

	// Code must appear in the error chain (result, optional).
	Code string `yaml:"code,omitempty"`

	// Stages lists stage kinds (available, unavailable).
	Stages []string `yaml:"stages,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertResult        = "result"
	AssertAvailable     = "available"
	AssertUnavailable   = "unavailable"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is invalid.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if !e.IsDir() && (ext == ".yaml" || ext == ".yml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	scenarios := make([]*Scenario, 0, len(names))
	seen := make(map[string]string, len(names))
	for _, name := range names {
		sc, err := LoadScenario(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if prev, dup := seen[sc.Name]; dup {
			return nil, fmt.Errorf("%s: scenario name %q already used by %s", name, sc.Name, prev)
		}
		seen[sc.Name] = name
		scenarios = append(scenarios, sc)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if _, ok := config.Preset(s.Preset); !ok {
		return fmt.Errorf("unknown preset %q", s.Preset)
	}
	if s.Network != "" && !config.NetworkMode(s.Network).Valid() {
		return fmt.Errorf("unknown network mode %q", s.Network)
	}
	if s.Frames < 1 {
		return fmt.Errorf("frames must be at least 1")
	}
	if s.FrameMS < 0 {
		return fmt.Errorf("frame_ms must be non-negative")
	}
	if s.TargetFPS < 0 {
		return fmt.Errorf("target_fps must be non-negative")
	}
	if s.TimeScale != nil && *s.TimeScale < 0 {
		return fmt.Errorf("time_scale must be non-negative")
	}
	for i, st := range s.Fail {
		if !knownStage(st) {
			return fmt.Errorf("fail[%d]: unknown stage %q", i, st)
		}
	}
	for i, st := range s.FailShutdown {
		if !knownStage(st) {
			return fmt.Errorf("fail_shutdown[%d]: unknown stage %q", i, st)
		}
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func knownStage(name string) bool {
	for _, k := range subsystem.Order {
		if string(k) == name {
			return true
		}
	}
	return false
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Events) == 0 {
			return fmt.Errorf("assertions[%d]: events list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Event == "" {
			return fmt.Errorf("assertions[%d]: event is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertResult:
		if a.Expect != OutcomeOK && a.Expect != OutcomeError {
			return fmt.Errorf("assertions[%d]: expect must be %q or %q for result", index, OutcomeOK, OutcomeError)
		}
	case AssertAvailable, AssertUnavailable:
		if len(a.Stages) == 0 {
			return fmt.Errorf("assertions[%d]: stages list is required for %s", index, a.Type)
		}
		for _, st := range a.Stages {
			if !knownStage(st) {
				return fmt.Errorf("assertions[%d]: unknown stage %q", index, st)
			}
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
