package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenDir is where golden traces live, relative to the package under test.
const GoldenDir = "testdata/golden"

// TraceSnapshot captures the observable outcome of a scenario execution.
type TraceSnapshot struct {
	ScenarioName string
	Outcome      string
	Codes        []string
	Frames       uint64
	Trace        []TraceEvent
}

// Snapshot builds the snapshot of a result.
func Snapshot(name string, result *Result) TraceSnapshot {
	return TraceSnapshot{
		ScenarioName: name,
		Outcome:      result.Outcome,
		Codes:        result.Codes,
		Frames:       result.Frames,
		Trace:        result.Trace,
	}
}

// Render formats the snapshot as stable, line-oriented text.
func (s TraceSnapshot) Render() []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario: %s\n", s.ScenarioName)
	fmt.Fprintf(&b, "outcome: %s\n", s.Outcome)
	if len(s.Codes) > 0 {
		fmt.Fprintf(&b, "codes: %s\n", strings.Join(s.Codes, " "))
	}
	fmt.Fprintf(&b, "frames: %d\n", s.Frames)
	b.WriteString("trace:\n")
	for _, ev := range s.Trace {
		fmt.Fprintf(&b, "  %s\n", ev)
	}
	return []byte(b.String())
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Snapshot(scenarioName, result).Render())
}
