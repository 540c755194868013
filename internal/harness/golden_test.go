package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Render(t *testing.T) {
	r := NewResult()
	r.Outcome = OutcomeError
	r.Codes = []string{"ENGINE_INIT_FAILED", "SUBSYSTEM_FAILURE"}
	r.add(EventInit, "core")
	r.add(EventFail, "display")
	r.add(EventShutdown, "core")

	want := "scenario: demo\n" +
		"outcome: error\n" +
		"codes: ENGINE_INIT_FAILED SUBSYSTEM_FAILURE\n" +
		"frames: 0\n" +
		"trace:\n" +
		"  init:core\n" +
		"  fail:display\n" +
		"  shutdown:core\n"
	assert.Equal(t, want, string(Snapshot("demo", r).Render()))
}

func TestSnapshot_RenderOmitsEmptyCodes(t *testing.T) {
	r := NewResult()
	r.Frames = 2
	assert.Equal(t, "scenario: x\noutcome: ok\nframes: 2\ntrace:\n", string(Snapshot("x", r).Render()))
}

// TestScenarios runs every scenario under testdata/scenarios and compares
// its trace against the golden file of the same name.
func TestScenarios(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)
	require.NotEmpty(t, scenarios)

	for _, sc := range scenarios {
		t.Run(sc.Name, func(t *testing.T) {
			result, err := RunWithGolden(t, sc)
			require.NoError(t, err)
			assert.True(t, result.Pass, "scenario %s failed: %v", sc.Name, result.Errors)
		})
	}
}
