package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const harnessScenarios = "../harness/testdata/scenarios"

const failingScenario = `name: expects_offline_network
description: "Asserts an availability the minimal preset cannot produce"
preset: minimal
frames: 1
assertions:
  - type: available
    stages: [network]
`

func TestTestCommandRunsHarnessScenarios(t *testing.T) {
	out, _, err := executeRoot(t, "test", harnessScenarios)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ boot_run_shutdown (ok, 2 frames)")
	assert.Contains(t, out, "✓ renderer_failure_rolls_back (error, 0 frames)")
	assert.Contains(t, out, "8 passed, 0 failed, 8 total")
}

func TestTestCommandFilter(t *testing.T) {
	out, _, err := executeRoot(t, "--format", "json", "test", harnessScenarios, "--filter", "*failure*")
	require.NoError(t, err)

	var resp struct {
		Status string     `json:"status"`
		Data   TestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Data.Total)
	for _, s := range resp.Data.Scenarios {
		assert.True(t, s.Pass, s.Name)
	}
}

func TestTestCommandFailingScenario(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "expects.yaml"), []byte(failingScenario), 0o644))

	out, _, err := executeRoot(t, "test", dir, "--golden-dir", filepath.Join(dir, "golden"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ expects_offline_network")
	assert.Contains(t, out, "0 passed, 1 failed, 1 total")
}

func TestTestCommandUpdateThenCompare(t *testing.T) {
	root := t.TempDir()
	scenarios := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(scenarios, 0o755))

	src, err := os.ReadFile(filepath.Join(harnessScenarios, "boot_run_shutdown.yaml"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(scenarios, "boot.yaml"), src, 0o644))

	_, _, err = executeRoot(t, "test", scenarios, "--update")
	require.NoError(t, err)

	goldenPath := filepath.Join(root, "golden", "boot_run_shutdown.golden")
	written, err := os.ReadFile(goldenPath)
	require.NoError(t, err)
	want, err := os.ReadFile(filepath.Join("..", "harness", "testdata", "golden", "boot_run_shutdown.golden"))
	require.NoError(t, err)
	assert.Equal(t, string(want), string(written))

	_, _, err = executeRoot(t, "test", scenarios)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(goldenPath, []byte("scenario: boot_run_shutdown\n"), 0o644))
	out, _, err := executeRoot(t, "test", scenarios)
	require.Error(t, err)
	assert.Contains(t, out, "does not match golden file")
}

func TestTestCommandErrors(t *testing.T) {
	_, _, err := executeRoot(t, "test", filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	out, _, err := executeRoot(t, "test", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")

	_, _, err = executeRoot(t, "test", harnessScenarios, "--filter", "[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid filter pattern")
}
