package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScenario(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, t.TempDir(), "ok.yaml", `
name: valid
description: "loads"
preset: maximal
network: p2p_client
fail: [audio]
fail_shutdown: [world]
frames: 3
frame_ms: 12.5
time_scale: 0.5
target_fps: 60
fixed_timestep: 0.02
assertions:
  - type: result
    expect: ok
`)

	sc, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "valid", sc.Name)
	assert.Equal(t, "maximal", sc.Preset)
	assert.Equal(t, []string{"audio"}, sc.Fail)
	assert.Equal(t, []string{"world"}, sc.FailShutdown)
	assert.Equal(t, 3, sc.Frames)
	assert.InDelta(t, 12.5, sc.FrameMS, 1e-12)
	require.NotNil(t, sc.TimeScale)
	assert.InDelta(t, 0.5, *sc.TimeScale, 1e-12)
	assert.Equal(t, 60, sc.TargetFPS)
}

func TestLoadScenario_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"unknown field", "name: x\ndescription: d\nframes: 1\nassertion: []\n", "failed to parse YAML"},
		{"missing name", "description: d\nframes: 1\nassertions: [{type: result, expect: ok}]\n", "name is required"},
		{"missing description", "name: x\nframes: 1\nassertions: [{type: result, expect: ok}]\n", "description is required"},
		{"no frames", "name: x\ndescription: d\nassertions: [{type: result, expect: ok}]\n", "frames must be at least 1"},
		{"bad preset", "name: x\ndescription: d\npreset: huge\nframes: 1\nassertions: [{type: result, expect: ok}]\n", "unknown preset"},
		{"bad network", "name: x\ndescription: d\nnetwork: lan\nframes: 1\nassertions: [{type: result, expect: ok}]\n", "unknown network mode"},
		{"bad stage", "name: x\ndescription: d\nfail: [physics]\nframes: 1\nassertions: [{type: result, expect: ok}]\n", "unknown stage"},
		{"negative scale", "name: x\ndescription: d\ntime_scale: -1\nframes: 1\nassertions: [{type: result, expect: ok}]\n", "time_scale"},
		{"no assertions", "name: x\ndescription: d\nframes: 1\n", "assertions list is required"},
		{"unknown assertion", "name: x\ndescription: d\nframes: 1\nassertions: [{type: final_state}]\n", "unknown assertion type"},
		{"contains without event", "name: x\ndescription: d\nframes: 1\nassertions: [{type: trace_contains}]\n", "event is required"},
		{"order without events", "name: x\ndescription: d\nframes: 1\nassertions: [{type: trace_order}]\n", "events list is required"},
		{"bad result", "name: x\ndescription: d\nframes: 1\nassertions: [{type: result, expect: maybe}]\n", "expect must be"},
		{"available without stages", "name: x\ndescription: d\nframes: 1\nassertions: [{type: available}]\n", "stages list is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), "s.yaml", tt.body)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	body := "description: d\nframes: 1\nassertions: [{type: result, expect: ok}]\n"
	writeScenario(t, dir, "b.yaml", "name: second\n"+body)
	writeScenario(t, dir, "a.yml", "name: first\n"+body)
	writeScenario(t, dir, "notes.txt", "ignored")

	scenarios, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)
	assert.Equal(t, "first", scenarios[0].Name)
	assert.Equal(t, "second", scenarios[1].Name)
}

func TestLoadDir_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	body := "name: same\ndescription: d\nframes: 1\nassertions: [{type: result, expect: ok}]\n"
	writeScenario(t, dir, "a.yaml", body)
	writeScenario(t, dir, "b.yaml", body)

	_, err := LoadDir(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already used")
}
