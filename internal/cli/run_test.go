package cli

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/frame"
	"github.com/roach88/ashborn/internal/logging"
)

// isolate keeps engine runs from touching the process logger or picking up
// overrides from the environment.
func isolate(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv(logging.EnvLevel, "")
}

func executeRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd := NewRootCommand("test")
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRunFrameLimit(t *testing.T) {
	isolate(t)

	_, logs, err := executeRoot(t, "run", "--frames", "3", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, logs, "ashborn starting")
	assert.Contains(t, logs, "level=SUCCESS")
	assert.Contains(t, logs, "frames=3")
}

func TestRunFromConfigFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "ashborn.toml")
	cfg := config.Minimal()
	cfg.Window.Title = "From File"
	require.NoError(t, config.Save(cfg, path))

	_, logs, err := executeRoot(t, "run", "--config", path, "--frames", "1", "--offline", "--log-format", "json")
	require.NoError(t, err)
	assert.Contains(t, logs, `"msg":"ashborn starting"`)
	assert.Contains(t, logs, `"network_mode":"offline"`)
}

func TestRunWritesProfileJournal(t *testing.T) {
	isolate(t)
	db := filepath.Join(t.TempDir(), "profile.db")

	_, _, err := executeRoot(t, "run", "--frames", "2", "--profile", db, "--log-level", "off")
	require.NoError(t, err)

	info, err := os.Stat(db)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestRunLogDirectory(t *testing.T) {
	isolate(t)
	dir := t.TempDir()

	_, _, err := executeRoot(t, "run", "--frames", "1", "--log-dir", dir)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, logging.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ashborn shutdown complete")
}

func TestRunCommandErrors(t *testing.T) {
	isolate(t)

	tests := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{"unknown preset", []string{"run", "--preset", "huge"}, nil, `unknown preset "huge"`},
		{"missing config", []string{"run", "--config", "nope.yaml"}, nil, "failed to load configuration"},
		{"unsupported extension", []string{"run", "--config", "ashborn.ini"}, nil, "unsupported config format"},
		{"invalid env override", []string{"run"}, map[string]string{"ASHBORN_WORLD_CHUNK_SIZE": "48"}, "power of two"},
		{"positional args", []string{"run", "extra"}, nil, "unknown command"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, _, err := executeRoot(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			if tt.name != "positional args" {
				assert.Equal(t, ExitCommandError, GetExitCode(err))
			}
		})
	}
}

func TestRunEngineFailureExitCode(t *testing.T) {
	isolate(t)

	logs := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(logs)
	cmd.SetContext(context.Background())

	opts := &RunOptions{
		RootOptions: &RootOptions{Format: "text", LogLevel: "info"},
		Preset:      "minimal",
		Frames:      5,
		TargetFPS:   -1,
		LogFormat:   "text",
		Callbacks:   &frame.Hooks{Update: func(frame.Timing) { panic("gameplay bug") }},
	}

	err := runEngine(opts, cmd)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, err.Error(), "engine exited with status 1")
	assert.Contains(t, logs.String(), "CALLBACK_PANIC")
}

func TestRunCancelledContext(t *testing.T) {
	isolate(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := NewRootCommand("test")
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"run", "--log-level", "off"})

	require.NoError(t, cmd.ExecuteContext(ctx))
}

func TestResolveConfigPresets(t *testing.T) {
	t.Setenv("ASHBORN_GLOBAL_TARGET_FPS", "75")

	cfg, err := resolveConfig("minimal", "")
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 75, cfg.Global.TargetFPS)

	_, err = resolveConfig("", "")
	require.NoError(t, err)
}
