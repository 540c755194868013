package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ashborn/internal/config"
)

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "ashborn.yaml")

	out, _, err := executeRoot(t, "config", "init", path, "--preset", "maximal")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote maximal preset to")

	cfg, err := config.LoadOnto(config.Maximal(), path)
	require.NoError(t, err)
	assert.Equal(t, config.Maximal().Window.Width, cfg.Window.Width)

	_, _, err = executeRoot(t, "config", "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, _, err = executeRoot(t, "config", "init", path, "--force", "--preset", "minimal")
	require.NoError(t, err)
}

func TestConfigInitRejects(t *testing.T) {
	dir := t.TempDir()

	_, _, err := executeRoot(t, "config", "init", filepath.Join(dir, "a.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported config format")

	_, _, err = executeRoot(t, "config", "init", filepath.Join(dir, "a.toml"), "--preset", "tiny")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown preset "tiny"`)
}

func TestConfigValidate(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.toml")
	require.NoError(t, config.Save(config.Minimal(), good))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("world:\n  chunk_size: 48\nwindow:\n  width: 0\n"), 0o644))

	t.Run("valid", func(t *testing.T) {
		out, _, err := executeRoot(t, "config", "validate", good)
		require.NoError(t, err)
		assert.Contains(t, out, "✓")
		assert.Contains(t, out, "is valid")
	})

	t.Run("invalid lists every problem", func(t *testing.T) {
		out, _, err := executeRoot(t, "config", "validate", bad)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, out, "✗")
		assert.Contains(t, out, "world.chunk_size must be a power of two (got 48)")
		assert.Contains(t, out, "window dimensions must be positive")
	})

	t.Run("invalid json", func(t *testing.T) {
		out, _, err := executeRoot(t, "--format", "json", "config", "validate", bad)
		require.Error(t, err)

		var resp CLIResponse
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "error", resp.Status)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "INVALID_CONFIGURATION", resp.Error.Code)
	})

	t.Run("unknown key", func(t *testing.T) {
		typo := filepath.Join(dir, "typo.yaml")
		require.NoError(t, os.WriteFile(typo, []byte("window:\n  widht: 1024\n"), 0o644))

		out, _, err := executeRoot(t, "config", "validate", typo)
		require.Error(t, err)
		assert.Equal(t, ExitFailure, GetExitCode(err))
		assert.Contains(t, out, "widht")
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := executeRoot(t, "config", "validate", filepath.Join(dir, "absent.yaml"))
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
		assert.Contains(t, err.Error(), "not found")
	})
}

func TestConfigShow(t *testing.T) {
	t.Run("yaml", func(t *testing.T) {
		out, _, err := executeRoot(t, "config", "show", "--preset", "minimal")
		require.NoError(t, err)
		assert.Contains(t, out, "width: 800")
		assert.Contains(t, out, "mode: offline")
	})

	t.Run("toml", func(t *testing.T) {
		out, _, err := executeRoot(t, "config", "show", "--preset", "minimal", "--as", "toml")
		require.NoError(t, err)
		assert.Contains(t, out, "[window]")
	})

	t.Run("json", func(t *testing.T) {
		out, _, err := executeRoot(t, "--format", "json", "config", "show", "--preset", "minimal")
		require.NoError(t, err)

		var resp struct {
			Status string        `json:"status"`
			Data   config.Config `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &resp))
		assert.Equal(t, "ok", resp.Status)
		assert.Equal(t, 600, resp.Data.Window.Height)
	})

	t.Run("environment overlay", func(t *testing.T) {
		t.Setenv("ASHBORN_WINDOW_TITLE", "Env Title")
		out, _, err := executeRoot(t, "config", "show", "--preset", "minimal")
		require.NoError(t, err)
		assert.Contains(t, out, "Env Title")
	})

	t.Run("unknown encoding", func(t *testing.T) {
		_, _, err := executeRoot(t, "config", "show", "--as", "ini")
		require.Error(t, err)
		assert.Equal(t, ExitCommandError, GetExitCode(err))
	})
}

func TestConfigDiff(t *testing.T) {
	dir := t.TempDir()
	before := filepath.Join(dir, "before.yaml")
	after := filepath.Join(dir, "after.yaml")

	cfg := config.Minimal()
	require.NoError(t, config.Save(cfg, before))
	cfg.Window.Title = "Renamed"
	cfg.Window.Width = 1024
	cfg.Global.TargetFPS = 144
	require.NoError(t, config.Save(cfg, after))

	out, _, err := executeRoot(t, "config", "diff", before, after, "--preset", "minimal")
	require.NoError(t, err)
	assert.Contains(t, out, "restart  window.width")
	assert.Contains(t, out, "live     window.title")
	assert.Contains(t, out, "live     global.target_fps")

	out, _, err = executeRoot(t, "--format", "json", "config", "diff", before, after, "--preset", "minimal")
	require.NoError(t, err)
	var resp struct {
		Data []FieldChange `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []FieldChange{
		{Path: "window.title", Live: true},
		{Path: "window.width", Live: false},
		{Path: "global.target_fps", Live: true},
	}, resp.Data)

	out, _, err = executeRoot(t, "config", "diff", before, before, "--preset", "minimal")
	require.NoError(t, err)
	assert.Contains(t, out, "No differences.")
}
