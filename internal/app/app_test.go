package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/engine"
	"github.com/roach88/ashborn/internal/frame"
	"github.com/roach88/ashborn/internal/logging"
	"github.com/roach88/ashborn/internal/testutil"
)

func testOptions(t *testing.T, buf *bytes.Buffer, frames uint64) Options {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	t.Setenv(logging.EnvLevel, "")

	clk := testutil.NewManualClock()
	return Options{
		Logging: logging.Options{Level: "debug", Writer: buf},
		Version: "test",
		Engine:  []engine.EngineOption{engine.WithClock(clk)},
		Frame:   []frame.Option{frame.WithClock(clk), frame.WithFrameLimit(frames)},
		Stderr:  buf,
	}
}

func TestRun_CleanExit(t *testing.T) {
	var buf bytes.Buffer
	var updates int
	hooks := &frame.Hooks{Update: func(frame.Timing) { updates++ }}

	code := Run(context.Background(), config.Minimal(), hooks, testOptions(t, &buf, 4))

	assert.Equal(t, ExitSuccess, code)
	assert.Equal(t, 4, updates)
	assert.Contains(t, buf.String(), "ashborn starting")
	assert.Contains(t, buf.String(), "level=SUCCESS")
}

func TestRun_InitFailure(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.Minimal()
	cfg.World.ChunkSize = 48

	code := Run(context.Background(), cfg, nil, testOptions(t, &buf, 1))

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, buf.String(), "level=CRITICAL")
	assert.Contains(t, buf.String(), "ENGINE_INIT_FAILED")
}

func TestRun_CallbackPanic(t *testing.T) {
	var buf bytes.Buffer
	hooks := &frame.Hooks{Render: func(frame.Timing) { panic("renderer exploded") }}

	code := Run(context.Background(), config.Minimal(), hooks, testOptions(t, &buf, 10))

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, buf.String(), "CALLBACK_PANIC")
}

func TestRun_BadLogLevel(t *testing.T) {
	var buf bytes.Buffer
	opts := testOptions(t, &buf, 1)
	opts.Logging.Level = "loud"

	code := Run(context.Background(), config.Minimal(), nil, opts)

	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, buf.String(), "logger setup failed")
}

func TestRun_LogFileFromConfig(t *testing.T) {
	var buf bytes.Buffer
	dir := filepath.Join(t.TempDir(), "logs")
	cfg := config.Minimal()
	cfg.Global.LogPath = dir

	code := Run(context.Background(), cfg, nil, testOptions(t, &buf, 2))
	require.Equal(t, ExitSuccess, code)

	data, err := os.ReadFile(filepath.Join(dir, logging.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ashborn shutdown complete")
}

func TestRun_ContextCancelled(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	code := Run(ctx, config.Minimal(), nil, testOptions(t, &buf, 0))
	assert.Equal(t, ExitSuccess, code)
}
