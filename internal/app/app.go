// Package app is the process entry contract: it brings up logging and
// tracing, runs a frame.Scheduler over a new engine, and reports an exit
// status.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"time"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/engine"
	"github.com/roach88/ashborn/internal/frame"
	"github.com/roach88/ashborn/internal/logging"
	"github.com/roach88/ashborn/internal/telemetry"
)

// Exit statuses returned by Run.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ServiceName identifies the process in logs and traces.
const ServiceName = "ashborn"

// telemetryFlushTimeout bounds the span flush on exit.
const telemetryFlushTimeout = 5 * time.Second

// Options configures Run.
type Options struct {
	// Logging configures the logger. An empty Dir falls back to
	// global.log_path from the configuration.
	Logging logging.Options

	// Version is reported in logs and trace resources.
	Version string

	// Engine and Frame are appended after the defaults Run installs.
	Engine []engine.EngineOption
	Frame  []frame.Option

	// Stderr receives messages written before a logger exists.
	// Defaults to os.Stderr.
	Stderr io.Writer
}

// Run builds an engine for cfg, drives it with a scheduler calling
// callbacks, and returns ExitSuccess on a clean run. Initialization
// failures, frame failures and panics anywhere in the run yield
// ExitFailure.
func Run(ctx context.Context, cfg config.Config, callbacks any, opts Options) (code int) {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	logOpts := opts.Logging
	if logOpts.Dir == "" {
		logOpts.Dir = cfg.Global.LogPath
	}
	logger, closeLog, err := logging.Setup(logOpts)
	if err != nil {
		fmt.Fprintf(stderr, "ashborn: logger setup failed: %v\n", err)
		return ExitFailure
	}
	defer closeLog()

	defer func() {
		if r := recover(); r != nil {
			logging.Critical(logger, "unhandled panic", "panic", r, "stack", string(debug.Stack()))
			code = ExitFailure
		}
	}()

	version := opts.Version
	if version == "" {
		version = "dev"
	}

	shutdownTracing, err := telemetry.Setup(ctx, ServiceName, version)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("tracing flush failed", "error", err)
		}
	}()

	logger.Info("ashborn starting", "version", version, "network_mode", cfg.Network.Mode)

	eng := engine.New(cfg, append([]engine.EngineOption{engine.WithLogger(logger)}, opts.Engine...)...)
	sched := frame.New(eng, callbacks, append([]frame.Option{frame.WithLogger(logger)}, opts.Frame...)...)

	if err := sched.Run(ctx); err != nil {
		logging.Critical(logger, "run failed", "error", err)
		return ExitFailure
	}
	if issues := eng.ShutdownIssues(); issues != nil {
		logger.Warn("shutdown reported problems", "error", issues)
	}

	logging.Success(logger, "ashborn shutdown complete",
		"frames", sched.Timing().FrameCount,
		"average_fps", sched.AverageFPS(),
		"uptime_s", eng.Uptime())
	return ExitSuccess
}

// RunDefault runs the default configuration with default options.
func RunDefault(ctx context.Context, callbacks any) int {
	return Run(ctx, config.Default(), callbacks, Options{})
}
