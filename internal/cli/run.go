package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/ashborn/internal/app"
	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/frame"
	"github.com/roach88/ashborn/internal/logging"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Config    string
	Preset    string
	Frames    uint64
	TargetFPS int
	Offline   bool
	Profile   string
	LogDir    string
	LogFormat string

	// Callbacks overrides the no-op callback set (for testing).
	Callbacks any
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Boot the engine and drive the frame loop",
		Long: `Boot the engine, run the frame loop until the window closes, the frame
limit is reached or the process receives SIGINT/SIGTERM, then shut down.

The configuration starts from --preset, is overlaid by --config when
given, then by ASHBORN_* environment variables and finally by flags.

Exit codes:
  0 - Clean shutdown
  1 - Engine failure (initialization, frame or callback panic)
  2 - Command error (bad flags, unreadable or invalid configuration)

Examples:
  ashborn run --preset minimal --frames 600
  ashborn run --config ./ashborn.yaml --fps 144
  ashborn run --offline --profile ./profile.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEngine(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "configuration file (.yaml, .yml or .toml)")
	cmd.Flags().StringVar(&opts.Preset, "preset", "minimal", "base preset (default|minimal|maximal)")
	cmd.Flags().Uint64Var(&opts.Frames, "frames", 0, "stop after this many frames (0 = until closed)")
	cmd.Flags().IntVar(&opts.TargetFPS, "fps", -1, "target frame rate (0 = unlimited, -1 = from config)")
	cmd.Flags().BoolVar(&opts.Offline, "offline", false, "force offline network mode")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "enable profiling and journal to this SQLite file")
	cmd.Flags().StringVar(&opts.LogDir, "log-dir", "", "directory for ashborn.log (default: global.log_path)")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "text", "log record format (text|json)")

	return cmd
}

func runEngine(opts *RunOptions, cmd *cobra.Command) error {
	cfg, err := resolveConfig(opts.Preset, opts.Config)
	if err != nil {
		return err
	}
	if opts.TargetFPS >= 0 {
		cfg.Global.TargetFPS = opts.TargetFPS
	}
	if opts.Offline {
		cfg.Network.Mode = config.NetworkOffline
	}
	if opts.Profile != "" {
		cfg.Global.EnableProfiling = true
		cfg.Global.ProfilePath = opts.Profile
	}
	if err := config.Validate(cfg); err != nil {
		return WrapExitError(ExitCommandError, "configuration rejected", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	callbacks := opts.Callbacks
	if callbacks == nil {
		callbacks = &frame.Hooks{}
	}

	code := app.Run(ctx, cfg, callbacks, app.Options{
		Logging: logging.Options{
			Level:  opts.effectiveLevel(),
			Format: opts.LogFormat,
			Dir:    opts.LogDir,
			Writer: cmd.ErrOrStderr(),
		},
		Version: opts.Version,
		Frame:   []frame.Option{frame.WithFrameLimit(opts.Frames)},
		Stderr:  cmd.ErrOrStderr(),
	})
	if code != app.ExitSuccess {
		return NewExitError(ExitFailure, fmt.Sprintf("engine exited with status %d", code))
	}
	return nil
}

// resolveConfig builds a configuration from a preset, an optional file
// and the environment. Any failure is a command error.
func resolveConfig(preset, path string) (config.Config, error) {
	base, ok := config.Preset(preset)
	if !ok {
		return config.Config{}, NewExitError(ExitCommandError, fmt.Sprintf("unknown preset %q", preset))
	}
	if path != "" {
		cfg, err := config.LoadOnto(base, path)
		if err != nil {
			return config.Config{}, WrapExitError(ExitCommandError, "failed to load configuration", err)
		}
		return cfg, nil
	}
	if err := config.ApplyEnv(&base); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "failed to apply environment", err)
	}
	config.Normalize(&base)
	if err := config.Validate(base); err != nil {
		return config.Config{}, WrapExitError(ExitCommandError, "configuration rejected", err)
	}
	return base, nil
}
