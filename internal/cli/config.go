package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/ashborn/internal/config"
)

// ConfigOptions holds flags shared by the config subcommands.
type ConfigOptions struct {
	*RootOptions
	Preset string
	Force  bool
	As     string
}

// FieldChange is one entry of config diff output.
type FieldChange struct {
	Path string `json:"path"`
	Live bool   `json:"live"`
}

// ValidationResult holds config validate output.
type ValidationResult struct {
	Path     string   `json:"path"`
	Valid    bool     `json:"valid"`
	Problems []string `json:"problems,omitempty"`
}

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConfigOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, check and inspect engine configuration files",
	}

	cmd.PersistentFlags().StringVar(&opts.Preset, "preset", "default", "base preset (default|minimal|maximal)")

	initCmd := &cobra.Command{
		Use:   "init <path>",
		Short: "Write a preset to a configuration file",
		Long: `Write the chosen preset to path. The format follows the extension:
.yaml/.yml or .toml. Existing files are kept unless --force is given.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigInit(opts, args[0], cmd)
		},
	}
	initCmd.Flags().BoolVar(&opts.Force, "force", false, "overwrite an existing file")

	validateCmd := &cobra.Command{
		Use:   "validate <path>",
		Short: "Check a configuration file without booting the engine",
		Long: `Load path on top of the preset, apply ASHBORN_* overrides and report
every structural problem.

Exit codes:
  0 - Configuration is valid
  1 - Configuration is invalid
  2 - File missing, unreadable or of an unsupported format`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigValidate(opts, args[0], cmd)
		},
	}

	showCmd := &cobra.Command{
		Use:           "show [path]",
		Short:         "Print the effective configuration",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runConfigShow(opts, path, cmd)
		},
	}
	showCmd.Flags().StringVar(&opts.As, "as", "yaml", "text encoding (yaml|toml)")

	diffCmd := &cobra.Command{
		Use:           "diff <old> <new>",
		Short:         "List changed fields and whether a running engine applies them live",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigDiff(opts, args[0], args[1], cmd)
		},
	}

	cmd.AddCommand(initCmd, validateCmd, showCmd, diffCmd)
	return cmd
}

func (o *ConfigOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}

func runConfigInit(opts *ConfigOptions, path string, cmd *cobra.Command) error {
	cfg, ok := config.Preset(opts.Preset)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown preset %q", opts.Preset))
	}
	if _, err := config.CodecFor(path); err != nil {
		return WrapExitError(ExitCommandError, "cannot write configuration", err)
	}
	if !opts.Force {
		if _, err := os.Stat(path); err == nil {
			return NewExitError(ExitCommandError, fmt.Sprintf("%s already exists (use --force to overwrite)", path))
		}
	}
	if err := config.Save(cfg, path); err != nil {
		return WrapExitError(ExitCommandError, "failed to write configuration", err)
	}

	f := opts.formatter(cmd)
	if opts.Format == "json" {
		return f.Success(map[string]string{"path": path, "preset": opts.Preset})
	}
	return f.Success(fmt.Sprintf("Wrote %s preset to %s", opts.Preset, path))
}

func runConfigValidate(opts *ConfigOptions, path string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	base, ok := config.Preset(opts.Preset)
	if !ok {
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown preset %q", opts.Preset))
	}
	if _, err := config.CodecFor(path); err != nil {
		return WrapExitError(ExitCommandError, "cannot read configuration", err)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewExitError(ExitCommandError, fmt.Sprintf("configuration file not found: %s", path))
		}
		return WrapExitError(ExitCommandError, "cannot read configuration", err)
	}

	f.VerboseLog("validating %s over the %s preset", path, opts.Preset)
	_, err := config.LoadOnto(base, path)
	if err == nil {
		if opts.Format == "json" {
			return f.Success(ValidationResult{Path: path, Valid: true})
		}
		return f.Success(fmt.Sprintf("✓ %s is valid", path))
	}

	var verr *config.ValidationError
	problems := []string{err.Error()}
	if errors.As(err, &verr) {
		problems = verr.Problems
	}
	if opts.Format == "json" {
		if outErr := f.Error("INVALID_CONFIGURATION", path+" is invalid", ValidationResult{Path: path, Problems: problems}); outErr != nil {
			return outErr
		}
	} else {
		f.Problems(fmt.Sprintf("✗ %s is invalid", path), problems)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("%d configuration problem(s)", len(problems)))
}

func runConfigShow(opts *ConfigOptions, path string, cmd *cobra.Command) error {
	cfg, err := resolveConfig(opts.Preset, path)
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(cfg)
	}

	var codec config.Codec
	switch opts.As {
	case "yaml":
		codec = config.YAMLCodec{}
	case "toml":
		codec = config.TOMLCodec{}
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown encoding %q (want yaml or toml)", opts.As))
	}
	data, err := codec.Marshal(cfg)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to encode configuration", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func runConfigDiff(opts *ConfigOptions, oldPath, newPath string, cmd *cobra.Command) error {
	before, err := resolveConfig(opts.Preset, oldPath)
	if err != nil {
		return err
	}
	after, err := resolveConfig(opts.Preset, newPath)
	if err != nil {
		return err
	}

	paths := config.Diff(before, after)
	changes := make([]FieldChange, 0, len(paths))
	for _, p := range paths {
		changes = append(changes, FieldChange{Path: p, Live: config.IsLive(p)})
	}

	if opts.Format == "json" {
		return opts.formatter(cmd).Success(changes)
	}

	w := cmd.OutOrStdout()
	if len(changes) == 0 {
		fmt.Fprintln(w, "No differences.")
		return nil
	}
	for _, c := range changes {
		mode := "restart"
		if c.Live {
			mode = "live"
		}
		fmt.Fprintf(w, "%-8s %s\n", mode, c.Path)
	}
	return nil
}
