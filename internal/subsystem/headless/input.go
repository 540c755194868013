package headless

import (
	"context"

	"github.com/roach88/ashborn/internal/config"
)

// Input holds the live input settings.
type Input struct {
	lifecycle
	cfg    config.InputConfig
	paused bool
}

// NewInput creates an input collaborator for cfg.
func NewInput(cfg config.InputConfig) *Input {
	return &Input{cfg: cfg}
}

func (i *Input) Name() string { return "input" }

func (i *Input) Init(ctx context.Context) error {
	i.up = true
	return nil
}

func (i *Input) Shutdown(ctx context.Context) error {
	i.up = false
	return nil
}

// Settings returns the current input settings.
func (i *Input) Settings() config.InputConfig { return i.cfg }

// Reconfigure applies the input section.
func (i *Input) Reconfigure(cfg config.Config) error {
	i.cfg = cfg.Input
	return nil
}

// SetPaused records the pause flag.
func (i *Input) SetPaused(paused bool) { i.paused = paused }

// Paused reports the pause flag.
func (i *Input) Paused() bool { return i.paused }
