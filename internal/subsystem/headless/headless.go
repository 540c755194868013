// Package headless provides the default collaborators: a virtual display,
// a null graphics backend, input, audio, a world simulation stub, a UDP
// network endpoint and a filesystem-backed asset system.
//
// They honor the full subsystem contract (typed bring-up failures, safe
// repeated Shutdown) without touching a window system or GPU, which makes
// them the collaborators for CLI runs, the scenario harness, and tests.
package headless

import (
	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/subsystem"
)

// Set is one bring-up's worth of collaborators.
type Set struct {
	Display  *Display
	Renderer *Renderer
	Input    *Input
	Audio    *Audio
	World    *World
	Network  *Network
	Assets   *Assets
}

// New builds a Set from cfg. The display posts window events to events.
func New(cfg config.Config, events *subsystem.EventDispatcher) *Set {
	return &Set{
		Display:  NewDisplay(cfg.Window, events),
		Renderer: NewRenderer(cfg.Renderer),
		Input:    NewInput(cfg.Input),
		Audio:    NewAudio(cfg.Audio),
		World:    NewWorld(cfg.World),
		Network:  NewNetwork(cfg.Network),
		Assets:   NewAssets(cfg.Assets),
	}
}

// lifecycle tracks the initialized flag shared by every collaborator.
type lifecycle struct {
	up bool
}

// IsInitialized reports whether Init succeeded and Shutdown has not run.
func (l *lifecycle) IsInitialized() bool { return l.up }
