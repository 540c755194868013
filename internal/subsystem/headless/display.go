package headless

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/subsystem"
)

// Display is a virtual window. Window-system events are injected with
// Resize, Focus and Close and delivered on the next PollEvents.
type Display struct {
	lifecycle
	cfg    config.WindowConfig
	events *subsystem.EventDispatcher

	closing   atomic.Bool
	width     int
	height    int
	presented uint64
}

// NewDisplay creates a display for cfg posting to events.
func NewDisplay(cfg config.WindowConfig, events *subsystem.EventDispatcher) *Display {
	return &Display{cfg: cfg, events: events}
}

func (d *Display) Name() string { return "headless display" }

func (d *Display) Init(ctx context.Context) error {
	if d.up {
		return nil
	}
	if d.cfg.Width <= 0 || d.cfg.Height <= 0 {
		return subsystem.NewWindowError(subsystem.InvalidDimensions,
			fmt.Sprintf("window %dx%d", d.cfg.Width, d.cfg.Height), nil)
	}
	// One virtual monitor; -1 selects windowed mode.
	if d.cfg.MonitorIndex > 0 {
		return subsystem.NewWindowError(subsystem.MonitorNotFound,
			fmt.Sprintf("monitor %d", d.cfg.MonitorIndex), nil)
	}
	if d.events == nil {
		return subsystem.NewWindowError(subsystem.WindowCreationFailed, "no event dispatcher", nil)
	}
	d.width, d.height = d.cfg.Width, d.cfg.Height
	d.closing.Store(false)
	d.up = true
	return nil
}

func (d *Display) Shutdown(ctx context.Context) error {
	d.up = false
	return nil
}

// PollEvents delivers pending window events.
func (d *Display) PollEvents() {
	if d.events != nil {
		d.events.Dispatch()
	}
}

// ShouldClose reports a pending close request.
func (d *Display) ShouldClose() bool { return d.closing.Load() }

// RequestClose marks the window for closing.
func (d *Display) RequestClose() { d.closing.Store(true) }

// Present counts the frame.
func (d *Display) Present() error {
	if !d.up {
		return subsystem.NewWindowError(subsystem.SurfaceCreationFailed, "present on a closed display", nil)
	}
	d.presented++
	return nil
}

// Presented returns the number of presented frames.
func (d *Display) Presented() uint64 { return d.presented }

// Size returns the current framebuffer size.
func (d *Display) Size() (int, int) { return d.width, d.height }

// Title returns the window title.
func (d *Display) Title() string { return d.cfg.Title }

// Resize injects a framebuffer resize.
func (d *Display) Resize(width, height int) {
	d.width, d.height = width, height
	d.events.Post(subsystem.Event{Type: subsystem.EventResize, Width: width, Height: height})
}

// Focus injects a focus change.
func (d *Display) Focus(focused bool) {
	d.events.Post(subsystem.Event{Type: subsystem.EventFocus, Focused: focused})
}

// Close injects a close request from the window system.
func (d *Display) Close() {
	d.closing.Store(true)
	d.events.Post(subsystem.Event{Type: subsystem.EventClose})
}

// Reconfigure applies the live window fields.
func (d *Display) Reconfigure(cfg config.Config) error {
	d.cfg.Title = cfg.Window.Title
	d.cfg.VSync = cfg.Window.VSync
	return nil
}
