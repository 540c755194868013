package headless

import (
	"context"
	"fmt"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/subsystem"
)

// SupportedSampleRates lists the output rates the null device accepts.
var SupportedSampleRates = []int{22050, 44100, 48000, 96000}

// MaxChannels is the widest output layout the null device accepts.
const MaxChannels = 8

// Audio is a null output device.
type Audio struct {
	lifecycle
	cfg    config.AudioConfig
	paused bool
}

// NewAudio creates an audio collaborator for cfg.
func NewAudio(cfg config.AudioConfig) *Audio {
	return &Audio{cfg: cfg}
}

func (a *Audio) Name() string { return "audio" }

func (a *Audio) Init(ctx context.Context) error {
	if a.up {
		return nil
	}
	if !containsInt(SupportedSampleRates, a.cfg.SampleRate) {
		return subsystem.NewAudioError(subsystem.FormatNotSupported,
			fmt.Sprintf("sample rate %d", a.cfg.SampleRate), nil)
	}
	if a.cfg.Channels < 1 || a.cfg.Channels > MaxChannels {
		return subsystem.NewAudioError(subsystem.FormatNotSupported,
			fmt.Sprintf("%d channels", a.cfg.Channels), nil)
	}
	if a.cfg.BufferSize <= 0 {
		return subsystem.NewAudioError(subsystem.BufferCreationFailed,
			fmt.Sprintf("buffer size %d", a.cfg.BufferSize), nil)
	}
	a.up = true
	return nil
}

func (a *Audio) Shutdown(ctx context.Context) error {
	a.up = false
	return nil
}

// Volume returns the master volume.
func (a *Audio) Volume() float64 { return a.cfg.MasterVolume }

// Reconfigure applies the live audio fields.
func (a *Audio) Reconfigure(cfg config.Config) error {
	a.cfg.MasterVolume = cfg.Audio.MasterVolume
	return nil
}

// SetPaused records the pause flag.
func (a *Audio) SetPaused(paused bool) { a.paused = paused }

// Paused reports the pause flag.
func (a *Audio) Paused() bool { return a.paused }

func containsInt(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
