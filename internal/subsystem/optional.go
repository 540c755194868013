package subsystem

import (
	"context"
	"time"

	"github.com/roach88/ashborn/internal/config"
)

// Reconfigurer is implemented by subsystems that accept allow-listed
// configuration changes while running.
type Reconfigurer interface {
	Reconfigure(cfg config.Config) error
}

// ShaderReloader is implemented by the graphics backend.
type ShaderReloader interface {
	ReloadShaders(ctx context.Context) error
}

// AssetReloader is implemented by the asset system.
type AssetReloader interface {
	ReloadAssets(ctx context.Context) error
}

// Pauser is implemented by subsystems that react to the engine pause flag.
type Pauser interface {
	SetPaused(paused bool)
}

// RenderCounters is a graphics backend statistics sample.
type RenderCounters struct {
	FacesRendered   uint32
	VRAMUsedMB      uint64
	VRAMAvailableMB uint64
}

// RenderReporter is implemented by graphics backends that expose counters.
type RenderReporter interface {
	RenderCounters() RenderCounters
}

// WorldCounters is a world/simulation statistics sample.
type WorldCounters struct {
	ChunksLoaded   uint32
	EntitiesActive uint32
}

// WorldReporter is implemented by world collaborators that expose counters.
type WorldReporter interface {
	WorldCounters() WorldCounters
}

// NetworkCounters is a cumulative network statistics sample. Byte counts
// are monotonic; the engine derives bandwidth from deltas between samples.
type NetworkCounters struct {
	Ping            time.Duration
	PacketsSent     uint32
	PacketsReceived uint32
	BytesSent       uint64
	BytesReceived   uint64
}

// NetworkReporter is implemented by network collaborators that expose counters.
type NetworkReporter interface {
	NetworkCounters() NetworkCounters
}
