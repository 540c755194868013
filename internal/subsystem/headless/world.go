package headless

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/subsystem"
)

// World is a world simulation stub that keeps the chunk window around the
// origin loaded.
type World struct {
	lifecycle
	cfg      config.WorldConfig
	seed     uint64
	entities uint32
}

// NewWorld creates a world collaborator for cfg.
func NewWorld(cfg config.WorldConfig) *World {
	return &World{cfg: cfg}
}

func (w *World) Name() string { return "world" }

func (w *World) Init(ctx context.Context) error {
	if w.up {
		return nil
	}
	if !config.IsPowerOfTwo(w.cfg.ChunkSize) {
		return subsystem.NewWorldError(subsystem.WorldInvalidConfig,
			fmt.Sprintf("chunk size %d", w.cfg.ChunkSize), nil)
	}
	w.seed = w.cfg.WorldSeed
	if w.seed == 0 {
		w.seed = rand.Uint64()
	}
	w.up = true
	return nil
}

func (w *World) Shutdown(ctx context.Context) error {
	w.up = false
	return nil
}

// Seed returns the seed in use.
func (w *World) Seed() uint64 { return w.seed }

// SetEntities records the active entity count.
func (w *World) SetEntities(n uint32) { w.entities = n }

// WorldCounters reports the simulated chunk square around the origin.
func (w *World) WorldCounters() subsystem.WorldCounters {
	if !w.up {
		return subsystem.WorldCounters{}
	}
	side := uint32(2*w.cfg.SimulationDistance + 1)
	return subsystem.WorldCounters{ChunksLoaded: side * side, EntitiesActive: w.entities}
}

// Reconfigure applies the live world fields.
func (w *World) Reconfigure(cfg config.Config) error {
	w.cfg.RenderDistance = cfg.World.RenderDistance
	w.cfg.SimulationDistance = cfg.World.SimulationDistance
	w.cfg.EnableLOD = cfg.World.EnableLOD
	w.cfg.MaxChunksPerFrame = cfg.World.MaxChunksPerFrame
	return nil
}
