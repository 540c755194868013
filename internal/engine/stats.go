package engine

import (
	"context"
	"runtime"
	"time"

	"github.com/roach88/ashborn/internal/profile"
	"github.com/roach88/ashborn/internal/subsystem"
)

// DefaultStatsInterval is how long a Stats snapshot stays fresh.
const DefaultStatsInterval = 100 * time.Millisecond

const mib = 1 << 20

// Stats is a point-in-time performance and resource snapshot.
type Stats struct {
	// Performance, averaged over the frames recorded since the last refresh.
	FPS          float64
	FrameTimeMS  float64
	UpdateTimeMS float64
	RenderTimeMS float64

	// Memory
	RAMUsedMB       uint64
	VRAMUsedMB      uint64
	VRAMAvailableMB uint64

	// World
	ChunksLoaded   uint32
	EntitiesActive uint32
	FacesRendered  uint32

	// Network
	PingMS           float64
	PacketsSent      uint32
	PacketsReceived  uint32
	BandwidthInKbps  float64
	BandwidthOutKbps float64
}

// FrameSample is one frame's measured phase durations, fed by the
// scheduler through RecordFrame.
type FrameSample struct {
	FrameTime  time.Duration
	UpdateTime time.Duration
	RenderTime time.Duration
}

// statsCache holds the last snapshot, its freshness timestamp and the
// frame window accumulated since.
type statsCache struct {
	snapshot Stats
	takenAt  time.Time
	valid    bool

	frames      int
	frameTime   time.Duration
	updateTime  time.Duration
	renderTime  time.Duration
	lastNet     subsystem.NetworkCounters
	lastNetAt   time.Time
	haveLastNet bool
}

// RecordFrame adds one frame to the window the next refresh averages.
func (e *Engine) RecordFrame(s FrameSample) {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.stats.frames++
	e.stats.frameTime += s.FrameTime
	e.stats.updateTime += s.UpdateTime
	e.stats.renderTime += s.RenderTime
}

// Stats returns the cached snapshot while it is younger than the refresh
// interval and recomputes it otherwise. Before initialization (and after
// shutdown) it returns a zeroed snapshot.
func (e *Engine) Stats() Stats {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()

	if !e.initialized.Load() {
		return Stats{}
	}

	now := e.clock.Now()
	if e.stats.valid && now.Sub(e.stats.takenAt) < e.statsInterval {
		return e.stats.snapshot
	}
	e.refreshStats(now)
	return e.stats.snapshot
}

func (e *Engine) resetStats() {
	e.statsMu.Lock()
	defer e.statsMu.Unlock()
	e.stats = statsCache{}
}

// refreshStats recomputes the snapshot. Caller holds statsMu.
func (e *Engine) refreshStats(now time.Time) {
	c := &e.stats
	s := c.snapshot

	if c.frames > 0 {
		n := float64(c.frames)
		s.FrameTimeMS = durationMS(c.frameTime) / n
		s.UpdateTimeMS = durationMS(c.updateTime) / n
		s.RenderTimeMS = durationMS(c.renderTime) / n
		if c.frameTime > 0 {
			s.FPS = n / c.frameTime.Seconds()
		}
		c.frames, c.frameTime, c.updateTime, c.renderTime = 0, 0, 0, 0
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	s.RAMUsedMB = ms.HeapAlloc / mib

	for _, st := range e.stages {
		if !st.up {
			continue
		}
		if r, ok := st.sub.(subsystem.RenderReporter); ok {
			rc := r.RenderCounters()
			s.FacesRendered = rc.FacesRendered
			s.VRAMUsedMB = rc.VRAMUsedMB
			s.VRAMAvailableMB = rc.VRAMAvailableMB
		}
		if r, ok := st.sub.(subsystem.WorldReporter); ok {
			wc := r.WorldCounters()
			s.ChunksLoaded = wc.ChunksLoaded
			s.EntitiesActive = wc.EntitiesActive
		}
		if r, ok := st.sub.(subsystem.NetworkReporter); ok {
			nc := r.NetworkCounters()
			s.PingMS = durationMS(nc.Ping)
			s.PacketsSent = nc.PacketsSent
			s.PacketsReceived = nc.PacketsReceived
			if c.haveLastNet {
				if secs := now.Sub(c.lastNetAt).Seconds(); secs > 0 {
					s.BandwidthInKbps = kbps(nc.BytesReceived-c.lastNet.BytesReceived, secs)
					s.BandwidthOutKbps = kbps(nc.BytesSent-c.lastNet.BytesSent, secs)
				}
			}
			c.lastNet, c.lastNetAt, c.haveLastNet = nc, now, true
		}
	}

	c.snapshot = s
	c.takenAt = now
	c.valid = true

	if e.journal != nil {
		if err := e.journal.WriteSnapshot(context.Background(), e.session, toSnapshot(now, s)); err != nil {
			e.logger.Warn("journal snapshot failed", "error", err)
		}
	}
}

func durationMS(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func kbps(bytes uint64, secs float64) float64 {
	return float64(bytes) * 8 / 1000 / secs
}

func toSnapshot(at time.Time, s Stats) profile.Snapshot {
	return profile.Snapshot{
		TakenAt:          at,
		FrameTimeMS:      s.FrameTimeMS,
		UpdateTimeMS:     s.UpdateTimeMS,
		RenderTimeMS:     s.RenderTimeMS,
		FPS:              s.FPS,
		RAMUsedMB:        s.RAMUsedMB,
		VRAMUsedMB:       s.VRAMUsedMB,
		VRAMAvailableMB:  s.VRAMAvailableMB,
		ChunksLoaded:     s.ChunksLoaded,
		EntitiesActive:   s.EntitiesActive,
		FacesRendered:    s.FacesRendered,
		PingMS:           s.PingMS,
		PacketsSent:      s.PacketsSent,
		PacketsReceived:  s.PacketsReceived,
		BandwidthInKbps:  s.BandwidthInKbps,
		BandwidthOutKbps: s.BandwidthOutKbps,
	}
}
