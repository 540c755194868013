package profile

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Session is one engine bring-up.
type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time // zero while open
	Config    string    // JSON
}

// Snapshot is one journaled EngineStats sample.
type Snapshot struct {
	TakenAt          time.Time
	FrameTimeMS      float64
	UpdateTimeMS     float64
	RenderTimeMS     float64
	FPS              float64
	RAMUsedMB        uint64
	VRAMUsedMB       uint64
	VRAMAvailableMB  uint64
	ChunksLoaded     uint32
	EntitiesActive   uint32
	FacesRendered    uint32
	PingMS           float64
	PacketsSent      uint32
	PacketsReceived  uint32
	BandwidthInKbps  float64
	BandwidthOutKbps float64
}

// Section is one completed profile section.
type Section struct {
	Name      string
	StartedAt time.Time
	Duration  time.Duration
}

// BeginSession records a new session. Idempotent on id.
func (s *Store) BeginSession(ctx context.Context, id string, startedAt time.Time, configJSON string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, started_at, config)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, startedAt.UnixNano(), configJSON)
	if err != nil {
		return fmt.Errorf("begin session: %w", err)
	}
	return nil
}

// EndSession stamps the session's end time.
func (s *Store) EndSession(ctx context.Context, id string, endedAt time.Time) error {
	res, err := s.db.ExecContext(ctx, `UPDATE sessions SET ended_at = ? WHERE id = ?`, endedAt.UnixNano(), id)
	if err != nil {
		return fmt.Errorf("end session: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("end session: unknown session %q", id)
	}
	return nil
}

// WriteSnapshot appends a stats snapshot to the session.
func (s *Store) WriteSnapshot(ctx context.Context, sessionID string, snap Snapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO snapshots
		(session_id, seq, taken_at, frame_time_ms, update_time_ms, render_time_ms, fps,
		 ram_used_mb, vram_used_mb, vram_available_mb, chunks_loaded, entities_active,
		 faces_rendered, ping_ms, packets_sent, packets_received, bandwidth_in_kbps,
		 bandwidth_out_kbps)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM snapshots WHERE session_id = ?),
		        ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		sessionID, sessionID,
		snap.TakenAt.UnixNano(),
		snap.FrameTimeMS, snap.UpdateTimeMS, snap.RenderTimeMS, snap.FPS,
		int64(snap.RAMUsedMB), int64(snap.VRAMUsedMB), int64(snap.VRAMAvailableMB),
		snap.ChunksLoaded, snap.EntitiesActive, snap.FacesRendered,
		snap.PingMS, snap.PacketsSent, snap.PacketsReceived,
		snap.BandwidthInKbps, snap.BandwidthOutKbps,
	)
	if err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// WriteSection appends a completed profile section to the session.
func (s *Store) WriteSection(ctx context.Context, sessionID string, sec Section) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sections (session_id, seq, name, started_at, duration_ns)
		VALUES (?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM sections WHERE session_id = ?), ?, ?, ?)
	`, sessionID, sessionID, sec.Name, sec.StartedAt.UnixNano(), int64(sec.Duration))
	if err != nil {
		return fmt.Errorf("write section: %w", err)
	}
	return nil
}

// ReadSession returns one session, or sql.ErrNoRows wrapped.
func (s *Store) ReadSession(ctx context.Context, id string) (Session, error) {
	var (
		sess    Session
		started int64
		ended   sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, started_at, ended_at, config FROM sessions WHERE id = ?
	`, id).Scan(&sess.ID, &started, &ended, &sess.Config)
	if err != nil {
		return Session{}, fmt.Errorf("read session: %w", err)
	}
	sess.StartedAt = time.Unix(0, started).UTC()
	if ended.Valid {
		sess.EndedAt = time.Unix(0, ended.Int64).UTC()
	}
	return sess, nil
}

// ReadSnapshots returns a session's snapshots in write order.
func (s *Store) ReadSnapshots(ctx context.Context, sessionID string) ([]Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT taken_at, frame_time_ms, update_time_ms, render_time_ms, fps,
		       ram_used_mb, vram_used_mb, vram_available_mb, chunks_loaded,
		       entities_active, faces_rendered, ping_ms, packets_sent, packets_received,
		       bandwidth_in_kbps, bandwidth_out_kbps
		FROM snapshots
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read snapshots: %w", err)
	}
	defer rows.Close()

	var out []Snapshot
	for rows.Next() {
		var (
			snap                   Snapshot
			taken                  int64
			ram, vramUsed, vramAvl int64
		)
		if err := rows.Scan(&taken, &snap.FrameTimeMS, &snap.UpdateTimeMS, &snap.RenderTimeMS, &snap.FPS,
			&ram, &vramUsed, &vramAvl, &snap.ChunksLoaded, &snap.EntitiesActive, &snap.FacesRendered,
			&snap.PingMS, &snap.PacketsSent, &snap.PacketsReceived,
			&snap.BandwidthInKbps, &snap.BandwidthOutKbps); err != nil {
			return nil, fmt.Errorf("read snapshots: %w", err)
		}
		snap.TakenAt = time.Unix(0, taken).UTC()
		snap.RAMUsedMB = uint64(ram)
		snap.VRAMUsedMB = uint64(vramUsed)
		snap.VRAMAvailableMB = uint64(vramAvl)
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read snapshots: %w", err)
	}
	return out, nil
}

// ReadSections returns a session's sections in write order.
func (s *Store) ReadSections(ctx context.Context, sessionID string) ([]Section, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, started_at, duration_ns
		FROM sections
		WHERE session_id = ?
		ORDER BY seq ASC
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("read sections: %w", err)
	}
	defer rows.Close()

	var out []Section
	for rows.Next() {
		var (
			sec     Section
			started int64
			dur     int64
		)
		if err := rows.Scan(&sec.Name, &started, &dur); err != nil {
			return nil, fmt.Errorf("read sections: %w", err)
		}
		sec.StartedAt = time.Unix(0, started).UTC()
		sec.Duration = time.Duration(dur)
		out = append(out, sec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read sections: %w", err)
	}
	return out, nil
}
