package engine

import (
	"context"
	"time"

	"github.com/roach88/ashborn/internal/logging"
	"github.com/roach88/ashborn/internal/profile"
)

// BeginProfile starts timing a named section. No-op unless
// global.enable_profiling is set. Beginning a section that is already open
// restarts it.
func (e *Engine) BeginProfile(name string) {
	if !e.cfg.Global.EnableProfiling {
		return
	}
	e.profiles[name] = e.clock.Now()
	logging.Trace(e.logger, "profile begin", "name", name)
}

// EndProfile closes a named section and returns its duration. The section
// is journaled when a profile journal is open. Ending a section that was
// never begun returns 0.
func (e *Engine) EndProfile(name string) time.Duration {
	if !e.cfg.Global.EnableProfiling {
		return 0
	}
	start, ok := e.profiles[name]
	if !ok {
		e.logger.Debug("profile end without begin", "name", name)
		return 0
	}
	delete(e.profiles, name)

	d := e.clock.Now().Sub(start)
	logging.Trace(e.logger, "profile end", "name", name, "duration", d)

	if e.journal != nil {
		sec := profile.Section{Name: name, StartedAt: start, Duration: d}
		if err := e.journal.WriteSection(context.Background(), e.session, sec); err != nil {
			e.logger.Warn("journal section failed", "name", name, "error", err)
		}
	}
	return d
}
