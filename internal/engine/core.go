package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/profile"
	"github.com/roach88/ashborn/internal/subsystem"
	"github.com/roach88/ashborn/internal/subsystem/headless"
)

// coreServices is the built-in first stage. It opens the profile journal
// when profiling is enabled and a profile path is configured.
type coreServices struct {
	e  *Engine
	up bool
}

func (c *coreServices) Name() string { return "core services" }

func (c *coreServices) IsInitialized() bool { return c.up }

func (c *coreServices) Init(ctx context.Context) error {
	if c.up {
		return nil
	}

	g := c.e.cfg.Global
	if g.EnableProfiling && g.ProfilePath != "" {
		st, err := openJournal(g.ProfilePath)
		if err != nil {
			return subsystem.NewCoreError(subsystem.CoreJournalFailed, "open profile journal "+g.ProfilePath, err)
		}
		data, err := json.Marshal(c.e.cfg)
		if err == nil {
			err = st.BeginSession(ctx, c.e.session, c.e.clock.Now(), string(data))
		}
		if err != nil {
			st.Close()
			return subsystem.NewCoreError(subsystem.CoreJournalFailed, "begin profile session", err)
		}
		c.e.journal = st
		c.e.logger.Info("profile journal open", "path", g.ProfilePath, "session", c.e.session)
	}

	c.up = true
	return nil
}

func (c *coreServices) Shutdown(ctx context.Context) error {
	if !c.up {
		return nil
	}
	c.up = false

	st := c.e.journal
	if st == nil {
		return nil
	}
	c.e.journal = nil

	var errs []error
	if err := st.EndSession(ctx, c.e.session, c.e.clock.Now()); err != nil {
		errs = append(errs, err)
	}
	if err := st.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close journal: %w", err))
	}
	return errors.Join(errs...)
}

func openJournal(path string) (*profile.Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	return profile.Open(path)
}

// headlessFactory is the default Factory.
func headlessFactory(cfg config.Config, events *subsystem.EventDispatcher) (Collaborators, error) {
	set := headless.New(cfg, events)
	return Collaborators{
		Display:  set.Display,
		Renderer: set.Renderer,
		Input:    set.Input,
		Audio:    set.Audio,
		World:    set.World,
		Network:  set.Network,
		Assets:   set.Assets,
	}, nil
}
