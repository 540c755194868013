package engine

import (
	"context"
	"errors"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/logging"
	"github.com/roach88/ashborn/internal/subsystem"
)

// UpdateConfig replaces the configuration.
//
// While the engine is down the replacement is wholesale (after validation)
// and every differing field is reported as applied. While it is up only
// fields on config.LiveFields are applied; the rest are reported as
// skipped and take effect after the next restart. Running subsystems that
// implement subsystem.Reconfigurer are handed the updated configuration.
func (e *Engine) UpdateConfig(ctx context.Context, cfg config.Config) (config.LiveUpdate, error) {
	_, span := e.tracer.Start(ctx, "engine.update_config")
	defer span.End()

	if !e.initialized.Load() {
		if err := config.Validate(cfg); err != nil {
			return config.LiveUpdate{}, errInvalidConfiguration(err)
		}
		upd := config.LiveUpdate{Applied: config.Diff(e.cfg, cfg)}
		e.cfg = cfg.Clone()
		e.generation.Next()
		e.logger.Info("configuration replaced", "changed", len(upd.Applied))
		return upd, nil
	}

	candidate := e.cfg.Clone()
	upd := config.ApplyLive(&candidate, cfg)
	if len(upd.Skipped) > 0 {
		e.logger.Warn("configuration fields need a restart", "fields", upd.Skipped)
	}
	if !upd.Changed() {
		return upd, nil
	}
	if err := config.Validate(candidate); err != nil {
		return config.LiveUpdate{Skipped: append(upd.Applied, upd.Skipped...)}, errInvalidConfiguration(err)
	}

	e.cfg = candidate
	e.generation.Next()
	for _, st := range e.stages {
		r, ok := st.sub.(subsystem.Reconfigurer)
		if !ok || !st.up {
			continue
		}
		if err := r.Reconfigure(e.cfg.Clone()); err != nil {
			e.logger.Warn("subsystem rejected live configuration", "stage", st.kind, "error", err)
		}
	}
	e.logger.Info("configuration updated live", "fields", upd.Applied)
	return upd, nil
}

// ReloadConfig loads path (see config.Load) and applies it with
// UpdateConfig. Load failures are reported as INVALID_CONFIGURATION.
func (e *Engine) ReloadConfig(ctx context.Context, path string) (config.LiveUpdate, error) {
	cfg, err := config.Load(path)
	if err != nil {
		e.logger.Error("config reload failed", "path", path, "error", err)
		return config.LiveUpdate{}, errInvalidConfiguration(err)
	}
	return e.UpdateConfig(ctx, cfg)
}

// ReloadShaders asks the graphics backend to rebuild its shaders. Every
// failure is a *subsystem.RendererError.
func (e *Engine) ReloadShaders(ctx context.Context) error {
	st := e.upStage(subsystem.KindRenderer)
	if st == nil {
		return subsystem.NewRendererError(subsystem.RendererNotReady, "graphics backend not initialized", nil)
	}

	ctx, span := e.tracer.Start(ctx, "engine.reload_shaders")
	defer span.End()

	e.logger.Info("reloading shaders")
	if r, ok := st.sub.(subsystem.ShaderReloader); ok {
		if err := r.ReloadShaders(ctx); err != nil {
			var re *subsystem.RendererError
			if !errors.As(err, &re) {
				err = subsystem.NewRendererError(subsystem.ShaderCompilationFailed, "reload shaders", err)
			}
			span.RecordError(err)
			return err
		}
	}
	logging.Success(e.logger, "shaders reloaded")
	return nil
}

// ReloadAssets asks the asset system to flush and reload. Every failure is
// a *subsystem.AssetError.
func (e *Engine) ReloadAssets(ctx context.Context) error {
	st := e.upStage(subsystem.KindAssets)
	if st == nil {
		return subsystem.NewAssetError(subsystem.AssetsNotReady, "asset system not initialized", nil)
	}

	ctx, span := e.tracer.Start(ctx, "engine.reload_assets")
	defer span.End()

	e.logger.Info("reloading assets")
	if r, ok := st.sub.(subsystem.AssetReloader); ok {
		if err := r.ReloadAssets(ctx); err != nil {
			var ae *subsystem.AssetError
			if !errors.As(err, &ae) {
				err = subsystem.NewAssetError(subsystem.AssetInitFailed, "reload assets", err)
			}
			span.RecordError(err)
			return err
		}
	}
	logging.Success(e.logger, "assets reloaded")
	return nil
}

func (e *Engine) upStage(kind subsystem.Kind) *stage {
	if !e.initialized.Load() {
		return nil
	}
	for _, st := range e.stages {
		if st.kind == kind && st.up {
			return st
		}
	}
	return nil
}
