package headless

import (
	"context"
	"fmt"
	"os"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/subsystem"
)

// Assets checks the configured asset roots.
type Assets struct {
	lifecycle
	cfg     config.AssetConfig
	reloads int
}

// NewAssets creates an asset collaborator for cfg.
func NewAssets(cfg config.AssetConfig) *Assets {
	return &Assets{cfg: cfg}
}

func (a *Assets) Name() string { return "assets" }

func (a *Assets) Init(ctx context.Context) error {
	if a.up {
		return nil
	}
	if err := a.checkRoots(); err != nil {
		return err
	}
	a.up = true
	return nil
}

func (a *Assets) Shutdown(ctx context.Context) error {
	a.up = false
	return nil
}

// ReloadAssets re-checks every root.
func (a *Assets) ReloadAssets(ctx context.Context) error {
	if !a.up {
		return subsystem.NewAssetError(subsystem.AssetsNotReady, "asset system down", nil)
	}
	if err := a.checkRoots(); err != nil {
		return err
	}
	a.reloads++
	return nil
}

// Reloads returns how often assets were reloaded.
func (a *Assets) Reloads() int { return a.reloads }

// Reconfigure applies the live asset fields.
func (a *Assets) Reconfigure(cfg config.Config) error {
	a.cfg.EnableHotReload = cfg.Assets.EnableHotReload
	a.cfg.ValidateAssets = cfg.Assets.ValidateAssets
	return nil
}

func (a *Assets) checkRoots() error {
	for _, p := range a.cfg.Paths {
		info, err := os.Stat(p)
		if err != nil {
			return subsystem.NewAssetError(subsystem.PathNotFound, p, err)
		}
		if !info.IsDir() {
			return subsystem.NewAssetError(subsystem.PathNotFound, fmt.Sprintf("%s is not a directory", p), nil)
		}
	}
	return nil
}
