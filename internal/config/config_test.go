package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresets_AreValid(t *testing.T) {
	for _, name := range []string{"default", "minimal", "maximal"} {
		t.Run(name, func(t *testing.T) {
			cfg, ok := Preset(name)
			require.True(t, ok)
			assert.NoError(t, Validate(cfg))
		})
	}
}

func TestPreset_Unknown(t *testing.T) {
	_, ok := Preset("ultra")
	assert.False(t, ok)
}

func TestMinimal_TouchesNoFiles(t *testing.T) {
	cfg := Minimal()
	assert.Empty(t, cfg.Assets.Paths)
	assert.Empty(t, cfg.Global.LogPath)
	assert.Equal(t, NetworkOffline, cfg.Network.Mode)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
}

func TestMaximal_EnablesEverything(t *testing.T) {
	cfg := Maximal()
	assert.True(t, cfg.Renderer.EnableRaytracing)
	assert.Equal(t, 32, cfg.World.RenderDistance)
	assert.Equal(t, 2048, cfg.Assets.CacheSizeMB)
}

func TestLoaderThreads(t *testing.T) {
	assert.Equal(t, 1, loaderThreads(1))
	assert.Equal(t, 1, loaderThreads(2))
	assert.Equal(t, 3, loaderThreads(6))
	assert.Equal(t, 4, loaderThreads(64))
}

func TestClone_DoesNotAlias(t *testing.T) {
	cfg := Default()
	clone := cfg.Clone()
	clone.Assets.Paths[0] = "Other"
	assert.Equal(t, "Content", cfg.Assets.Paths[0])
}

func TestNetworkMode(t *testing.T) {
	assert.True(t, NetworkP2PHost.Valid())
	assert.True(t, NetworkP2PHost.Hosting())
	assert.True(t, NetworkDedicatedServer.Hosting())
	assert.False(t, NetworkDedicatedClient.Hosting())
	assert.False(t, NetworkMode("lan").Valid())
}

func TestNormalize(t *testing.T) {
	cfg := Default()
	cfg.Window.Title = "  Cafe\u0301 "
	cfg.Assets.Paths = []string{"Content/", " ", "Mods/../Extra"}

	Normalize(&cfg)

	assert.Equal(t, "Caf\u00e9", cfg.Window.Title)
	assert.Equal(t, []string{"Content", "Extra"}, cfg.Assets.Paths)
}

func TestNormalize_EmptyTitleFallsBack(t *testing.T) {
	cfg := Default()
	cfg.Window.Title = "   "
	Normalize(&cfg)
	assert.Equal(t, DefaultTitle, cfg.Window.Title)
}
