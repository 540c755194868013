package headless

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/subsystem"
)

func TestNew_BuildsEveryCollaborator(t *testing.T) {
	set := New(config.Minimal(), subsystem.NewEventDispatcher())

	subs := []subsystem.Subsystem{set.Display, set.Renderer, set.Input, set.Audio, set.World, set.Network, set.Assets}
	for _, s := range subs {
		require.NotNil(t, s)
		assert.NotEmpty(t, s.Name())
		assert.False(t, s.IsInitialized())
	}
}

func TestCollaborators_LifecycleIdempotent(t *testing.T) {
	ctx := context.Background()
	set := New(config.Minimal(), subsystem.NewEventDispatcher())

	subs := []subsystem.Subsystem{set.Display, set.Renderer, set.Input, set.Audio, set.World, set.Network, set.Assets}
	for _, s := range subs {
		assert.NoError(t, s.Shutdown(ctx), "%s shutdown before init", s.Name())
		require.NoError(t, s.Init(ctx), s.Name())
		assert.True(t, s.IsInitialized())
		assert.NoError(t, s.Shutdown(ctx))
		assert.NoError(t, s.Shutdown(ctx), "%s second shutdown", s.Name())
		assert.False(t, s.IsInitialized())
	}
}

func TestDisplay_InvalidDimensions(t *testing.T) {
	cfg := config.Minimal().Window
	cfg.Width = 0
	d := NewDisplay(cfg, subsystem.NewEventDispatcher())

	err := d.Init(context.Background())
	var we *subsystem.WindowError
	require.True(t, errors.As(err, &we))
	assert.Equal(t, subsystem.InvalidDimensions, we.Code)
}

func TestDisplay_MonitorNotFound(t *testing.T) {
	cfg := config.Minimal().Window
	cfg.MonitorIndex = 2
	d := NewDisplay(cfg, subsystem.NewEventDispatcher())

	code, ok := subsystem.CodeOf(d.Init(context.Background()))
	require.True(t, ok)
	assert.Equal(t, string(subsystem.MonitorNotFound), code)
}

func TestDisplay_EventsDeliveredOnPoll(t *testing.T) {
	events := subsystem.NewEventDispatcher()
	d := NewDisplay(config.Minimal().Window, events)
	require.NoError(t, d.Init(context.Background()))

	var got []subsystem.Event
	events.Attach(subsystem.EventHandlerFunc(func(ev subsystem.Event) { got = append(got, ev) }))

	d.Focus(false)
	d.Resize(1024, 768)
	assert.Empty(t, got)

	d.PollEvents()
	require.Len(t, got, 2)
	assert.Equal(t, subsystem.EventFocus, got[0].Type)
	assert.Equal(t, subsystem.Event{Type: subsystem.EventResize, Width: 1024, Height: 768}, got[1])

	w, h := d.Size()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
}

func TestDisplay_CloseAndPresent(t *testing.T) {
	d := NewDisplay(config.Minimal().Window, subsystem.NewEventDispatcher())
	assert.Error(t, d.Present())

	require.NoError(t, d.Init(context.Background()))
	assert.False(t, d.ShouldClose())
	require.NoError(t, d.Present())
	require.NoError(t, d.Present())
	assert.Equal(t, uint64(2), d.Presented())

	d.Close()
	assert.True(t, d.ShouldClose())
}

func TestRenderer_Extensions(t *testing.T) {
	cfg := config.Default().Renderer
	r := NewRenderer(cfg)
	require.NoError(t, r.Init(context.Background()))
	assert.Contains(t, r.Extensions(), "VK_KHR_swapchain")
	assert.Contains(t, r.Extensions(), "VK_EXT_mesh_shader")

	cfg.RequiredExtensions = []string{"VK_KHR_swapchain", "VK_NV_imaginary"}
	r = NewRenderer(cfg)
	err := r.Init(context.Background())
	var re *subsystem.RendererError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, subsystem.ExtensionNotSupported, re.Code)
	assert.Contains(t, re.Message, "VK_NV_imaginary")
}

func TestRenderer_ReloadAndCounters(t *testing.T) {
	cfg := config.Default().Renderer
	cfg.VRAMBudgetMB = 2048
	r := NewRenderer(cfg)

	assert.Error(t, r.ReloadShaders(context.Background()))
	require.NoError(t, r.Init(context.Background()))
	require.NoError(t, r.ReloadShaders(context.Background()))
	assert.Equal(t, 1, r.ShaderReloads())

	r.SetFacesRendered(1200)
	rc := r.RenderCounters()
	assert.Equal(t, uint32(1200), rc.FacesRendered)
	assert.Equal(t, uint64(2048), rc.VRAMAvailableMB)
}

func TestAudio_Format(t *testing.T) {
	cfg := config.Default().Audio
	cfg.SampleRate = 12345
	err := NewAudio(cfg).Init(context.Background())
	var ae *subsystem.AudioError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, subsystem.FormatNotSupported, ae.Code)

	cfg = config.Default().Audio
	cfg.Channels = 16
	assert.Error(t, NewAudio(cfg).Init(context.Background()))
}

func TestWorld_CountersAndSeed(t *testing.T) {
	cfg := config.Default().World
	cfg.SimulationDistance = 2
	cfg.WorldSeed = 42
	w := NewWorld(cfg)
	assert.Equal(t, subsystem.WorldCounters{}, w.WorldCounters())

	require.NoError(t, w.Init(context.Background()))
	assert.Equal(t, uint64(42), w.Seed())
	w.SetEntities(7)
	assert.Equal(t, subsystem.WorldCounters{ChunksLoaded: 25, EntitiesActive: 7}, w.WorldCounters())

	next := config.Default()
	next.World.SimulationDistance = 0
	require.NoError(t, w.Reconfigure(next))
	assert.Equal(t, uint32(1), w.WorldCounters().ChunksLoaded)
}

func TestWorld_RandomSeed(t *testing.T) {
	w := NewWorld(config.Default().World)
	require.NoError(t, w.Init(context.Background()))
	assert.NotZero(t, w.Seed())
}

func TestNetwork_HostBindsPort(t *testing.T) {
	cfg := config.Default().Network
	cfg.Mode = config.NetworkP2PHost
	cfg.Port = freeUDPPort(t)

	n := NewNetwork(cfg)
	require.NoError(t, n.Init(context.Background()))
	require.NotNil(t, n.LocalAddr())

	clash := NewNetwork(cfg)
	err := clash.Init(context.Background())
	var ne *subsystem.NetworkError
	require.ErrorAs(t, err, &ne)
	assert.Equal(t, subsystem.PortBindFailed, ne.Code)

	require.NoError(t, n.Shutdown(context.Background()))
	assert.Nil(t, n.LocalAddr())
}

func TestNetwork_ClientResolvesServer(t *testing.T) {
	cfg := config.Default().Network
	cfg.Mode = config.NetworkDedicatedClient
	cfg.ServerAddress = "127.0.0.1"

	n := NewNetwork(cfg)
	require.NoError(t, n.Init(context.Background()))
	assert.NoError(t, n.Shutdown(context.Background()))
}

func TestNetwork_Counters(t *testing.T) {
	n := NewNetwork(config.Default().Network)
	n.RecordTraffic(100, 0)
	n.RecordTraffic(0, 40)
	n.RecordTraffic(20, 60)

	c := n.NetworkCounters()
	assert.Equal(t, uint32(2), c.PacketsSent)
	assert.Equal(t, uint32(2), c.PacketsReceived)
	assert.Equal(t, uint64(120), c.BytesSent)
	assert.Equal(t, uint64(100), c.BytesReceived)
}

func TestAssets_Roots(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "pack.bin")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	cfg := config.Default().Assets
	cfg.Paths = []string{dir}
	a := NewAssets(cfg)
	require.NoError(t, a.Init(context.Background()))
	require.NoError(t, a.ReloadAssets(context.Background()))
	assert.Equal(t, 1, a.Reloads())

	cfg.Paths = []string{filepath.Join(dir, "missing")}
	err := NewAssets(cfg).Init(context.Background())
	var ae *subsystem.AssetError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, subsystem.PathNotFound, ae.Code)

	cfg.Paths = []string{file}
	assert.Error(t, NewAssets(cfg).Init(context.Background()))
}

func freeUDPPort(t *testing.T) int {
	t.Helper()
	conn, err := net.ListenPacket("udp", ":0")
	require.NoError(t, err)
	_, port, err := net.SplitHostPort(conn.LocalAddr().String())
	require.NoError(t, err)
	require.NoError(t, conn.Close())
	p, err := strconv.Atoi(port)
	require.NoError(t, err)
	return p
}
