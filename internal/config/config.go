// Package config holds the engine configuration aggregate.
//
// A Config is owned by the engine orchestrator. It is replaced wholesale
// while the engine is down, or patched through the live allow-list
// (see live.go) while it runs. Files are read and written through a Codec
// chosen by extension: YAML (.yaml, .yml) or TOML (.toml). Environment
// variables prefixed ASHBORN_ overlay any loaded file.
package config

import (
	"runtime"
)

// Default values shared by presets and the frame loop.
const (
	DefaultTitle         = "AshBorn"
	DefaultFixedTimestep = 1.0 / 60.0
	DefaultMaxDeltaTime  = 0.25
	DefaultChunkSize     = 32
	DefaultPort          = 7777
)

// NetworkMode selects the network topology.
type NetworkMode string

const (
	NetworkOffline         NetworkMode = "offline"
	NetworkP2PHost         NetworkMode = "p2p_host"
	NetworkP2PClient       NetworkMode = "p2p_client"
	NetworkDedicatedServer NetworkMode = "dedicated_server"
	NetworkDedicatedClient NetworkMode = "dedicated_client"
)

// Valid reports whether m is a known mode.
func (m NetworkMode) Valid() bool {
	switch m {
	case NetworkOffline, NetworkP2PHost, NetworkP2PClient, NetworkDedicatedServer, NetworkDedicatedClient:
		return true
	default:
		return false
	}
}

// Hosting reports whether the mode listens for peers.
func (m NetworkMode) Hosting() bool {
	return m == NetworkP2PHost || m == NetworkDedicatedServer
}

// WindowConfig configures the display collaborator.
type WindowConfig struct {
	Title        string `yaml:"title" toml:"title" json:"title" env:"TITLE"`
	Width        int    `yaml:"width" toml:"width" json:"width" env:"WIDTH"`
	Height       int    `yaml:"height" toml:"height" json:"height" env:"HEIGHT"`
	Fullscreen   bool   `yaml:"fullscreen" toml:"fullscreen" json:"fullscreen" env:"FULLSCREEN"`
	VSync        bool   `yaml:"vsync" toml:"vsync" json:"vsync" env:"VSYNC"`
	Resizable    bool   `yaml:"resizable" toml:"resizable" json:"resizable" env:"RESIZABLE"`
	MonitorIndex int    `yaml:"monitor_index" toml:"monitor_index" json:"monitor_index" env:"MONITOR_INDEX"` // -1 windowed
	MSAASamples  int    `yaml:"msaa_samples" toml:"msaa_samples" json:"msaa_samples" env:"MSAA_SAMPLES"`
	Borderless   bool   `yaml:"borderless" toml:"borderless" json:"borderless" env:"BORDERLESS"`
}

// RendererConfig configures the graphics backend.
type RendererConfig struct {
	EnableValidation   bool     `yaml:"enable_validation" toml:"enable_validation" json:"enable_validation" env:"ENABLE_VALIDATION"`
	EnableMeshShaders  bool     `yaml:"enable_mesh_shaders" toml:"enable_mesh_shaders" json:"enable_mesh_shaders" env:"ENABLE_MESH_SHADERS"`
	EnableRaytracing   bool     `yaml:"enable_raytracing" toml:"enable_raytracing" json:"enable_raytracing" env:"ENABLE_RAYTRACING"`
	EnableBindless     bool     `yaml:"enable_bindless" toml:"enable_bindless" json:"enable_bindless" env:"ENABLE_BINDLESS"`
	RequiredExtensions []string `yaml:"required_extensions" toml:"required_extensions" json:"required_extensions" env:"REQUIRED_EXTENSIONS"`
	OptionalExtensions []string `yaml:"optional_extensions" toml:"optional_extensions" json:"optional_extensions" env:"OPTIONAL_EXTENSIONS"`
	MaxFramesInFlight  int      `yaml:"max_frames_in_flight" toml:"max_frames_in_flight" json:"max_frames_in_flight" env:"MAX_FRAMES_IN_FLIGHT"`
	VRAMBudgetMB       int      `yaml:"vram_budget_mb" toml:"vram_budget_mb" json:"vram_budget_mb" env:"VRAM_BUDGET_MB"` // 0 = auto
	PreferDiscreteGPU  bool     `yaml:"prefer_discrete_gpu" toml:"prefer_discrete_gpu" json:"prefer_discrete_gpu" env:"PREFER_DISCRETE_GPU"`
	ShaderCachePath    string   `yaml:"shader_cache_path" toml:"shader_cache_path" json:"shader_cache_path" env:"SHADER_CACHE_PATH"`
}

// InputConfig configures the input collaborator.
type InputConfig struct {
	RawMouseInput      bool    `yaml:"raw_mouse_input" toml:"raw_mouse_input" json:"raw_mouse_input" env:"RAW_MOUSE_INPUT"`
	MouseSensitivity   float64 `yaml:"mouse_sensitivity" toml:"mouse_sensitivity" json:"mouse_sensitivity" env:"MOUSE_SENSITIVITY"`
	ControllerDeadzone float64 `yaml:"controller_deadzone" toml:"controller_deadzone" json:"controller_deadzone" env:"CONTROLLER_DEADZONE"`
	EnableHaptics      bool    `yaml:"enable_haptics" toml:"enable_haptics" json:"enable_haptics" env:"ENABLE_HAPTICS"`
	KeybindConfig      string  `yaml:"keybind_config" toml:"keybind_config" json:"keybind_config" env:"KEYBIND_CONFIG"`
}

// AudioConfig configures the audio collaborator.
type AudioConfig struct {
	SampleRate            int     `yaml:"sample_rate" toml:"sample_rate" json:"sample_rate" env:"SAMPLE_RATE"`
	BufferSize            int     `yaml:"buffer_size" toml:"buffer_size" json:"buffer_size" env:"BUFFER_SIZE"`
	Channels              int     `yaml:"channels" toml:"channels" json:"channels" env:"CHANNELS"`
	MasterVolume          float64 `yaml:"master_volume" toml:"master_volume" json:"master_volume" env:"MASTER_VOLUME"`
	Enable3DAudio         bool    `yaml:"enable_3d_audio" toml:"enable_3d_audio" json:"enable_3d_audio" env:"ENABLE_3D_AUDIO"`
	MaxSimultaneousSounds int     `yaml:"max_simultaneous_sounds" toml:"max_simultaneous_sounds" json:"max_simultaneous_sounds" env:"MAX_SIMULTANEOUS_SOUNDS"`
}

// WorldConfig configures the world/simulation collaborator.
type WorldConfig struct {
	ChunkSize          int    `yaml:"chunk_size" toml:"chunk_size" json:"chunk_size" env:"CHUNK_SIZE"`                     // power of two
	RenderDistance     int    `yaml:"render_distance" toml:"render_distance" json:"render_distance" env:"RENDER_DISTANCE"` // chunks
	SimulationDistance int    `yaml:"simulation_distance" toml:"simulation_distance" json:"simulation_distance" env:"SIMULATION_DISTANCE"`
	EnableLOD          bool   `yaml:"enable_lod" toml:"enable_lod" json:"enable_lod" env:"ENABLE_LOD"`
	MaxChunksPerFrame  int    `yaml:"max_chunks_per_frame" toml:"max_chunks_per_frame" json:"max_chunks_per_frame" env:"MAX_CHUNKS_PER_FRAME"`
	WorldSeed          uint64 `yaml:"world_seed" toml:"world_seed" json:"world_seed" env:"WORLD_SEED"` // 0 = random
	SavePath           string `yaml:"save_path" toml:"save_path" json:"save_path" env:"SAVE_PATH"`
}

// NetworkConfig configures the network collaborator.
type NetworkConfig struct {
	Mode          NetworkMode `yaml:"mode" toml:"mode" json:"mode" env:"MODE"`
	Port          int         `yaml:"port" toml:"port" json:"port" env:"PORT"`
	ServerAddress string      `yaml:"server_address" toml:"server_address" json:"server_address" env:"SERVER_ADDRESS"`
	MaxPlayers    int         `yaml:"max_players" toml:"max_players" json:"max_players" env:"MAX_PLAYERS"`
	UseRelay      bool        `yaml:"use_relay" toml:"use_relay" json:"use_relay" env:"USE_RELAY"`
	TickRate      int         `yaml:"tick_rate" toml:"tick_rate" json:"tick_rate" env:"TICK_RATE"`
	SendRate      int         `yaml:"send_rate" toml:"send_rate" json:"send_rate" env:"SEND_RATE"`
}

// AssetConfig configures the asset system.
type AssetConfig struct {
	Paths           []string `yaml:"paths" toml:"paths" json:"paths" env:"PATHS"`
	EnableHotReload bool     `yaml:"enable_hot_reload" toml:"enable_hot_reload" json:"enable_hot_reload" env:"ENABLE_HOT_RELOAD"`
	ValidateAssets  bool     `yaml:"validate_assets" toml:"validate_assets" json:"validate_assets" env:"VALIDATE_ASSETS"`
	CacheSizeMB     int      `yaml:"cache_size_mb" toml:"cache_size_mb" json:"cache_size_mb" env:"CACHE_SIZE_MB"`
	AsyncLoading    bool     `yaml:"async_loading" toml:"async_loading" json:"async_loading" env:"ASYNC_LOADING"`
	LoaderThreads   int      `yaml:"loader_threads" toml:"loader_threads" json:"loader_threads" env:"LOADER_THREADS"`
}

// GlobalConfig holds engine-wide settings.
type GlobalConfig struct {
	EnableProfiling bool    `yaml:"enable_profiling" toml:"enable_profiling" json:"enable_profiling" env:"ENABLE_PROFILING"`
	EnableDebugUI   bool    `yaml:"enable_debug_ui" toml:"enable_debug_ui" json:"enable_debug_ui" env:"ENABLE_DEBUG_UI"`
	LogPath         string  `yaml:"log_path" toml:"log_path" json:"log_path" env:"LOG_PATH"`
	ProfilePath     string  `yaml:"profile_path" toml:"profile_path" json:"profile_path" env:"PROFILE_PATH"` // sqlite journal, empty = off
	TargetFPS       int     `yaml:"target_fps" toml:"target_fps" json:"target_fps" env:"TARGET_FPS"`         // 0 = unlimited
	FixedTimestep   float64 `yaml:"fixed_timestep" toml:"fixed_timestep" json:"fixed_timestep" env:"FIXED_TIMESTEP"`
	MaxDeltaTime    float64 `yaml:"max_delta_time" toml:"max_delta_time" json:"max_delta_time" env:"MAX_DELTA_TIME"`
}

// Config is the engine configuration aggregate.
type Config struct {
	Window   WindowConfig   `yaml:"window" toml:"window" json:"window" envPrefix:"WINDOW_"`
	Renderer RendererConfig `yaml:"renderer" toml:"renderer" json:"renderer" envPrefix:"RENDERER_"`
	Input    InputConfig    `yaml:"input" toml:"input" json:"input" envPrefix:"INPUT_"`
	Audio    AudioConfig    `yaml:"audio" toml:"audio" json:"audio" envPrefix:"AUDIO_"`
	World    WorldConfig    `yaml:"world" toml:"world" json:"world" envPrefix:"WORLD_"`
	Network  NetworkConfig  `yaml:"network" toml:"network" json:"network" envPrefix:"NETWORK_"`
	Assets   AssetConfig    `yaml:"assets" toml:"assets" json:"assets" envPrefix:"ASSETS_"`
	Global   GlobalConfig   `yaml:"global" toml:"global" json:"global" envPrefix:"GLOBAL_"`
}

// Clone returns a deep copy of c. Slices are copied so the clone can be
// mutated without aliasing the original.
func (c Config) Clone() Config {
	out := c
	out.Renderer.RequiredExtensions = cloneStrings(c.Renderer.RequiredExtensions)
	out.Renderer.OptionalExtensions = cloneStrings(c.Renderer.OptionalExtensions)
	out.Assets.Paths = cloneStrings(c.Assets.Paths)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

// Default returns the standard configuration, with loader threads sized to
// the host.
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:        DefaultTitle,
			Width:        1920,
			Height:       1080,
			VSync:        true,
			Resizable:    true,
			MonitorIndex: 0,
			MSAASamples:  1,
		},
		Renderer: RendererConfig{
			EnableValidation:   true,
			EnableMeshShaders:  true,
			EnableBindless:     true,
			RequiredExtensions: []string{"VK_KHR_swapchain"},
			OptionalExtensions: []string{"VK_EXT_mesh_shader", "VK_KHR_ray_tracing_pipeline"},
			MaxFramesInFlight:  2,
			PreferDiscreteGPU:  true,
			ShaderCachePath:    "Cache/Shaders",
		},
		Input: InputConfig{
			RawMouseInput:      true,
			MouseSensitivity:   1.0,
			ControllerDeadzone: 0.15,
			EnableHaptics:      true,
			KeybindConfig:      "Config/keybinds.json",
		},
		Audio: AudioConfig{
			SampleRate:            48000,
			BufferSize:            512,
			Channels:              2,
			MasterVolume:          1.0,
			Enable3DAudio:         true,
			MaxSimultaneousSounds: 128,
		},
		World: WorldConfig{
			ChunkSize:          DefaultChunkSize,
			RenderDistance:     16,
			SimulationDistance: 8,
			EnableLOD:          true,
			MaxChunksPerFrame:  4,
			SavePath:           "Saves/World",
		},
		Network: NetworkConfig{
			Mode:          NetworkOffline,
			Port:          DefaultPort,
			ServerAddress: "127.0.0.1",
			MaxPlayers:    4,
			UseRelay:      true,
			TickRate:      60,
			SendRate:      30,
		},
		Assets: AssetConfig{
			Paths:           []string{"Content"},
			EnableHotReload: true,
			ValidateAssets:  true,
			CacheSizeMB:     512,
			AsyncLoading:    true,
			LoaderThreads:   loaderThreads(runtime.NumCPU()),
		},
		Global: GlobalConfig{
			EnableProfiling: true,
			EnableDebugUI:   true,
			LogPath:         "Logs",
			FixedTimestep:   DefaultFixedTimestep,
			MaxDeltaTime:    DefaultMaxDeltaTime,
		},
	}
}

// Minimal returns a small offline configuration for tools and tests. It
// touches no files: no asset paths, no log directory.
func Minimal() Config {
	cfg := Default()
	cfg.Window.Width = 800
	cfg.Window.Height = 600
	cfg.Renderer.EnableValidation = false
	cfg.Renderer.EnableMeshShaders = false
	cfg.World.RenderDistance = 4
	cfg.World.SimulationDistance = 4
	cfg.Assets.AsyncLoading = false
	cfg.Assets.Paths = nil
	cfg.Network.Mode = NetworkOffline
	cfg.Global.LogPath = ""
	cfg.Global.EnableProfiling = false
	return cfg
}

// Maximal returns a configuration with every feature enabled.
func Maximal() Config {
	cfg := Default()
	cfg.Window.Width = 3840
	cfg.Window.Height = 2160
	cfg.Renderer.EnableValidation = true
	cfg.Renderer.EnableMeshShaders = true
	cfg.Renderer.EnableRaytracing = true
	cfg.Renderer.EnableBindless = true
	cfg.World.RenderDistance = 32
	cfg.Assets.CacheSizeMB = 2048
	return cfg
}

// Preset returns a named preset: "default", "minimal" or "maximal".
func Preset(name string) (Config, bool) {
	switch name {
	case "", "default":
		return Default(), true
	case "minimal":
		return Minimal(), true
	case "maximal":
		return Maximal(), true
	default:
		return Config{}, false
	}
}

// loaderThreads is min(cpus/2, 4), never below 1.
func loaderThreads(cpus int) int {
	n := cpus / 2
	if n > 4 {
		n = 4
	}
	if n < 1 {
		n = 1
	}
	return n
}
