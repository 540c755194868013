package headless

import (
	"context"
	"strings"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/subsystem"
)

// DefaultVRAMMB is the VRAM reported when no budget is configured.
const DefaultVRAMMB = 4096

// SupportedExtensions lists the device extensions the null backend accepts.
var SupportedExtensions = []string{
	"VK_KHR_swapchain",
	"VK_KHR_dynamic_rendering",
	"VK_KHR_ray_tracing_pipeline",
	"VK_EXT_descriptor_indexing",
	"VK_EXT_mesh_shader",
}

// Renderer is a null graphics backend.
type Renderer struct {
	lifecycle
	cfg config.RendererConfig

	enabled []string
	reloads int
	faces   uint32
}

// NewRenderer creates a backend for cfg.
func NewRenderer(cfg config.RendererConfig) *Renderer {
	return &Renderer{cfg: cfg}
}

func (r *Renderer) Name() string { return "null renderer" }

func (r *Renderer) Init(ctx context.Context) error {
	if r.up {
		return nil
	}
	var missing []string
	for _, ext := range r.cfg.RequiredExtensions {
		if !supported(ext) {
			missing = append(missing, ext)
		}
	}
	if len(missing) > 0 {
		return subsystem.NewRendererError(subsystem.ExtensionNotSupported, strings.Join(missing, ", "), nil)
	}

	r.enabled = append([]string(nil), r.cfg.RequiredExtensions...)
	for _, ext := range r.cfg.OptionalExtensions {
		if supported(ext) {
			r.enabled = append(r.enabled, ext)
		}
	}
	r.up = true
	return nil
}

func (r *Renderer) Shutdown(ctx context.Context) error {
	r.up = false
	r.enabled = nil
	return nil
}

// Extensions returns the enabled extensions.
func (r *Renderer) Extensions() []string { return r.enabled }

// ReloadShaders counts the reload.
func (r *Renderer) ReloadShaders(ctx context.Context) error {
	if !r.up {
		return subsystem.NewRendererError(subsystem.RendererNotReady, "backend down", nil)
	}
	r.reloads++
	return nil
}

// ShaderReloads returns how often shaders were reloaded.
func (r *Renderer) ShaderReloads() int { return r.reloads }

// SetFacesRendered records the face count of the last frame.
func (r *Renderer) SetFacesRendered(n uint32) { r.faces = n }

// RenderCounters reports the configured VRAM budget as available.
func (r *Renderer) RenderCounters() subsystem.RenderCounters {
	avail := uint64(DefaultVRAMMB)
	if r.cfg.VRAMBudgetMB > 0 {
		avail = uint64(r.cfg.VRAMBudgetMB)
	}
	return subsystem.RenderCounters{FacesRendered: r.faces, VRAMAvailableMB: avail}
}

func supported(ext string) bool {
	for _, s := range SupportedExtensions {
		if s == ext {
			return true
		}
	}
	return false
}
