package frame

// The callback surface is a set of single-method interfaces. The value
// passed to New may implement any subset of them; hooks it does not
// implement are no-ops. All hooks run synchronously on the loop goroutine.

// StartHook is called once after bring-up, before the first frame.
type StartHook interface{ OnStart() }

// UpdateHook is called once per unpaused frame with the frame's timing.
type UpdateHook interface{ OnUpdate(t Timing) }

// FixedUpdateHook is called zero or more times per unpaused frame with the
// fixed delta in seconds.
type FixedUpdateHook interface{ OnFixedUpdate(fixedDelta float64) }

// RenderHook is called once per unpaused frame after the variable update.
type RenderHook interface{ OnRender(t Timing) }

// GUIHook is called after render on unpaused frames.
type GUIHook interface{ OnGUI() }

// FocusHook receives window focus changes.
type FocusHook interface{ OnFocusChanged(focused bool) }

// ResizeHook receives framebuffer size changes.
type ResizeHook interface{ OnResize(width, height int) }

// ShutdownHook is called once after the last frame, before engine shutdown.
type ShutdownHook interface{ OnShutdown() }

// Hooks adapts plain functions to the callback surface. Nil fields are
// no-ops.
type Hooks struct {
	Start        func()
	Update       func(Timing)
	FixedUpdate  func(float64)
	Render       func(Timing)
	GUI          func()
	FocusChanged func(bool)
	Resize       func(int, int)
	Shutdown     func()
}

func (h *Hooks) OnStart() {
	if h.Start != nil {
		h.Start()
	}
}

func (h *Hooks) OnUpdate(t Timing) {
	if h.Update != nil {
		h.Update(t)
	}
}

func (h *Hooks) OnFixedUpdate(dt float64) {
	if h.FixedUpdate != nil {
		h.FixedUpdate(dt)
	}
}

func (h *Hooks) OnRender(t Timing) {
	if h.Render != nil {
		h.Render(t)
	}
}

func (h *Hooks) OnGUI() {
	if h.GUI != nil {
		h.GUI()
	}
}

func (h *Hooks) OnFocusChanged(focused bool) {
	if h.FocusChanged != nil {
		h.FocusChanged(focused)
	}
}

func (h *Hooks) OnResize(w, ht int) {
	if h.Resize != nil {
		h.Resize(w, ht)
	}
}

func (h *Hooks) OnShutdown() {
	if h.Shutdown != nil {
		h.Shutdown()
	}
}

// hookSet is the resolved callback surface.
type hookSet struct {
	start    StartHook
	update   UpdateHook
	fixed    FixedUpdateHook
	render   RenderHook
	gui      GUIHook
	focus    FocusHook
	resize   ResizeHook
	shutdown ShutdownHook
}

func resolveHooks(cb any) hookSet {
	var hs hookSet
	if cb == nil {
		return hs
	}
	hs.start, _ = cb.(StartHook)
	hs.update, _ = cb.(UpdateHook)
	hs.fixed, _ = cb.(FixedUpdateHook)
	hs.render, _ = cb.(RenderHook)
	hs.gui, _ = cb.(GUIHook)
	hs.focus, _ = cb.(FocusHook)
	hs.resize, _ = cb.(ResizeHook)
	hs.shutdown, _ = cb.(ShutdownHook)
	return hs
}
