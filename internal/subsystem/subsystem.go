package subsystem

import "context"

// Kind identifies a bring-up stage.
type Kind string

const (
	KindCore     Kind = "core"
	KindDisplay  Kind = "display"
	KindRenderer Kind = "renderer"
	KindInput    Kind = "input"
	KindAudio    Kind = "audio"
	KindWorld    Kind = "world"
	KindNetwork  Kind = "network"
	KindAssets   Kind = "assets"
)

// Order is the fixed bring-up order. Tear-down walks it in reverse.
var Order = []Kind{
	KindCore,
	KindDisplay,
	KindRenderer,
	KindInput,
	KindAudio,
	KindWorld,
	KindNetwork,
	KindAssets,
}

// Critical reports whether a failed bring-up of this kind aborts
// initialization. Audio and network degrade instead.
func (k Kind) Critical() bool {
	switch k {
	case KindAudio, KindNetwork:
		return false
	default:
		return true
	}
}

// Subsystem is the bring-up/tear-down contract.
//
// Init returns nil or a typed *StageError for its kind. Shutdown must be
// safe on a subsystem that never initialized (no-op) and safe to call
// twice; a returned error is logged by the caller and never aborts the
// remaining tear-down.
type Subsystem interface {
	Name() string
	Init(ctx context.Context) error
	Shutdown(ctx context.Context) error
	IsInitialized() bool
}

// Display is the window/display collaborator. Besides the contract it
// exposes the per-frame calls the scheduler issues once per frame.
type Display interface {
	Subsystem

	// PollEvents delivers pending window events to the dispatcher the
	// display was constructed with.
	PollEvents()

	// ShouldClose reports a pending close request from the window system.
	ShouldClose() bool

	// RequestClose marks the window for closing.
	RequestClose()

	// Present hands the finished frame to the window system.
	Present() error
}
