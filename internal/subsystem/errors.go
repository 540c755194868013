package subsystem

import (
	"errors"
	"fmt"
)

// Code is the constraint satisfied by every per-kind error enumeration.
type Code interface {
	~string
}

// StageError is a typed bring-up or runtime failure of one subsystem kind.
//
// Each collaborator kind has its own code enumeration; the aliases below
// (WindowError, RendererError, ...) give every kind a distinct error type
// that callers can match with errors.As.
type StageError[C Code] struct {
	// Kind identifies the failing stage.
	Kind Kind

	// Code identifies the failure within the kind's enumeration.
	Code C

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause (optional).
	Err error
}

// Error implements the error interface.
func (e *StageError[C]) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Kind, e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Kind, e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *StageError[C]) Unwrap() error {
	return e.Err
}

// StageKind returns the failing stage.
func (e *StageError[C]) StageKind() Kind {
	return e.Kind
}

// CodeString returns the code without its enumeration type.
func (e *StageError[C]) CodeString() string {
	return string(e.Code)
}

type kinded interface {
	StageKind() Kind
	CodeString() string
}

// KindOf returns the stage kind of the first StageError in err's chain.
func KindOf(err error) (Kind, bool) {
	var k kinded
	if errors.As(err, &k) {
		return k.StageKind(), true
	}
	return "", false
}

// CodeOf returns the code of the first StageError in err's chain.
func CodeOf(err error) (string, bool) {
	var k kinded
	if errors.As(err, &k) {
		return k.CodeString(), true
	}
	return "", false
}

// CoreCode enumerates core services failures.
type CoreCode string

const (
	CoreInitFailed    CoreCode = "CORE_INIT_FAILED"
	CoreJournalFailed CoreCode = "JOURNAL_OPEN_FAILED"
)

// DisplayCode enumerates window/display failures.
type DisplayCode string

const (
	DisplayInitFailed     DisplayCode = "DISPLAY_INIT_FAILED"
	WindowCreationFailed  DisplayCode = "WINDOW_CREATION_FAILED"
	MonitorNotFound       DisplayCode = "MONITOR_NOT_FOUND"
	InvalidDimensions     DisplayCode = "INVALID_DIMENSIONS"
	SurfaceCreationFailed DisplayCode = "SURFACE_CREATION_FAILED"
)

// RendererCode enumerates graphics backend failures.
type RendererCode string

const (
	BackendInitFailed           RendererCode = "BACKEND_INIT_FAILED"
	NoSuitableGPU               RendererCode = "NO_SUITABLE_GPU"
	SwapchainCreationFailed     RendererCode = "SWAPCHAIN_CREATION_FAILED"
	ValidationLayersUnavailable RendererCode = "VALIDATION_LAYERS_UNAVAILABLE"
	ExtensionNotSupported       RendererCode = "EXTENSION_NOT_SUPPORTED"
	ShaderCompilationFailed     RendererCode = "SHADER_COMPILATION_FAILED"
	OutOfGPUMemory              RendererCode = "OUT_OF_GPU_MEMORY"
	RendererNotReady            RendererCode = "RENDERER_NOT_READY"
)

// InputCode enumerates input failures.
type InputCode string

const (
	InputInitFailed InputCode = "INPUT_INIT_FAILED"
	DeviceNotFound  InputCode = "DEVICE_NOT_FOUND"
	MappingFailed   InputCode = "MAPPING_FAILED"
)

// AudioCode enumerates audio failures.
type AudioCode string

const (
	AudioDeviceInitFailed AudioCode = "DEVICE_INIT_FAILED"
	NoOutputDevice        AudioCode = "NO_OUTPUT_DEVICE"
	FormatNotSupported    AudioCode = "FORMAT_NOT_SUPPORTED"
	BufferCreationFailed  AudioCode = "BUFFER_CREATION_FAILED"
)

// WorldCode enumerates world/simulation failures.
type WorldCode string

const (
	WorldInitFailed       WorldCode = "WORLD_INIT_FAILED"
	WorldInvalidConfig    WorldCode = "INVALID_CONFIGURATION"
	ChunkGenerationFailed WorldCode = "CHUNK_GENERATION_FAILED"
	SerializationFailed   WorldCode = "SERIALIZATION_FAILED"
)

// NetworkCode enumerates network failures.
type NetworkCode string

const (
	NetworkInitFailed NetworkCode = "NETWORK_INIT_FAILED"
	PortBindFailed    NetworkCode = "PORT_BIND_FAILED"
	RelayFailed       NetworkCode = "RELAY_FAILED"
	ConnectionFailed  NetworkCode = "CONNECTION_FAILED"
)

// AssetCode enumerates asset system failures.
type AssetCode string

const (
	AssetInitFailed AssetCode = "ASSET_INIT_FAILED"
	PathNotFound    AssetCode = "PATH_NOT_FOUND"
	LoaderNotFound  AssetCode = "LOADER_NOT_FOUND"
	CorruptedAsset  AssetCode = "CORRUPTED_ASSET"
	AssetsNotReady  AssetCode = "ASSETS_NOT_READY"
)

// Per-kind error types.
type (
	CoreError     = StageError[CoreCode]
	WindowError   = StageError[DisplayCode]
	RendererError = StageError[RendererCode]
	InputError    = StageError[InputCode]
	AudioError    = StageError[AudioCode]
	WorldError    = StageError[WorldCode]
	NetworkError  = StageError[NetworkCode]
	AssetError    = StageError[AssetCode]
)

func NewCoreError(code CoreCode, msg string, err error) *CoreError {
	return &CoreError{Kind: KindCore, Code: code, Message: msg, Err: err}
}

func NewWindowError(code DisplayCode, msg string, err error) *WindowError {
	return &WindowError{Kind: KindDisplay, Code: code, Message: msg, Err: err}
}

func NewRendererError(code RendererCode, msg string, err error) *RendererError {
	return &RendererError{Kind: KindRenderer, Code: code, Message: msg, Err: err}
}

func NewInputError(code InputCode, msg string, err error) *InputError {
	return &InputError{Kind: KindInput, Code: code, Message: msg, Err: err}
}

func NewAudioError(code AudioCode, msg string, err error) *AudioError {
	return &AudioError{Kind: KindAudio, Code: code, Message: msg, Err: err}
}

func NewWorldError(code WorldCode, msg string, err error) *WorldError {
	return &WorldError{Kind: KindWorld, Code: code, Message: msg, Err: err}
}

func NewNetworkError(code NetworkCode, msg string, err error) *NetworkError {
	return &NetworkError{Kind: KindNetwork, Code: code, Message: msg, Err: err}
}

func NewAssetError(code AssetCode, msg string, err error) *AssetError {
	return &AssetError{Kind: KindAssets, Code: code, Message: msg, Err: err}
}
