package harness

import (
	"context"
	"fmt"

	"github.com/roach88/ashborn/internal/config"
	"github.com/roach88/ashborn/internal/engine"
	"github.com/roach88/ashborn/internal/subsystem"
)

// recordingStage is a collaborator that records its lifecycle calls into
// the scenario result and fails on demand.
type recordingStage struct {
	kind         subsystem.Kind
	result       *Result
	failInit     bool
	failShutdown bool
	up           bool
}

func (s *recordingStage) Name() string        { return "recording " + string(s.kind) }
func (s *recordingStage) IsInitialized() bool { return s.up }

func (s *recordingStage) Init(ctx context.Context) error {
	if s.failInit {
		s.result.add(EventFail, string(s.kind))
		return stageError(s.kind)
	}
	s.result.add(EventInit, string(s.kind))
	s.up = true
	return nil
}

func (s *recordingStage) Shutdown(ctx context.Context) error {
	s.result.add(EventShutdown, string(s.kind))
	s.up = false
	if s.failShutdown {
		return fmt.Errorf("%s reported a shutdown problem", s.kind)
	}
	return nil
}

// recordingDisplay records the start of every frame when the scheduler
// polls for events.
type recordingDisplay struct {
	*recordingStage
	events  *subsystem.EventDispatcher
	frames  int
	closing bool
}

func (d *recordingDisplay) PollEvents() {
	d.frames++
	d.result.addf(EventFrame, "%d", d.frames)
	d.events.Dispatch()
}

func (d *recordingDisplay) ShouldClose() bool { return d.closing }
func (d *recordingDisplay) RequestClose()     { d.closing = true }
func (d *recordingDisplay) Present() error    { return nil }

// stageError returns the kind's generic bring-up failure.
func stageError(kind subsystem.Kind) error {
	const msg = "injected failure"
	switch kind {
	case subsystem.KindCore:
		return subsystem.NewCoreError(subsystem.CoreInitFailed, msg, nil)
	case subsystem.KindDisplay:
		return subsystem.NewWindowError(subsystem.DisplayInitFailed, msg, nil)
	case subsystem.KindRenderer:
		return subsystem.NewRendererError(subsystem.BackendInitFailed, msg, nil)
	case subsystem.KindInput:
		return subsystem.NewInputError(subsystem.InputInitFailed, msg, nil)
	case subsystem.KindAudio:
		return subsystem.NewAudioError(subsystem.AudioDeviceInitFailed, msg, nil)
	case subsystem.KindWorld:
		return subsystem.NewWorldError(subsystem.WorldInitFailed, msg, nil)
	case subsystem.KindNetwork:
		return subsystem.NewNetworkError(subsystem.NetworkInitFailed, msg, nil)
	default:
		return subsystem.NewAssetError(subsystem.AssetInitFailed, msg, nil)
	}
}

// recordingFactory builds a full set of recording collaborators.
func recordingFactory(sc *Scenario, result *Result) engine.Factory {
	fail := toSet(sc.Fail)
	failShutdown := toSet(sc.FailShutdown)

	return func(cfg config.Config, events *subsystem.EventDispatcher) (engine.Collaborators, error) {
		stage := func(kind subsystem.Kind) *recordingStage {
			return &recordingStage{
				kind:         kind,
				result:       result,
				failInit:     fail[string(kind)],
				failShutdown: failShutdown[string(kind)],
			}
		}
		return engine.Collaborators{
			Core:     stage(subsystem.KindCore),
			Display:  &recordingDisplay{recordingStage: stage(subsystem.KindDisplay), events: events},
			Renderer: stage(subsystem.KindRenderer),
			Input:    stage(subsystem.KindInput),
			Audio:    stage(subsystem.KindAudio),
			World:    stage(subsystem.KindWorld),
			Network:  stage(subsystem.KindNetwork),
			Assets:   stage(subsystem.KindAssets),
		}, nil
	}
}

func toSet(items []string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}
