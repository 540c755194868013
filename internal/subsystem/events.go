package subsystem

import "sync"

// EventType distinguishes window events.
type EventType int

const (
	// EventFocus reports a focus gain or loss.
	EventFocus EventType = iota + 1
	// EventResize reports a new framebuffer size.
	EventResize
	// EventClose reports a close request from the window system.
	EventClose
)

func (t EventType) String() string {
	switch t {
	case EventFocus:
		return "focus"
	case EventResize:
		return "resize"
	case EventClose:
		return "close"
	default:
		return "unknown"
	}
}

// Event is a typed window event.
type Event struct {
	Type    EventType
	Focused bool
	Width   int
	Height  int
}

// EventHandler receives dispatched window events on the loop goroutine.
type EventHandler interface {
	HandleEvent(Event)
}

// EventHandlerFunc adapts a function to EventHandler.
type EventHandlerFunc func(Event)

// HandleEvent calls f(ev).
func (f EventHandlerFunc) HandleEvent(ev Event) { f(ev) }

// EventDispatcher is the explicit hand-off between the display collaborator
// and the frame loop.
//
// Post may be called from any goroutine (window-system callbacks, signal
// handlers). Dispatch runs on the loop goroutine and delivers pending events
// in FIFO order to the attached handler. Events posted while no handler is
// attached are dropped on the next Dispatch.
type EventDispatcher struct {
	mu      sync.Mutex
	handler EventHandler
	pending []Event
}

// NewEventDispatcher creates an empty dispatcher.
func NewEventDispatcher() *EventDispatcher {
	return &EventDispatcher{}
}

// Attach sets the handler. A nil handler detaches.
func (d *EventDispatcher) Attach(h EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handler = h
}

// Post queues an event for the next Dispatch.
func (d *EventDispatcher) Post(ev Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.pending = append(d.pending, ev)
}

// Dispatch delivers all pending events and returns how many were delivered.
// The handler runs without the lock held so it may Post follow-up events;
// those are delivered on the next Dispatch.
func (d *EventDispatcher) Dispatch() int {
	d.mu.Lock()
	events := d.pending
	d.pending = nil
	h := d.handler
	d.mu.Unlock()

	if h == nil {
		return 0
	}
	for _, ev := range events {
		h.HandleEvent(ev)
	}
	return len(events)
}

// Pending returns the number of queued events.
func (d *EventDispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}
