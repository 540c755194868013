package harness

import (
	"fmt"
	"strings"
)

// Trace event kinds.
const (
	EventInit     = "init"
	EventFail     = "fail"
	EventShutdown = "shutdown"
	EventFrame    = "frame"
	EventHook     = "hook"
)

// TraceEvent is one recorded lifecycle step.
type TraceEvent struct {
	Seq  int    `json:"seq"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}

// String renders the event as "kind:name".
func (e TraceEvent) String() string {
	return e.Kind + ":" + e.Name
}

// Outcomes reported in Result.Outcome.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates every assertion held.
	Pass bool `json:"pass"`

	// Outcome is "ok" when the run returned no error, "error" otherwise.
	Outcome string `json:"outcome"`

	// Codes lists the error codes found along the returned error chain,
	// outermost first.
	Codes []string `json:"codes,omitempty"`

	// Trace contains every recorded event in order.
	Trace []TraceEvent `json:"trace"`

	// Available maps each stage to whether it was up when the loop started.
	// Empty when bring-up failed.
	Available map[string]bool `json:"available,omitempty"`

	// Frames is the number of completed frames.
	Frames uint64 `json:"frames"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:      true,
		Outcome:   OutcomeOK,
		Trace:     []TraceEvent{},
		Available: make(map[string]bool),
	}
}

// AddError adds an assertion failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// add appends an event with the next sequence number.
func (r *Result) add(kind, name string) {
	r.Trace = append(r.Trace, TraceEvent{Seq: len(r.Trace) + 1, Kind: kind, Name: name})
}

// addf appends an event whose name is formatted.
func (r *Result) addf(kind, format string, args ...any) {
	r.add(kind, fmt.Sprintf(format, args...))
}

// Events returns the trace rendered as "kind:name" strings.
func (r *Result) Events() []string {
	out := make([]string, len(r.Trace))
	for i, ev := range r.Trace {
		out[i] = ev.String()
	}
	return out
}

// HasCode reports whether code appears in the error chain.
func (r *Result) HasCode(code string) bool {
	for _, c := range r.Codes {
		if strings.EqualFold(c, code) {
			return true
		}
	}
	return false
}
