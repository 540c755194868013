package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for _, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s\n", event.Seq, event)
		}
	}
	return buf.String()
}

// assertTraceContains checks if the trace contains the event.
func assertTraceContains(trace []TraceEvent, assertion Assertion) error {
	for _, event := range trace {
		if event.String() == assertion.Event {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertTraceContains,
		Expected: fmt.Sprintf("event %s", assertion.Event),
		Actual:   "not found in trace",
		Trace:    trace,
	}
}

// assertTraceOrder checks that events appear in the given order.
// Events don't need to be consecutive (intervening events are allowed);
// each expected event is matched at or after the previous match.
func assertTraceOrder(trace []TraceEvent, assertion Assertion) error {
	pos := 0
	prevAt := 0
	for i, want := range assertion.Events {
		found := false
		for pos < len(trace) {
			ev := trace[pos]
			pos++
			if ev.String() == want {
				found = true
				prevAt = ev.Seq
				break
			}
		}
		if !found {
			actual := fmt.Sprintf("missing event: %s", want)
			if i > 0 && containsEvent(trace, want) {
				actual = fmt.Sprintf("%s does not occur after %s (pos %d)", want, assertion.Events[i-1], prevAt)
			}
			return &AssertionError{
				Type:     AssertTraceOrder,
				Expected: fmt.Sprintf("events in order: %v", assertion.Events),
				Actual:   actual,
				Trace:    trace,
			}
		}
	}
	return nil
}

func containsEvent(trace []TraceEvent, want string) bool {
	for _, ev := range trace {
		if ev.String() == want {
			return true
		}
	}
	return false
}

// assertTraceCount checks if the event appears exactly the specified number of times.
func assertTraceCount(trace []TraceEvent, assertion Assertion) error {
	count := 0
	for _, event := range trace {
		if event.String() == assertion.Event {
			count++
		}
	}
	if count != assertion.Count {
		return &AssertionError{
			Type:     AssertTraceCount,
			Expected: fmt.Sprintf("%d occurrences of %s", assertion.Count, assertion.Event),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Trace:    trace,
		}
	}
	return nil
}

// assertResult checks the run outcome and, optionally, an error code.
func assertResult(result *Result, assertion Assertion) error {
	if result.Outcome != assertion.Expect {
		return &AssertionError{
			Type:     AssertResult,
			Expected: fmt.Sprintf("outcome %s", assertion.Expect),
			Actual:   fmt.Sprintf("outcome %s %v", result.Outcome, result.Codes),
		}
	}
	if assertion.Code != "" && !result.HasCode(assertion.Code) {
		return &AssertionError{
			Type:     AssertResult,
			Expected: fmt.Sprintf("error code %s", assertion.Code),
			Actual:   fmt.Sprintf("codes %v", result.Codes),
		}
	}
	return nil
}

// assertAvailability checks stage availability after bring-up.
func assertAvailability(result *Result, assertion Assertion) error {
	want := assertion.Type == AssertAvailable
	var wrong []string
	for _, st := range assertion.Stages {
		if result.Available[st] != want {
			wrong = append(wrong, st)
		}
	}
	if len(wrong) > 0 {
		return &AssertionError{
			Type:     assertion.Type,
			Expected: fmt.Sprintf("stages %s: %v", assertion.Type, assertion.Stages),
			Actual:   fmt.Sprintf("not %s: %v", assertion.Type, wrong),
		}
	}
	return nil
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(result.Trace, a)
		case AssertTraceOrder:
			err = assertTraceOrder(result.Trace, a)
		case AssertTraceCount:
			err = assertTraceCount(result.Trace, a)
		case AssertResult:
			err = assertResult(result, a)
		case AssertAvailable, AssertUnavailable:
			err = assertAvailability(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}
