package engine

import (
	"errors"
	"fmt"

	"github.com/roach88/ashborn/internal/subsystem"
)

// Error represents an orchestration failure.
//
// Orchestration errors include:
//   - Already initialized: Initialize called twice
//   - Not initialized: Shutdown or a reload called before Initialize
//   - Subsystem failure: a critical stage failed and was rolled back
//   - Invalid configuration: structural validation failed before any stage ran
//
// For subsystem failures, Unwrap exposes the stage's own typed error so
// callers can match it with errors.As (e.g. *subsystem.RendererError).
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Stage identifies the failing stage (subsystem failures only).
	Stage subsystem.Kind

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause.
	Err error
}

// ErrorCode categorizes orchestration errors.
type ErrorCode string

const (
	// ErrCodeAlreadyInitialized indicates Initialize on an initialized engine.
	ErrCodeAlreadyInitialized ErrorCode = "ALREADY_INITIALIZED"

	// ErrCodeNotInitialized indicates an operation that needs a running engine.
	ErrCodeNotInitialized ErrorCode = "NOT_INITIALIZED"

	// ErrCodeSubsystemFailure indicates a critical stage failed during bring-up.
	ErrCodeSubsystemFailure ErrorCode = "SUBSYSTEM_FAILURE"

	// ErrCodeInvalidConfiguration indicates the configuration failed validation.
	ErrCodeInvalidConfiguration ErrorCode = "INVALID_CONFIGURATION"
)

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Stage != "" {
		msg = fmt.Sprintf("%s (stage=%s)", msg, e.Stage)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var ee *Error
	if errors.As(err, &ee) {
		return ee.Code == code
	}
	return false
}

// IsAlreadyInitialized returns true if err is an already-initialized error.
// Uses errors.As to handle wrapped errors.
func IsAlreadyInitialized(err error) bool {
	return hasCode(err, ErrCodeAlreadyInitialized)
}

// IsNotInitialized returns true if err is a not-initialized error.
func IsNotInitialized(err error) bool {
	return hasCode(err, ErrCodeNotInitialized)
}

// IsSubsystemFailure returns true if err is a rolled-back bring-up failure.
func IsSubsystemFailure(err error) bool {
	return hasCode(err, ErrCodeSubsystemFailure)
}

// IsInvalidConfiguration returns true if err is a configuration error.
func IsInvalidConfiguration(err error) bool {
	return hasCode(err, ErrCodeInvalidConfiguration)
}

func errAlreadyInitialized() *Error {
	return &Error{Code: ErrCodeAlreadyInitialized, Message: "engine already initialized"}
}

func errNotInitialized(op string) *Error {
	return &Error{Code: ErrCodeNotInitialized, Message: op + " requires an initialized engine"}
}

func errSubsystemFailure(kind subsystem.Kind, cause error) *Error {
	return &Error{
		Code:    ErrCodeSubsystemFailure,
		Stage:   kind,
		Message: "critical stage failed, bring-up rolled back",
		Err:     cause,
	}
}

func errInvalidConfiguration(cause error) *Error {
	return &Error{Code: ErrCodeInvalidConfiguration, Message: "configuration rejected", Err: cause}
}
