package frame

import (
	"errors"
	"fmt"
)

// Error represents a frame loop failure.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string

	// Err is the underlying cause (optional).
	Err error
}

// ErrorCode categorizes frame loop errors.
type ErrorCode string

const (
	// ErrCodeAlreadyRunning indicates Run on a scheduler whose loop is active.
	ErrCodeAlreadyRunning ErrorCode = "ALREADY_RUNNING"

	// ErrCodeNotInitialized indicates RunFrame before the engine was initialized.
	ErrCodeNotInitialized ErrorCode = "NOT_INITIALIZED"

	// ErrCodeFrameFailed indicates a frame could not complete (e.g. present failed).
	ErrCodeFrameFailed ErrorCode = "FRAME_FAILED"

	// ErrCodeEngineInitFailed indicates engine bring-up failed inside Run.
	ErrCodeEngineInitFailed ErrorCode = "ENGINE_INIT_FAILED"

	// ErrCodeCallbackPanic indicates a callback panicked.
	ErrCodeCallbackPanic ErrorCode = "CALLBACK_PANIC"
)

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

func hasCode(err error, code ErrorCode) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code == code
	}
	return false
}

// IsAlreadyRunning returns true if err is an already-running error.
func IsAlreadyRunning(err error) bool { return hasCode(err, ErrCodeAlreadyRunning) }

// IsNotInitialized returns true if err is a not-initialized error.
func IsNotInitialized(err error) bool { return hasCode(err, ErrCodeNotInitialized) }

// IsFrameFailed returns true if err is a failed frame.
func IsFrameFailed(err error) bool { return hasCode(err, ErrCodeFrameFailed) }

// IsEngineInitFailed returns true if err is an engine bring-up failure.
func IsEngineInitFailed(err error) bool { return hasCode(err, ErrCodeEngineInitFailed) }

// IsCallbackPanic returns true if err is a recovered callback panic.
func IsCallbackPanic(err error) bool { return hasCode(err, ErrCodeCallbackPanic) }
