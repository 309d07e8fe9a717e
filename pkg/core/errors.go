package core

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrStreamClosed     = errors.New("stream closed")
	ErrSessionClosed    = errors.New("session closed")
	ErrUnknownEventType = errors.New("unknown event type")
	ErrInvalidConfig    = errors.New("invalid configuration")
)

// TransportError represents a network or stream failure. It ends the run
// early; the session surfaces it to the caller.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error during %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// FrameDecodeError represents a malformed frame line. It is contained at
// frame granularity: the frame is skipped and the stream continues.
type FrameDecodeError struct {
	Line string
	Err  error
}

func (e *FrameDecodeError) Error() string {
	return fmt.Sprintf("frame decode error in line %q: %v", e.Line, e.Err)
}

func (e *FrameDecodeError) Unwrap() error {
	return e.Err
}

// ComponentParseError represents a malformed COMPONENT: payload. The
// message is sealed as plain text instead; never fatal.
type ComponentParseError struct {
	Raw string
	Err error
}

func (e *ComponentParseError) Error() string {
	return fmt.Sprintf("component parse error in %q: %v", e.Raw, e.Err)
}

func (e *ComponentParseError) Unwrap() error {
	return e.Err
}

// AgentError represents an explicit RUN_ERROR emitted by the agent. Partial
// message content built before the error is retained, never rolled back.
type AgentError struct {
	RunID   string
	Message string
}

func (e *AgentError) Error() string {
	return fmt.Sprintf("agent error in run %s: %s", e.RunID, e.Message)
}
