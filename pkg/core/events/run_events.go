package events

import (
	"encoding/json"
	"fmt"
)

// RunStartedEvent indicates that an agent run has started
type RunStartedEvent struct {
	*BaseEvent
	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`
}

// NewRunStartedEvent creates a new run started event
func NewRunStartedEvent(threadID, runID string) *RunStartedEvent {
	return &RunStartedEvent{
		BaseEvent: NewBaseEvent(EventTypeRunStarted),
		ThreadID:  threadID,
		RunID:     runID,
	}
}

// Validate validates the run started event
func (e *RunStartedEvent) Validate() error {
	if err := e.BaseEvent.Validate(); err != nil {
		return err
	}

	if e.ThreadID == "" {
		return fmt.Errorf("thread ID is required")
	}

	if e.RunID == "" {
		return fmt.Errorf("run ID is required")
	}

	return nil
}

// ToJSON serializes the event to JSON
func (e *RunStartedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RunFinishedEvent indicates that an agent run has finished successfully
type RunFinishedEvent struct {
	*BaseEvent
	ThreadID string `json:"threadId"`
	RunID    string `json:"runId"`
}

// NewRunFinishedEvent creates a new run finished event
func NewRunFinishedEvent(threadID, runID string) *RunFinishedEvent {
	return &RunFinishedEvent{
		BaseEvent: NewBaseEvent(EventTypeRunFinished),
		ThreadID:  threadID,
		RunID:     runID,
	}
}

// Validate validates the run finished event
func (e *RunFinishedEvent) Validate() error {
	if err := e.BaseEvent.Validate(); err != nil {
		return err
	}

	if e.ThreadID == "" {
		return fmt.Errorf("thread ID is required")
	}

	if e.RunID == "" {
		return fmt.Errorf("run ID is required")
	}

	return nil
}

// ToJSON serializes the event to JSON
func (e *RunFinishedEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// RunErrorEvent indicates that an agent run has encountered an error
type RunErrorEvent struct {
	*BaseEvent
	Code    *string `json:"code,omitempty"`
	Message string  `json:"message"`
	RunID   string  `json:"runId,omitempty"`
}

// NewRunErrorEvent creates a new run error event
func NewRunErrorEvent(message string, options ...RunErrorOption) *RunErrorEvent {
	event := &RunErrorEvent{
		BaseEvent: NewBaseEvent(EventTypeRunError),
		Message:   message,
	}

	for _, opt := range options {
		opt(event)
	}

	return event
}

// RunErrorOption defines options for creating run error events
type RunErrorOption func(*RunErrorEvent)

// WithErrorCode sets the error code
func WithErrorCode(code string) RunErrorOption {
	return func(e *RunErrorEvent) {
		e.Code = &code
	}
}

// WithRunID sets the run ID for the error
func WithRunID(runID string) RunErrorOption {
	return func(e *RunErrorEvent) {
		e.RunID = runID
	}
}

// Validate validates the run error event
func (e *RunErrorEvent) Validate() error {
	if err := e.BaseEvent.Validate(); err != nil {
		return err
	}

	if e.Message == "" {
		return fmt.Errorf("error message is required")
	}

	return nil
}

// ToJSON serializes the event to JSON
func (e *RunErrorEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// DoneEvent terminates an event stream. Applying it to an already idle
// session is a no-op.
type DoneEvent struct {
	*BaseEvent
}

// NewDoneEvent creates a new done event
func NewDoneEvent() *DoneEvent {
	return &DoneEvent{
		BaseEvent: NewBaseEvent(EventTypeDone),
	}
}

// Validate validates the done event
func (e *DoneEvent) Validate() error {
	return e.BaseEvent.Validate()
}

// ToJSON serializes the event to JSON
func (e *DoneEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
