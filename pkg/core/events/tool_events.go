package events

import (
	"encoding/json"
	"fmt"
)

// ToolCallStartEvent indicates the start of a tool call
type ToolCallStartEvent struct {
	*BaseEvent
	ToolCallID string         `json:"toolCallId"`
	ToolName   string         `json:"toolName"`
	Args       map[string]any `json:"args,omitempty"`
}

// NewToolCallStartEvent creates a new tool call start event
func NewToolCallStartEvent(toolCallID, toolName string, options ...ToolCallStartOption) *ToolCallStartEvent {
	event := &ToolCallStartEvent{
		BaseEvent:  NewBaseEvent(EventTypeToolCallStart),
		ToolCallID: toolCallID,
		ToolName:   toolName,
	}

	for _, opt := range options {
		opt(event)
	}

	return event
}

// ToolCallStartOption defines options for creating tool call start events
type ToolCallStartOption func(*ToolCallStartEvent)

// WithToolArgs sets the initial arguments for the tool call
func WithToolArgs(args map[string]any) ToolCallStartOption {
	return func(e *ToolCallStartEvent) {
		e.Args = args
	}
}

// Validate validates the tool call start event
func (e *ToolCallStartEvent) Validate() error {
	if err := e.BaseEvent.Validate(); err != nil {
		return err
	}

	if e.ToolCallID == "" {
		return fmt.Errorf("tool call ID is required")
	}

	if e.ToolName == "" {
		return fmt.Errorf("tool name is required")
	}

	return nil
}

// ToJSON serializes the event to JSON
func (e *ToolCallStartEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ToolCallArgsEvent carries the tool call arguments. Each event is a full
// snapshot of the arguments so far, not a diff; consumers replace rather
// than merge.
type ToolCallArgsEvent struct {
	*BaseEvent
	ToolCallID string `json:"toolCallId"`
	Delta      string `json:"delta"`
}

// NewToolCallArgsEvent creates a new tool call args event
func NewToolCallArgsEvent(toolCallID, delta string) *ToolCallArgsEvent {
	return &ToolCallArgsEvent{
		BaseEvent:  NewBaseEvent(EventTypeToolCallArgs),
		ToolCallID: toolCallID,
		Delta:      delta,
	}
}

// Validate validates the tool call args event
func (e *ToolCallArgsEvent) Validate() error {
	if err := e.BaseEvent.Validate(); err != nil {
		return err
	}

	if e.ToolCallID == "" {
		return fmt.Errorf("tool call ID is required")
	}

	if e.Delta == "" {
		return fmt.Errorf("delta must not be empty")
	}

	return nil
}

// ToJSON serializes the event to JSON
func (e *ToolCallArgsEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ToolCallEndEvent indicates the end of a tool call
type ToolCallEndEvent struct {
	*BaseEvent
	ToolCallID string  `json:"toolCallId"`
	Result     *string `json:"result,omitempty"`
}

// NewToolCallEndEvent creates a new tool call end event
func NewToolCallEndEvent(toolCallID string, options ...ToolCallEndOption) *ToolCallEndEvent {
	event := &ToolCallEndEvent{
		BaseEvent:  NewBaseEvent(EventTypeToolCallEnd),
		ToolCallID: toolCallID,
	}

	for _, opt := range options {
		opt(event)
	}

	return event
}

// ToolCallEndOption defines options for creating tool call end events
type ToolCallEndOption func(*ToolCallEndEvent)

// WithToolResult sets the inline result for the tool call
func WithToolResult(result string) ToolCallEndOption {
	return func(e *ToolCallEndEvent) {
		e.Result = &result
	}
}

// Validate validates the tool call end event
func (e *ToolCallEndEvent) Validate() error {
	if err := e.BaseEvent.Validate(); err != nil {
		return err
	}

	if e.ToolCallID == "" {
		return fmt.Errorf("tool call ID is required")
	}

	return nil
}

// ToJSON serializes the event to JSON
func (e *ToolCallEndEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// ToolCallResultEvent carries the result of a finished tool call as a
// separate frame, following TOOL_CALL_END.
type ToolCallResultEvent struct {
	*BaseEvent
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result"`
}

// NewToolCallResultEvent creates a new tool call result event
func NewToolCallResultEvent(toolCallID, result string) *ToolCallResultEvent {
	return &ToolCallResultEvent{
		BaseEvent:  NewBaseEvent(EventTypeToolCallResult),
		ToolCallID: toolCallID,
		Result:     result,
	}
}

// Validate validates the tool call result event
func (e *ToolCallResultEvent) Validate() error {
	if err := e.BaseEvent.Validate(); err != nil {
		return err
	}

	if e.ToolCallID == "" {
		return fmt.Errorf("tool call ID is required")
	}

	return nil
}

// ToJSON serializes the event to JSON
func (e *ToolCallResultEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
