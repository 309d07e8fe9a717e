package events

import (
	"encoding/json"
	"fmt"
)

// validJSONPatchOps contains the valid JSON Patch operations for efficient lookup
var validJSONPatchOps = map[string]bool{
	"add":     true,
	"remove":  true,
	"replace": true,
	"move":    true,
	"copy":    true,
	"test":    true,
}

// StateUpdateEvent overwrites the shared state document wholesale.
// Consumers keep a last-writer-wins copy.
type StateUpdateEvent struct {
	*BaseEvent
	State json.RawMessage `json:"state"`
}

// NewStateUpdateEvent creates a new state update event
func NewStateUpdateEvent(state json.RawMessage) *StateUpdateEvent {
	return &StateUpdateEvent{
		BaseEvent: NewBaseEvent(EventTypeStateUpdate),
		State:     state,
	}
}

// Validate validates the state update event
func (e *StateUpdateEvent) Validate() error {
	if err := e.BaseEvent.Validate(); err != nil {
		return err
	}

	if len(e.State) == 0 {
		return fmt.Errorf("StateUpdateEvent validation failed: state field is required")
	}

	if !json.Valid(e.State) {
		return fmt.Errorf("StateUpdateEvent validation failed: state field must be valid JSON")
	}

	return nil
}

// ToJSON serializes the event to JSON
func (e *StateUpdateEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// JSONPatchOperation represents a JSON Patch operation (RFC 6902)
type JSONPatchOperation struct {
	Op    string `json:"op"`              // "add", "remove", "replace", "move", "copy", "test"
	Path  string `json:"path"`            // JSON Pointer path
	Value any    `json:"value,omitempty"` // Value for add, replace, test operations
	From  string `json:"from,omitempty"`  // Source path for move, copy operations
}

// StateDeltaEvent contains incremental state changes using JSON Patch
type StateDeltaEvent struct {
	*BaseEvent
	Delta []JSONPatchOperation `json:"delta"`
}

// NewStateDeltaEvent creates a new state delta event
func NewStateDeltaEvent(delta []JSONPatchOperation) *StateDeltaEvent {
	return &StateDeltaEvent{
		BaseEvent: NewBaseEvent(EventTypeStateDelta),
		Delta:     delta,
	}
}

// Validate validates the state delta event
func (e *StateDeltaEvent) Validate() error {
	if err := e.BaseEvent.Validate(); err != nil {
		return err
	}

	if len(e.Delta) == 0 {
		return fmt.Errorf("StateDeltaEvent validation failed: delta field must contain at least one operation")
	}

	for i, op := range e.Delta {
		if err := validateJSONPatchOperation(op); err != nil {
			return fmt.Errorf("StateDeltaEvent validation failed: invalid operation at index %d: %w", i, err)
		}
	}

	return nil
}

// validateJSONPatchOperation validates a single JSON patch operation
func validateJSONPatchOperation(op JSONPatchOperation) error {
	if !validJSONPatchOps[op.Op] {
		return fmt.Errorf("op field must be one of: add, remove, replace, move, copy, test, got: %s", op.Op)
	}

	if op.Path == "" {
		return fmt.Errorf("path field is required")
	}

	if (op.Op == "add" || op.Op == "replace" || op.Op == "test") && op.Value == nil {
		return fmt.Errorf("value field is required for %s operation", op.Op)
	}

	if (op.Op == "move" || op.Op == "copy") && op.From == "" {
		return fmt.Errorf("from field is required for %s operation", op.Op)
	}

	return nil
}

// ToJSON serializes the event to JSON
func (e *StateDeltaEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// UIActionEvent instructs the front end to execute a named UI action
type UIActionEvent struct {
	*BaseEvent
	Action string         `json:"action"`
	Args   map[string]any `json:"args"`
}

// NewUIActionEvent creates a new UI action event
func NewUIActionEvent(action string, args map[string]any) *UIActionEvent {
	if args == nil {
		args = map[string]any{}
	}
	return &UIActionEvent{
		BaseEvent: NewBaseEvent(EventTypeUIAction),
		Action:    action,
		Args:      args,
	}
}

// Validate validates the UI action event
func (e *UIActionEvent) Validate() error {
	if err := e.BaseEvent.Validate(); err != nil {
		return err
	}

	if e.Action == "" {
		return fmt.Errorf("UIActionEvent validation failed: action field is required")
	}

	return nil
}

// ToJSON serializes the event to JSON
func (e *UIActionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
