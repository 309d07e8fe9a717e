package events

import (
	"fmt"
	"time"
)

// EventType represents the type of AG-UI event
type EventType string

// AG-UI Event Type constants - matching the protocol specification
const (
	EventTypeTextMessageStart   EventType = "TEXT_MESSAGE_START"
	EventTypeTextMessageContent EventType = "TEXT_MESSAGE_CONTENT"
	EventTypeTextMessageEnd     EventType = "TEXT_MESSAGE_END"
	EventTypeToolCallStart      EventType = "TOOL_CALL_START"
	EventTypeToolCallArgs       EventType = "TOOL_CALL_ARGS"
	EventTypeToolCallEnd        EventType = "TOOL_CALL_END"
	EventTypeToolCallResult     EventType = "TOOL_CALL_RESULT"
	EventTypeStateUpdate        EventType = "STATE_UPDATE"
	EventTypeStateDelta         EventType = "STATE_DELTA"
	EventTypeUIAction           EventType = "UI_ACTION"
	EventTypeRunStarted         EventType = "RUN_STARTED"
	EventTypeRunFinished        EventType = "RUN_FINISHED"
	EventTypeRunError           EventType = "RUN_ERROR"
	EventTypeDone               EventType = "DONE"

	// EventTypeUnknown represents an unrecognized event type
	EventTypeUnknown EventType = "UNKNOWN"
)

// validEventTypes is a map for O(1) lookup of valid event types
var validEventTypes = map[EventType]bool{
	EventTypeTextMessageStart:   true,
	EventTypeTextMessageContent: true,
	EventTypeTextMessageEnd:     true,
	EventTypeToolCallStart:      true,
	EventTypeToolCallArgs:       true,
	EventTypeToolCallEnd:        true,
	EventTypeToolCallResult:     true,
	EventTypeStateUpdate:        true,
	EventTypeStateDelta:         true,
	EventTypeUIAction:           true,
	EventTypeRunStarted:         true,
	EventTypeRunFinished:        true,
	EventTypeRunError:           true,
	EventTypeDone:               true,
}

// Event defines the common interface for all AG-UI events
type Event interface {
	// Type returns the event type
	Type() EventType

	// Timestamp returns the emission timestamp
	Timestamp() *time.Time

	// SetTimestamp sets the emission timestamp
	SetTimestamp(ts time.Time)

	// Validate validates the event structure and content
	Validate() error

	// ToJSON serializes the event to JSON for cross-SDK compatibility
	ToJSON() ([]byte, error)

	// GetBaseEvent returns the underlying base event
	GetBaseEvent() *BaseEvent
}

// BaseEvent provides common fields and functionality for all events.
// Timestamps are serialized in RFC 3339 (ISO 8601) form on the wire.
type BaseEvent struct {
	EventType   EventType  `json:"type"`
	TimestampAt *time.Time `json:"timestamp,omitempty"`
}

// Type returns the event type
func (b *BaseEvent) Type() EventType {
	return b.EventType
}

// Timestamp returns the event timestamp
func (b *BaseEvent) Timestamp() *time.Time {
	return b.TimestampAt
}

// SetTimestamp sets the event timestamp
func (b *BaseEvent) SetTimestamp(ts time.Time) {
	b.TimestampAt = &ts
}

// GetBaseEvent returns the base event
func (b *BaseEvent) GetBaseEvent() *BaseEvent {
	return b
}

// NewBaseEvent creates a new base event with the given type and current timestamp
func NewBaseEvent(eventType EventType) *BaseEvent {
	now := time.Now().UTC()
	return &BaseEvent{
		EventType:   eventType,
		TimestampAt: &now,
	}
}

// Validate validates the base event structure
func (b *BaseEvent) Validate() error {
	if b.EventType == "" {
		return fmt.Errorf("BaseEvent validation failed: type field is required")
	}

	if !isValidEventType(b.EventType) {
		return fmt.Errorf("BaseEvent validation failed: invalid event type '%s'", b.EventType)
	}

	return nil
}

// isValidEventType checks if the given event type is valid
func isValidEventType(eventType EventType) bool {
	return validEventTypes[eventType]
}
