package events

import (
	"encoding/json"
	"fmt"

	"github.com/ag-ui/agentstream/pkg/core"
)

// EventFromJSON parses an event from JSON data. Unknown event types return
// an error wrapping core.ErrUnknownEventType so consumers can skip them
// without aborting the stream (forward compatibility).
func EventFromJSON(data []byte) (Event, error) {
	// First, parse the base event to determine the type
	var base struct {
		Type EventType `json:"type"`
	}

	if err := json.Unmarshal(data, &base); err != nil {
		return nil, fmt.Errorf("failed to parse event type: %w", err)
	}

	// Create the appropriate event type based on the type field
	var event Event
	switch base.Type {
	case EventTypeRunStarted:
		event = &RunStartedEvent{}
	case EventTypeRunFinished:
		event = &RunFinishedEvent{}
	case EventTypeRunError:
		event = &RunErrorEvent{}
	case EventTypeTextMessageStart:
		event = &TextMessageStartEvent{}
	case EventTypeTextMessageContent:
		event = &TextMessageContentEvent{}
	case EventTypeTextMessageEnd:
		event = &TextMessageEndEvent{}
	case EventTypeToolCallStart:
		event = &ToolCallStartEvent{}
	case EventTypeToolCallArgs:
		event = &ToolCallArgsEvent{}
	case EventTypeToolCallEnd:
		event = &ToolCallEndEvent{}
	case EventTypeToolCallResult:
		event = &ToolCallResultEvent{}
	case EventTypeStateUpdate:
		event = &StateUpdateEvent{}
	case EventTypeStateDelta:
		event = &StateDeltaEvent{}
	case EventTypeUIAction:
		event = &UIActionEvent{}
	case EventTypeDone:
		event = &DoneEvent{}
	default:
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownEventType, base.Type)
	}

	// Unmarshal into the specific event type
	if err := json.Unmarshal(data, event); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	if event.GetBaseEvent() == nil {
		return nil, fmt.Errorf("failed to unmarshal event: missing type field")
	}

	return event, nil
}
