package events

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ag-ui/agentstream/pkg/core"
)

func TestEventRoundTrip(t *testing.T) {
	role := "assistant"
	tests := []struct {
		name  string
		event Event
	}{
		{"run started", NewRunStartedEvent("thread-1", "run-1")},
		{"run finished", NewRunFinishedEvent("thread-1", "run-1")},
		{"run error", NewRunErrorEvent("boom", WithErrorCode("E_BOOM"), WithRunID("run-1"))},
		{"done", NewDoneEvent()},
		{"message start", NewTextMessageStartEvent("msg-1", WithRole(role))},
		{"message content", NewTextMessageContentEvent("msg-1", "hello ")},
		{"message end", NewTextMessageEndEvent("msg-1")},
		{"tool start", NewToolCallStartEvent("call-1", "get_weather", WithToolArgs(map[string]any{"location": "Mumbai"}))},
		{"tool args", NewToolCallArgsEvent("call-1", `{"location":"Mumbai"}`)},
		{"tool end", NewToolCallEndEvent("call-1", WithToolResult("32C"))},
		{"tool result", NewToolCallResultEvent("call-1", "32C")},
		{"state update", NewStateUpdateEvent(json.RawMessage(`{"count":1}`))},
		{"state delta", NewStateDeltaEvent([]JSONPatchOperation{{Op: "replace", Path: "/count", Value: 2}})},
		{"ui action", NewUIActionEvent("changeTheme", map[string]any{"theme": "dark"})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, tt.event.Validate())

			data, err := tt.event.ToJSON()
			require.NoError(t, err)

			decoded, err := EventFromJSON(data)
			require.NoError(t, err)
			assert.Equal(t, tt.event.Type(), decoded.Type())
			require.NoError(t, decoded.Validate())

			// Wire form is stable across one more encode cycle.
			again, err := decoded.ToJSON()
			require.NoError(t, err)
			assert.JSONEq(t, string(data), string(again))
		})
	}
}

func TestEventTimestampIsRFC3339(t *testing.T) {
	ev := NewTextMessageContentEvent("msg-1", "hi")
	data, err := ev.ToJSON()
	require.NoError(t, err)

	var wire struct {
		Timestamp string `json:"timestamp"`
	}
	require.NoError(t, json.Unmarshal(data, &wire))
	require.NotEmpty(t, wire.Timestamp)

	_, err = time.Parse(time.RFC3339Nano, wire.Timestamp)
	assert.NoError(t, err)
}

func TestContentDeltaSurvivesColonsAndJSON(t *testing.T) {
	delta := `COMPONENT:WeatherCard:{"location":"Mumbai","note":"a:b:c"}`
	ev := NewTextMessageContentEvent("msg-1", delta)

	data, err := ev.ToJSON()
	require.NoError(t, err)

	decoded, err := EventFromJSON(data)
	require.NoError(t, err)
	content, ok := decoded.(*TextMessageContentEvent)
	require.True(t, ok)
	assert.Equal(t, delta, content.Delta)
}

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		event   Event
		wantErr string
	}{
		{"run started missing thread", NewRunStartedEvent("", "run-1"), "thread ID"},
		{"run started missing run", NewRunStartedEvent("thread-1", ""), "run ID"},
		{"run error missing message", NewRunErrorEvent(""), "message"},
		{"content missing delta", NewTextMessageContentEvent("msg-1", ""), "delta"},
		{"content missing id", NewTextMessageContentEvent("", "x"), "messageId"},
		{"tool start missing name", NewToolCallStartEvent("call-1", ""), "tool name"},
		{"tool result missing id", NewToolCallResultEvent("", "32C"), "tool call ID"},
		{"state update invalid json", NewStateUpdateEvent(json.RawMessage(`{"oops`)), "state"},
		{"state delta empty", NewStateDeltaEvent(nil), "delta"},
		{"state delta bad op", NewStateDeltaEvent([]JSONPatchOperation{{Op: "merge", Path: "/x"}}), "op"},
		{"state delta move without from", NewStateDeltaEvent([]JSONPatchOperation{{Op: "move", Path: "/x"}}), "from"},
		{"ui action missing name", NewUIActionEvent("", nil), "action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			require.Error(t, err)
			assert.Contains(t, strings.ToLower(err.Error()), strings.ToLower(tt.wantErr))
		})
	}
}

func TestEventFromJSONUnknownType(t *testing.T) {
	_, err := EventFromJSON([]byte(`{"type":"FUTURE_EVENT","payload":1}`))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownEventType)
}

func TestEventFromJSONMalformed(t *testing.T) {
	_, err := EventFromJSON([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestGeneratedIDsHavePrefixes(t *testing.T) {
	assert.True(t, strings.HasPrefix(GenerateRunID(), "run-"))
	assert.True(t, strings.HasPrefix(GenerateThreadID(), "thread-"))
	assert.True(t, strings.HasPrefix(GenerateMessageID(), "msg-"))
	assert.True(t, strings.HasPrefix(GenerateToolCallID(), "tool-"))
	assert.NotEqual(t, GenerateMessageID(), GenerateMessageID())
}
