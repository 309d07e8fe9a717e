package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ag-ui/agentstream/pkg/core/events"
	"github.com/ag-ui/agentstream/pkg/encoding"
)

func TestRouterPrecedence(t *testing.T) {
	r := NewRouter(nil, 0)

	tests := []struct {
		input string
		want  string
	}{
		{`EXECUTE_PLAN: {"steps":["a","b"]}`, "execute-plan"},
		{`IMPROVE_STATE: {"title":"x"}`, "improve-state"},
		{"what's the weather in Mumbai?", "weather"},
		// Overlapping phrases resolve by chain order, not keyword strength.
		{"how to check the weather", "weather"},
		{"how to bake sourdough bread", "checklist"},
		{"give me a checklist for moving", "checklist"},
		{"search for python tutorials", "doc-search"},
		{"hey, search for ai articles", "doc-search"},
		{"change the background to blue", "ui-action"},
		{"switch to dark mode", "ui-action"},
		{"hello there", "greeting"},
		{"Hi! What can you do?", "greeting"},
		{"tell me about your day", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, r.MatchName(tt.input))
		})
	}
}

func TestParseUIActions(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  []string
		check func(t *testing.T, actions []UIAction)
	}{
		{
			name: "background color",
			text: "change the background to blue",
			want: []string{"changeBackgroundColor"},
			check: func(t *testing.T, actions []UIAction) {
				assert.Equal(t, "blue", actions[0].Args["color"])
			},
		},
		{
			name: "function call form",
			text: `change_background_color("purple")`,
			want: []string{"changeBackgroundColor"},
		},
		{
			name: "invalid color is rejected",
			text: "change the background to turquoise",
			want: nil,
		},
		{
			name: "dark theme",
			text: "switch to dark mode please",
			want: []string{"changeTheme"},
			check: func(t *testing.T, actions []UIAction) {
				assert.Equal(t, "dark", actions[0].Args["theme"])
			},
		},
		{
			name: "light theme",
			text: "I'd prefer the light theme",
			want: []string{"changeTheme"},
		},
		{
			name: "notification function call",
			text: `show_notification('Build finished')`,
			want: []string{"showNotification"},
			check: func(t *testing.T, actions []UIAction) {
				assert.Equal(t, "Build finished", actions[0].Args["message"])
			},
		},
		{
			name: "notification phrase",
			text: "show a notification saying deploy complete",
			want: []string{"showNotification"},
		},
		{
			name: "reset",
			text: "please reset the UI",
			want: []string{"resetUI"},
		},
		{
			name: "multiple actions in one text",
			text: `change the background to red and show_notification('saved')`,
			want: []string{"changeBackgroundColor", "showNotification"},
		},
		{
			name: "plain text",
			text: "hello, how are you?",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actions := ParseUIActions(tt.text)
			var names []string
			for _, a := range actions {
				names = append(names, a.Action)
			}
			assert.Equal(t, tt.want, names)
			if tt.check != nil && len(actions) > 0 {
				tt.check(t, actions)
			}
		})
	}
}

func TestEmitter(t *testing.T) {
	t.Run("close ends the stream", func(t *testing.T) {
		em := NewEmitter(4)
		assert.True(t, em.Emit(events.NewTextMessageContentEvent("msg-1", "hi ")))
		assert.True(t, em.Emit(events.NewTextMessageContentEvent("msg-1", "there")))
		em.Close()

		var n int
		for range em.Events() {
			n++
		}
		assert.Equal(t, 2, n)
		assert.Equal(t, "hi there", em.AccumulatedText())
	})

	t.Run("abort drops further emits", func(t *testing.T) {
		em := NewEmitter(4)
		em.Abort()
		assert.False(t, em.Emit(events.NewDoneEvent()))
	})

	t.Run("abort unblocks a full buffer", func(t *testing.T) {
		em := NewEmitter(1)
		require.True(t, em.Emit(events.NewDoneEvent()))

		done := make(chan bool, 1)
		go func() { done <- em.Emit(events.NewDoneEvent()) }()
		em.Abort()

		select {
		case ok := <-done:
			assert.False(t, ok)
		case <-time.After(time.Second):
			t.Fatal("emit stayed blocked after abort")
		}
	})
}

// drainRun collects the full event sequence a producer emits for input.
func drainRun(t *testing.T, srv *Server, req *RunRequest) []events.Event {
	t.Helper()
	em := NewEmitter(256)
	srv.produce(context.Background(), em, req)

	var out []events.Event
	for ev := range em.Events() {
		out = append(out, ev)
	}
	return out
}

func eventTypes(evs []events.Event) []events.EventType {
	var types []events.EventType
	for _, ev := range evs {
		types = append(types, ev.Type())
	}
	return types
}

func userRequest(text string) *RunRequest {
	return &RunRequest{
		Messages: []ChatMessage{{Role: "user", Content: text}},
		ThreadID: "thread-1",
	}
}

func TestProduceEnvelope(t *testing.T) {
	srv := NewServer(Config{Streamer: &ScriptedStreamer{Reply: "plain answer"}})

	evs := drainRun(t, srv, userRequest("hello"))
	types := eventTypes(evs)

	require.NotEmpty(t, types)
	assert.Equal(t, events.EventTypeRunStarted, types[0])
	assert.Equal(t, events.EventTypeRunFinished, types[len(types)-2])
	assert.Equal(t, events.EventTypeDone, types[len(types)-1])
}

func TestProduceEmptyInput(t *testing.T) {
	srv := NewServer(Config{})

	evs := drainRun(t, srv, &RunRequest{ThreadID: "thread-1"})
	types := eventTypes(evs)

	// No run envelope for input that never starts a run.
	require.Equal(t, []events.EventType{events.EventTypeRunError, events.EventTypeDone}, types)
	errEv := evs[0].(*events.RunErrorEvent)
	assert.Equal(t, "No user message provided", errEv.Message)
}

func TestProduceWeatherRoute(t *testing.T) {
	srv := NewServer(Config{})

	evs := drainRun(t, srv, userRequest("what's the weather in Mumbai?"))

	var content string
	for _, ev := range evs {
		if c, ok := ev.(*events.TextMessageContentEvent); ok {
			content += c.Delta
		}
	}
	assert.True(t, strings.HasPrefix(content, "COMPONENT:WeatherCard:"))
	assert.Contains(t, content, `"Mumbai"`)
	assert.Contains(t, content, `"temperature":32`)
}

func TestProduceDocSearchEmitsToolCalls(t *testing.T) {
	srv := NewServer(Config{})

	evs := drainRun(t, srv, userRequest("search for python tutorials"))
	types := eventTypes(evs)

	assert.Contains(t, types, events.EventTypeToolCallStart)
	assert.Contains(t, types, events.EventTypeToolCallEnd)
	assert.Contains(t, types, events.EventTypeToolCallResult)

	for _, ev := range evs {
		if res, ok := ev.(*events.ToolCallResultEvent); ok {
			assert.Contains(t, res.Result, "Python")
		}
	}
}

func TestProduceImproveStateEmitsSnapshotAndDelta(t *testing.T) {
	srv := NewServer(Config{})

	evs := drainRun(t, srv, userRequest(`IMPROVE_STATE: {"title":"notes","revision":3}`))

	var snapshot *events.StateUpdateEvent
	var delta *events.StateDeltaEvent
	for _, ev := range evs {
		switch e := ev.(type) {
		case *events.StateUpdateEvent:
			snapshot = e
		case *events.StateDeltaEvent:
			delta = e
		}
	}

	require.NotNil(t, snapshot)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(snapshot.State, &doc))
	assert.Equal(t, true, doc["improved"])

	require.NotNil(t, delta)
	require.Len(t, delta.Delta, 1)
	assert.Equal(t, "/revision", delta.Delta[0].Path)
	assert.Equal(t, 4, delta.Delta[0].Value)
}

func TestProduceUIActionRouteRespectsAdvertisement(t *testing.T) {
	srv := NewServer(Config{})

	req := userRequest("change the background to blue")
	req.AvailableUIActions = []string{"changeTheme"}

	evs := drainRun(t, srv, req)
	for _, ev := range evs {
		assert.NotEqual(t, events.EventTypeUIAction, ev.Type(),
			"action not advertised by the client must not be emitted")
	}
}

func TestProduceFallbackRecoversUIActionFromText(t *testing.T) {
	srv := NewServer(Config{
		Streamer: &ScriptedStreamer{Reply: "Sure, I'll change the background to blue."},
	})

	evs := drainRun(t, srv, userRequest("make it pretty"))

	var action *events.UIActionEvent
	for _, ev := range evs {
		if a, ok := ev.(*events.UIActionEvent); ok {
			action = a
		}
	}
	require.NotNil(t, action)
	assert.Equal(t, "changeBackgroundColor", action.Action)
	assert.Equal(t, "blue", action.Args["color"])
}

// --- transport ------------------------------------------------------------

func postRun(t *testing.T, url string, req *RunRequest) []events.Event {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)

	resp, err := http.Post(url+"/api/agent", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	dec := encoding.NewStreamDecoder(resp.Body, nil)
	var out []events.Event
	for {
		ev, err := dec.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		out = append(out, ev)
	}
	return out
}

func TestServerSSEEndToEnd(t *testing.T) {
	srv := NewServer(Config{Streamer: &ScriptedStreamer{Reply: "ok"}})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	evs := postRun(t, ts.URL, userRequest("what's the weather in London?"))
	types := eventTypes(evs)

	require.NotEmpty(t, types)
	assert.Equal(t, events.EventTypeRunStarted, types[0])
	assert.Equal(t, events.EventTypeDone, types[len(types)-1])
	assert.Contains(t, types, events.EventTypeTextMessageContent)
}

func TestServerRejectsMalformedBody(t *testing.T) {
	srv := NewServer(Config{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/agent", "application/json", strings.NewReader("{broken"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestServerHealth(t *testing.T) {
	srv := NewServer(Config{})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestServerWebSocketMirror(t *testing.T) {
	srv := NewServer(Config{Streamer: &ScriptedStreamer{Reply: "ok"}})
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(userRequest("hello there")))

	var types []events.EventType
	deadline := time.Now().Add(5 * time.Second)
	for {
		require.NoError(t, conn.SetReadDeadline(deadline))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		ev, err := events.EventFromJSON(data)
		require.NoError(t, err)
		types = append(types, ev.Type())
		if ev.Type() == events.EventTypeDone {
			break
		}
	}

	assert.Equal(t, events.EventTypeRunStarted, types[0])
	assert.Contains(t, types, events.EventTypeTextMessageContent)
}
