package client

import (
	"time"

	"github.com/ag-ui/agentstream/pkg/core/events"
)

// apply routes one decoded event to the reducers. Application is atomic
// relative to other frames; frames belonging to a superseded run are
// dropped before touching any state. UI action handlers run after the
// lock is released so they can call back into the session.
func (s *Session) apply(gen uint64, ev events.Event) {
	var deferred func()

	s.mu.Lock()
	if gen != s.gen || s.closed {
		s.mu.Unlock()
		return
	}

	switch e := ev.(type) {
	case *events.RunStartedEvent:
		s.applyRunStarted(e)
	case *events.RunFinishedEvent:
		s.applyRunFinished(e)
	case *events.RunErrorEvent:
		s.applyRunError(e)
	case *events.DoneEvent:
		// Idempotent: clearing an already idle session is a no-op.
		s.phase = PhaseIdle
	case *events.TextMessageStartEvent:
		s.applyMessageStart(e)
	case *events.TextMessageContentEvent:
		s.applyMessageContent(e)
	case *events.TextMessageEndEvent:
		s.applyMessageEnd(e)
	case *events.ToolCallStartEvent:
		s.applyToolStart(e)
	case *events.ToolCallArgsEvent:
		s.applyToolArgs(e)
	case *events.ToolCallEndEvent:
		s.applyToolEnd(e, gen)
	case *events.ToolCallResultEvent:
		s.applyToolResult(e)
	case *events.StateUpdateEvent:
		s.applyStateUpdate(e)
	case *events.StateDeltaEvent:
		s.applyStateDelta(e)
	case *events.UIActionEvent:
		deferred = s.prepareUIAction(e)
	default:
		s.log.WithField("type", ev.Type()).Debug("ignoring unhandled event kind")
	}
	s.mu.Unlock()

	if deferred != nil {
		deferred()
	}
}

func (s *Session) applyRunStarted(e *events.RunStartedEvent) {
	s.phase = PhaseStreaming
	s.runStart = time.Now()
	s.tokenCount = 0
	s.metrics = Metrics{}
	s.log.WithField("runId", e.RunID).Debug("run started")
}

func (s *Session) applyRunFinished(e *events.RunFinishedEvent) {
	s.phase = PhaseIdle
	s.finishMetrics()
	s.log.WithField("runId", e.RunID).Debug("run finished")
}

// applyRunError surfaces the agent error and clears the streaming flag.
// Partially built message content is retained, never rolled back.
func (s *Session) applyRunError(e *events.RunErrorEvent) {
	s.phase = PhaseIdle
	s.lastErr = e.Message
	s.abandonToolLocked()
	s.log.WithField("runId", e.RunID).WithField("message", e.Message).Warn("run error")
}

// prepareUIAction resolves the injected handler for a UI action. The
// returned closure is invoked outside the session lock.
func (s *Session) prepareUIAction(e *events.UIActionEvent) func() {
	handler, ok := s.handlers[e.Action]
	if !ok {
		s.log.WithField("action", e.Action).Debug("no handler registered for UI action")
		return nil
	}
	args := make(map[string]any, len(e.Args))
	for k, v := range e.Args {
		args[k] = v
	}
	return func() { handler(args) }
}
