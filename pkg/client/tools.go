package client

import (
	"encoding/json"
	"time"

	"github.com/ag-ui/agentstream/pkg/core/events"
)

// applyToolStart fills the single active slot. A second start while a
// call is active overwrites the slot; that is the documented single-slot
// policy, not silent queuing.
func (s *Session) applyToolStart(e *events.ToolCallStartEvent) {
	if s.tool != nil {
		s.log.WithField("toolCallId", s.tool.ID).Debug("overwriting active tool call slot")
	}

	args := ""
	if e.Args != nil {
		if b, err := json.Marshal(e.Args); err == nil {
			args = string(b)
		}
	}
	s.tool = &ToolCall{
		ID:     e.ToolCallID,
		Name:   e.ToolName,
		Args:   args,
		Status: ToolStatusRunning,
	}
}

// applyToolArgs replaces the tracked args. Each args event is a full
// snapshot, not a diff.
func (s *Session) applyToolArgs(e *events.ToolCallArgsEvent) {
	if s.tool == nil || s.tool.ID != e.ToolCallID {
		s.log.WithField("toolCallId", e.ToolCallID).Debug("args for untracked tool call")
		return
	}
	s.tool.Args = e.Delta
}

// applyToolEnd completes the call and schedules the slot to clear after
// the display grace period, so the UI can show completion briefly.
func (s *Session) applyToolEnd(e *events.ToolCallEndEvent, gen uint64) {
	if s.tool == nil || s.tool.ID != e.ToolCallID {
		s.log.WithField("toolCallId", e.ToolCallID).Debug("end for untracked tool call")
		return
	}
	s.tool.Status = ToolStatusComplete
	if e.Result != nil {
		s.tool.Result = *e.Result
	}

	id := e.ToolCallID
	time.AfterFunc(s.clear, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen || s.closed {
			return
		}
		if s.tool != nil && s.tool.ID == id && s.tool.Status == ToolStatusComplete {
			s.tool = nil
		}
	})
}

func (s *Session) applyToolResult(e *events.ToolCallResultEvent) {
	if s.tool == nil || s.tool.ID != e.ToolCallID {
		return
	}
	s.tool.Result = e.Result
}

// abandonToolLocked marks a still-running call as errored when the run
// fails. Errored calls are not auto-cleared; they stay until explicitly
// dismissed.
func (s *Session) abandonToolLocked() {
	if s.tool != nil && (s.tool.Status == ToolStatusRunning || s.tool.Status == ToolStatusPending) {
		s.tool.Status = ToolStatusError
	}
}

// DismissToolCall clears the active slot regardless of status.
func (s *Session) DismissToolCall() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tool = nil
}
