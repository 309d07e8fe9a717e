package client

import (
	"github.com/ag-ui/agentstream/pkg/core/events"
)

// applyMessageStart opens a new message. At most one assistant message is
// open at a time: a start while another is open seals the previous one
// first.
func (s *Session) applyMessageStart(e *events.TextMessageStartEvent) {
	if open := s.openMessageLocked(); open != nil {
		s.log.WithField("messageId", open.ID).Debug("sealing message left open by missing end event")
		s.sealMessageLocked(open)
	}

	role := RoleAssistant
	if e.Role != nil && *e.Role != "" {
		role = *e.Role
	}
	s.messages = append(s.messages, &Message{
		ID:   e.MessageID,
		Role: role,
	})
}

// applyMessageContent appends a delta to the open message. Lookup is by
// exact id first; a mismatched id falls back leniently to the last open
// assistant message rather than dropping the delta.
func (s *Session) applyMessageContent(e *events.TextMessageContentEvent) {
	msg := s.findMessageLocked(e.MessageID)
	if msg == nil {
		s.log.WithField("messageId", e.MessageID).Debug("content delta for unknown message, using last open")
		msg = s.openMessageLocked()
	}
	if msg == nil {
		s.log.WithField("messageId", e.MessageID).Debug("dropping content delta with no open message")
		return
	}

	msg.Content += e.Delta
	s.recordToken()
}

// applyMessageEnd seals the message, extracting an embedded component if
// the accumulated content carries the sentinel prefix.
func (s *Session) applyMessageEnd(e *events.TextMessageEndEvent) {
	msg := s.findMessageLocked(e.MessageID)
	if msg == nil {
		msg = s.openMessageLocked()
	}
	if msg == nil {
		s.log.WithField("messageId", e.MessageID).Debug("end event with no open message")
		return
	}
	s.sealMessageLocked(msg)
}

// sealMessageLocked completes a message. Component extraction happens
// exactly once, here: on success the displayed content is cleared and the
// payload attached; a malformed payload leaves the content as plain
// visible text. IsComplete is set unconditionally.
func (s *Session) sealMessageLocked(msg *Message) {
	if comp, err := ParseComponent(msg.Content); err == nil && comp != nil {
		msg.Content = ""
		msg.Component = comp
	} else if err != nil {
		s.log.WithError(err).Debug("sealing component-prefixed message as plain text")
	}
	msg.IsComplete = true
}

// findMessageLocked returns the open message with the given id, or nil.
func (s *Session) findMessageLocked(id string) *Message {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if m := s.messages[i]; m.ID == id && !m.IsComplete {
			return m
		}
	}
	return nil
}

// openMessageLocked returns the last open assistant message, or nil.
func (s *Session) openMessageLocked() *Message {
	for i := len(s.messages) - 1; i >= 0; i-- {
		if m := s.messages[i]; m.Role == RoleAssistant && !m.IsComplete {
			return m
		}
	}
	return nil
}
