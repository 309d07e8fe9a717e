package client

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/ag-ui/agentstream/pkg/core/events"
)

// applyStateUpdate replaces the shared state copy wholesale,
// last-writer-wins.
func (s *Session) applyStateUpdate(e *events.StateUpdateEvent) {
	state := make(SharedState, len(e.State))
	copy(state, e.State)
	s.state = state
}

// applyStateDelta applies an RFC 6902 patch to the shared state copy. An
// invalid patch leaves the state untouched and is logged, never fatal.
func (s *Session) applyStateDelta(e *events.StateDeltaEvent) {
	raw, err := json.Marshal(e.Delta)
	if err != nil {
		s.log.WithError(err).Warn("invalid state delta, keeping current state")
		return
	}
	patch, err := jsonpatch.DecodePatch(raw)
	if err != nil {
		s.log.WithError(err).Warn("invalid state delta, keeping current state")
		return
	}

	doc := s.state
	if doc == nil {
		doc = SharedState(`{}`)
	}
	next, err := patch.Apply(doc)
	if err != nil {
		s.log.WithError(err).Warn("state delta did not apply, keeping current state")
		return
	}
	s.state = next
}
