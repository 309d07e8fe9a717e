// Package client implements the consuming side of the AG-UI event stream.
//
// A Session owns one conversation: it issues run requests, decodes the
// SSE response through pkg/encoding, and applies each event to a set of
// reducers (messages, tool call, metrics, shared state, run phase) in
// arrival order. Reducer application for one frame is atomic relative to
// other frames.
//
// Exactly one run streams at a time per session. Sending while a run is
// still streaming supersedes it: the previous transport read is aborted
// before the new request is issued, and no frame from the aborted stream
// can mutate visible state afterwards. Sessions are isolated; they share
// no mutable state.
package client
