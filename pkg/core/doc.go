// Package core contains the shared error taxonomy for agentstream.
//
// Decode-level failures (FrameDecodeError, ComponentParseError) are
// contained where they occur and never abort a session. Only a
// TransportError or an explicit AgentError ends a run early. Cancellation
// caused by send-supersession or session teardown is swallowed silently
// and never surfaced as a user-facing error.
package core
