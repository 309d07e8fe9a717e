// Package server implements the producing side of the AG-UI event stream.
//
// Each run request gets a dedicated output stream: a producer goroutine
// emits domain events into an Emitter, and the HTTP handler drains them
// into SSE frames (or WebSocket messages) in emission order. Recognized
// intents are answered deterministically by the keyword Router without
// touching an LLM; everything else falls through to the configured
// TokenStreamer. Both paths are wrapped in the same
// RUN_STARTED … RUN_FINISHED/RUN_ERROR, DONE envelope so clients behave
// uniformly regardless of which path produced the run.
package server
