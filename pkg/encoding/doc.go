// Package encoding provides SSE framing for AG-UI events.
//
// The wire format is one event per line of the form
//
//	data: <JSON>\n\n
//
// Writer produces frames on the server side. Reassembler turns an
// arbitrarily chunked byte stream back into complete lines: events may
// arrive several per read, split across reads, or as a trailing partial
// line flushed at stream close. StreamDecoder combines a Reassembler with
// event decoding and skips malformed frames without aborting the stream.
package encoding
