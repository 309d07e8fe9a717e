package encoding

import (
	"fmt"
	"io"
	"net/http"

	"github.com/ag-ui/agentstream/pkg/core/events"
)

// EncodeFrame serializes an event into a single SSE frame.
func EncodeFrame(ev events.Event) ([]byte, error) {
	data, err := ev.ToJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}
	return []byte(fmt.Sprintf("data: %s\n\n", data)), nil
}

// Writer sends AG-UI event frames to an http.ResponseWriter as
// Server-Sent Events, flushing after every frame.
type Writer struct {
	w       io.Writer
	flusher http.Flusher
}

// NewWriter creates a new SSE writer and sets the response headers.
// Returns nil if the ResponseWriter doesn't support http.Flusher.
func NewWriter(w http.ResponseWriter) *Writer {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // nginx
	flusher.Flush()

	return &Writer{w: w, flusher: flusher}
}

// WriteEvent writes one event frame.
func (s *Writer) WriteEvent(ev events.Event) error {
	frame, err := EncodeFrame(ev)
	if err != nil {
		return err
	}
	if _, err := s.w.Write(frame); err != nil {
		return fmt.Errorf("write SSE frame: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// WriteComment writes an SSE comment (for keep-alive pings).
func (s *Writer) WriteComment(text string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", text); err != nil {
		return fmt.Errorf("write SSE comment: %w", err)
	}
	s.flusher.Flush()
	return nil
}
