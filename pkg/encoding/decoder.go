package encoding

import (
	"errors"
	"io"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ag-ui/agentstream/pkg/core"
	"github.com/ag-ui/agentstream/pkg/core/events"
)

const framePrefix = "data:"

// DecodeFrameLine decodes one reassembled line into an event.
//
// Blank lines, SSE comments and lines that don't follow the event-line
// convention yield (nil, false, nil): they are ignored, never an error.
// Lines that look like frames but fail to decode return a
// *core.FrameDecodeError; callers log and skip those.
func DecodeFrameLine(line string) (events.Event, bool, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, ":") {
		return nil, false, nil
	}
	if !strings.HasPrefix(trimmed, framePrefix) {
		return nil, false, nil
	}

	payload := strings.TrimSpace(strings.TrimPrefix(trimmed, framePrefix))
	if payload == "" {
		return nil, false, nil
	}

	ev, err := events.EventFromJSON([]byte(payload))
	if err != nil {
		return nil, false, &core.FrameDecodeError{Line: trimmed, Err: err}
	}
	return ev, true, nil
}

// StreamDecoder reads raw chunks from a transport stream and yields
// decoded events in arrival order. One bad line never aborts the session:
// malformed frames are logged and skipped. Unknown event kinds are skipped
// too, preserving forward compatibility.
type StreamDecoder struct {
	r       io.Reader
	re      Reassembler
	buf     []byte
	queue   []string
	flushed bool
	log     *logrus.Entry
}

// NewStreamDecoder creates a decoder over r.
func NewStreamDecoder(r io.Reader, log *logrus.Entry) *StreamDecoder {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &StreamDecoder{
		r:   r,
		buf: make([]byte, 4096),
		log: log,
	}
}

// Next returns the next decoded event. It returns io.EOF once the stream
// is exhausted, including the final flush of any trailing partial line.
func (d *StreamDecoder) Next() (events.Event, error) {
	for {
		// Drain already reassembled lines first.
		for len(d.queue) > 0 {
			line := d.queue[0]
			d.queue = d.queue[1:]

			ev, ok, err := DecodeFrameLine(line)
			if err != nil {
				if errors.Is(err, core.ErrUnknownEventType) {
					d.log.WithError(err).Debug("skipping unknown event kind")
				} else {
					d.log.WithError(err).Warn("skipping malformed frame")
				}
				continue
			}
			if ok {
				return ev, nil
			}
		}

		if d.flushed {
			return nil, io.EOF
		}

		n, err := d.r.Read(d.buf)
		if n > 0 {
			d.queue = append(d.queue, d.re.Feed(d.buf[:n])...)
		}
		if err != nil {
			if err == io.EOF {
				d.flushed = true
				if line, ok := d.re.Flush(); ok {
					d.queue = append(d.queue, line)
				}
				continue
			}
			return nil, err
		}
	}
}
