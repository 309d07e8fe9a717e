package encoding

import (
	"bytes"
	"strings"
)

// Reassembler turns a raw, arbitrarily chunked byte stream into complete
// lines. It keeps the trailing partial segment of each chunk pending until
// the next read completes it; Flush drains whatever remains when the
// stream closes.
type Reassembler struct {
	pending []byte
}

// Feed appends a chunk and returns all lines completed by it, in order.
func (r *Reassembler) Feed(chunk []byte) []string {
	if len(chunk) == 0 {
		return nil
	}
	r.pending = append(r.pending, chunk...)

	var lines []string
	for {
		idx := bytes.IndexByte(r.pending, '\n')
		if idx < 0 {
			break
		}
		line := string(r.pending[:idx])
		r.pending = r.pending[idx+1:]
		lines = append(lines, strings.TrimSuffix(line, "\r"))
	}
	return lines
}

// Flush returns the remaining partial line, if any. Called once at stream
// close.
func (r *Reassembler) Flush() (string, bool) {
	if len(r.pending) == 0 {
		return "", false
	}
	line := strings.TrimSuffix(string(r.pending), "\r")
	r.pending = nil
	return line, true
}
