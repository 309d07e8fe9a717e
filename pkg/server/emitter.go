package server

import (
	"strings"
	"sync"

	"github.com/ag-ui/agentstream/pkg/core/events"
)

// Emitter is the ordered event sink for one run. The producer goroutine
// emits, closes when done; the transport loop drains. Once the consumer
// aborts (client gone), further emits are dropped: the producer may keep
// computing after the client stopped listening, which is an accepted,
// documented resource-leak risk rather than a protocol violation.
type Emitter struct {
	ch   chan events.Event
	done chan struct{}

	closeOnce sync.Once
	abortOnce sync.Once

	mu   sync.Mutex
	text strings.Builder
}

// NewEmitter creates an emitter with the given channel buffer.
func NewEmitter(buffer int) *Emitter {
	if buffer <= 0 {
		buffer = 64
	}
	return &Emitter{
		ch:   make(chan events.Event, buffer),
		done: make(chan struct{}),
	}
}

// Emit appends one event to the run's output stream. Returns false once
// the consumer has aborted.
func (e *Emitter) Emit(ev events.Event) bool {
	if c, ok := ev.(*events.TextMessageContentEvent); ok {
		e.mu.Lock()
		e.text.WriteString(c.Delta)
		e.mu.Unlock()
	}

	select {
	case <-e.done:
		return false
	default:
	}

	select {
	case e.ch <- ev:
		return true
	case <-e.done:
		return false
	}
}

// Events returns the ordered output stream. It is closed by the producer
// when the run is complete.
func (e *Emitter) Events() <-chan events.Event {
	return e.ch
}

// Close marks the end of the run's output. Producer side only.
func (e *Emitter) Close() {
	e.closeOnce.Do(func() { close(e.ch) })
}

// Abort unblocks the producer after the consumer stops draining.
func (e *Emitter) Abort() {
	e.abortOnce.Do(func() { close(e.done) })
}

// AccumulatedText returns all assistant text emitted so far, used for the
// UI-action text fallback at run finish.
func (e *Emitter) AccumulatedText() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.text.String()
}
