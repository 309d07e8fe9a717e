package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ag-ui/agentstream/pkg/core"
	"github.com/ag-ui/agentstream/pkg/core/events"
	"github.com/ag-ui/agentstream/pkg/encoding"
)

// DefaultRunPath is the server run endpoint.
const DefaultRunPath = "/api/agent"

// DefaultToolClearDelay is the display grace period after which a
// completed tool call is cleared from the active slot.
const DefaultToolClearDelay = time.Second

// Config contains configuration options for a Session.
type Config struct {
	// BaseURL is the base URL of the agentstream server
	BaseURL string

	// RunPath overrides the run endpoint path (default /api/agent)
	RunPath string

	// HTTPClient overrides the transport client. It must not set a
	// response timeout that would cut long-lived streams.
	HTTPClient *http.Client

	// Logger receives session diagnostics (default logrus standard logger)
	Logger *logrus.Logger

	// ThreadID correlates runs into one conversation; generated if empty
	ThreadID string

	// UIActionHandlers is the fixed handler set for UI_ACTION events.
	// Handlers are injected at construction; changing them later means
	// constructing a new session.
	UIActionHandlers map[string]UIActionHandler

	// ToolClearDelay is the grace period before a completed tool call is
	// cleared from the active slot (default 1s)
	ToolClearDelay time.Duration
}

// Session is the client-side stream consumer for one conversation.
type Session struct {
	endpoint string
	http     *http.Client
	log      *logrus.Entry
	handlers map[string]UIActionHandler
	actions  []string
	clear    time.Duration

	mu       sync.Mutex
	closed   bool
	gen      uint64
	cancel   context.CancelFunc
	phase    Phase
	threadID string
	lastErr  string

	messages []*Message
	tool     *ToolCall
	state    SharedState

	metrics    Metrics
	runStart   time.Time
	tokenCount int
}

// NewSession creates a new session with the given configuration.
func NewSession(cfg Config) (*Session, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("%w: BaseURL is required", core.ErrInvalidConfig)
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid BaseURL: %v", core.ErrInvalidConfig, err)
	}

	runPath := cfg.RunPath
	if runPath == "" {
		runPath = DefaultRunPath
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	threadID := cfg.ThreadID
	if threadID == "" {
		threadID = events.GenerateThreadID()
	}
	clear := cfg.ToolClearDelay
	if clear <= 0 {
		clear = DefaultToolClearDelay
	}

	handlers := make(map[string]UIActionHandler, len(cfg.UIActionHandlers))
	actions := make([]string, 0, len(cfg.UIActionHandlers))
	for name, h := range cfg.UIActionHandlers {
		handlers[name] = h
		actions = append(actions, name)
	}
	sort.Strings(actions)

	return &Session{
		endpoint: base.JoinPath(runPath).String(),
		http:     httpClient,
		log:      logger.WithField("component", "session").WithField("threadId", threadID),
		handlers: handlers,
		actions:  actions,
		clear:    clear,
		threadID: threadID,
	}, nil
}

// runRequest is the client → server request surface.
type runRequest struct {
	Messages           []requestMessage `json:"messages"`
	ThreadID           string           `json:"thread_id"`
	AvailableUIActions []string         `json:"available_ui_actions,omitempty"`
}

type requestMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Send issues a new run for the given user text. If a previous run is
// still streaming it is superseded: its transport read is aborted before
// the new request goes out, and none of its remaining frames can mutate
// visible state. Send returns once the run is launched; progress is
// observed through the snapshot accessors.
func (s *Session) Send(ctx context.Context, text string) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return core.ErrSessionClosed
	}

	// Supersede, never queue.
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
	gen := s.gen

	s.messages = append(s.messages, &Message{
		ID:         events.GenerateMessageID(),
		Role:       RoleUser,
		Content:    text,
		IsComplete: true,
	})
	s.phase = PhaseConnecting
	s.lastErr = ""

	req := runRequest{
		ThreadID:           s.threadID,
		AvailableUIActions: s.actions,
	}
	for _, m := range s.messages {
		req.Messages = append(req.Messages, requestMessage{Role: m.Role, Content: m.Content})
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	payload, err := json.Marshal(req)
	if err != nil {
		cancel()
		s.fail(gen, &core.TransportError{Op: "encode request", Err: err})
		return err
	}

	go s.stream(runCtx, gen, payload)
	return nil
}

// stream runs the read-decode loop for one run.
func (s *Session) stream(ctx context.Context, gen uint64, payload []byte) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		s.fail(gen, &core.TransportError{Op: "build request", Err: err})
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")

	resp, err := s.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Superseded or torn down; cancellation is never surfaced.
			s.log.Debug("run aborted before response")
			return
		}
		s.fail(gen, &core.TransportError{Op: "connect", Err: err})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		s.fail(gen, &core.TransportError{
			Op:  "connect",
			Err: fmt.Errorf("server returned %d: %s", resp.StatusCode, bytes.TrimSpace(body)),
		})
		return
	}

	dec := encoding.NewStreamDecoder(resp.Body, s.log)
	for {
		ev, err := dec.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			if ctx.Err() != nil {
				s.log.Debug("run aborted mid-stream")
				return
			}
			s.fail(gen, &core.TransportError{Op: "read", Err: err})
			return
		}
		s.apply(gen, ev)
	}
	s.settle(gen)
}

// fail records a transport failure for the current run. Frames from
// superseded runs are ignored.
func (s *Session) fail(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.closed {
		return
	}
	s.log.WithError(err).Warn("run failed")
	s.phase = PhaseIdle
	s.lastErr = err.Error()
	s.abandonToolLocked()
}

// settle clears the streaming phase if the stream closed without a
// terminal event.
func (s *Session) settle(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.closed {
		return
	}
	if s.phase != PhaseIdle {
		s.log.Debug("stream closed without terminal event")
		s.phase = PhaseIdle
	}
}

// Close aborts any in-flight run and releases the session.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.phase = PhaseIdle
	return nil
}

// ThreadID returns the session's thread correlation id.
func (s *Session) ThreadID() string {
	return s.threadID
}

// Phase returns the current run phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// IsStreaming reports whether a run is currently streaming or connecting.
func (s *Session) IsStreaming() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase != PhaseIdle
}

// LastError returns the most recent run error message. It persists until
// the next send or an explicit ClearError.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// ClearError dismisses the stored error message.
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = ""
}

// Messages returns a copy of the ordered conversation list.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	for i, m := range s.messages {
		out[i] = *m
	}
	return out
}

// ActiveToolCall returns a copy of the tracked tool call, or nil.
func (s *Session) ActiveToolCall() *ToolCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tool == nil {
		return nil
	}
	tc := *s.tool
	return &tc
}

// Metrics returns the latest per-run metrics snapshot.
func (s *Session) Metrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

// State returns a copy of the shared state document, or nil if the agent
// has not published one.
func (s *Session) State() SharedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil {
		return nil
	}
	out := make(SharedState, len(s.state))
	copy(out, s.state)
	return out
}
